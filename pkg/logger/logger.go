package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eliteshop/storefront/internal/common/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultTimeFormat = "2006-01-02 15:04:05"

// NewLogger builds the process logger from configuration. Fields passed in
// are attached to every entry.
func NewLogger(cfg *config.LoggerConfig, fields ...zap.Field) (*zap.Logger, error) {
	setLoggerDefaults(cfg)

	syncer, err := getWriteSyncer(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(getEncoder(cfg), syncer, zap.NewAtomicLevelAt(getLogLevel(cfg.Level)))
	opts := []zap.Option{zap.AddCaller()}
	if cfg.Stacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if len(fields) > 0 {
		opts = append(opts, zap.Fields(fields...))
	}
	return zap.New(core, opts...), nil
}

func setLoggerDefaults(cfg *config.LoggerConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if cfg.Output == "file" && cfg.FilePath == "" {
		cfg.FilePath = "./logs/eliteshop.log"
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 100 // MB
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 7 // days
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "Local"
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaultTimeFormat
	}
}

func getEncoder(cfg *config.LoggerConfig) zapcore.Encoder {
	loc := resolveTimeZone(cfg.TimeZone)
	layout := cfg.TimeFormat

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeDuration = zapcore.SecondsDurationEncoder
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(layout))
	}

	if cfg.Format == "console" {
		if cfg.Color {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

func resolveTimeZone(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func getWriteSyncer(cfg *config.LoggerConfig) (zapcore.WriteSyncer, error) {
	if cfg.Output != "file" {
		return zapcore.AddSync(os.Stdout), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
		Compress:   cfg.Compress,
	}), nil
}

// getLogLevel maps a level name to zap, defaulting to info
func getLogLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
