package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/eliteshop/storefront/internal/apiserver"
	"github.com/eliteshop/storefront/internal/auth/jwt"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/i18n"
	"github.com/eliteshop/storefront/internal/kv"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/helper"
	"github.com/eliteshop/storefront/pkg/logger"
	"github.com/eliteshop/storefront/pkg/metrics"
	"github.com/eliteshop/storefront/pkg/trace"
	"github.com/eliteshop/storefront/pkg/version"

	"go.uber.org/zap"
)

// app holds the long-lived components shared by the subcommands
type app struct {
	cfg     *config.ShopConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	backend kv.Store
	store   *store.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, cfgPath, err := config.LoadConfig[config.ShopConfig](configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", cfgPath, err)
	}

	lg, err := logger.NewLogger(&cfg.Logger, zap.String("app", cnst.AppName))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	lg.Info("loaded configuration",
		zap.String("path", cfgPath),
		zap.String("version", version.Get()),
		zap.String("storage", cfg.Storage.Type))

	backend, err := kv.NewStore(ctx, lg, &cfg.Storage)
	if err != nil {
		_ = lg.Sync()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}

	m := metrics.New(cfg.Metrics)
	st := store.New(lg, backend,
		store.WithBootstrap(cfg.Bootstrap),
		store.WithFallbackHook(m.DecodeFallback),
		store.WithPasswordNotice(printAdminPassword),
	)
	return &app{cfg: cfg, logger: lg, metrics: m, backend: backend, store: st}, nil
}

// noticeOut receives one-off secrets meant for the operator, kept out of the logs
var noticeOut io.Writer = os.Stderr

func printAdminPassword(email, password string) {
	fmt.Fprintf(noticeOut, "main admin %s created with generated password: %s\n", email, password)
	fmt.Fprintln(noticeOut, "it is shown only once, set bootstrap.main_admin.password to choose your own")
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func initStorage(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Init(ctx); err != nil {
		a.logger.Error("storage initialization failed", zap.Error(err))
		return err
	}
	a.logger.Info("storage initialized")
	return nil
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Server.PID != "" {
		remove, err := helper.WritePIDFile(helper.GetPIDPath(a.cfg.Server.PID))
		if err != nil {
			return err
		}
		defer remove()
	}

	shutdownTracing, err := trace.InitTracing(ctx, &a.cfg.Tracing, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			a.logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	if err := a.store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	tokens, err := newTokenService(a.cfg.Auth.JWT, a.logger)
	if err != nil {
		return err
	}

	translator, err := i18n.New(a.cfg.I18n.Path)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	translator.SetDefaultLanguage(a.cfg.I18n.DefaultLanguage)

	svc := service.New(a.logger, a.store, tokens, a.metrics, service.Options{
		Pricing:   a.cfg.Pricing,
		Orders:    a.cfg.Orders,
		AdminCode: a.cfg.Auth.AdminCode,
	})

	srv := apiserver.New(apiserver.Deps{
		Config:  a.cfg,
		Logger:  a.logger,
		Service: svc,
		Metrics: a.metrics,
		I18n:    translator,
	})
	return srv.Run(ctx)
}

// newTokenService signs admin gate tokens. Without a configured secret a
// random one is used, so tokens do not survive a restart.
func newTokenService(cfg config.JWTConfig, lg *zap.Logger) (*jwt.Service, error) {
	secret := cfg.SecretKey
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		lg.Warn("auth.jwt.secret_key is empty, using a random secret")
	}
	return jwt.NewService(jwt.Config{SecretKey: secret, Duration: cfg.Duration})
}
