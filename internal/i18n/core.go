package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messageFS embed.FS

// supported lists the languages the storefront ships messages for; the
// first entry is the fallback
var supported = []language.Tag{language.English, language.Bengali}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
	matcher     language.Matcher
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
		matcher:     language.NewMatcher(supported),
	}
}

// New returns a translator loaded with the built-in messages and, when dir
// is set, the translation files found there
func New(dir string) (*I18n, error) {
	i := NewI18n(language.English)
	if err := i.LoadEmbedded(); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := i.LoadTranslations(dir); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// SetDefaultLanguage changes the fallback language. Unsupported languages
// are ignored.
func (i *I18n) SetDefaultLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		return
	}
	if _, idx, conf := i.matcher.Match(tag); conf != language.No {
		i.defaultLang = supported[idx]
	}
}

// LoadEmbedded loads the message files compiled into the binary
func (i *I18n) LoadEmbedded() error {
	entries, err := messageFS.ReadDir("messages")
	if err != nil {
		return fmt.Errorf("failed to read embedded messages: %w", err)
	}
	for _, e := range entries {
		name := path.Join("messages", e.Name())
		buf, err := messageFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := i.bundle.ParseMessageFileBytes(buf, name); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return nil
}

// LoadTranslations loads translation files from the specified directory.
// Files override embedded messages with the same ID.
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		if !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}

		filePath := filepath.Join(translationsDir, file.Name())
		if _, err := i.bundle.LoadMessageFile(filePath); err != nil {
			return fmt.Errorf("failed to load %s: %w", filePath, err)
		}
	}

	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())

	lc := &i18n.LocalizeConfig{
		MessageID: msgID,
	}

	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}

	return msg
}

// TranslateContext returns a localized string using the Gin context's language preference
func (i *I18n) TranslateContext(c *gin.Context, msgID string, templateData map[string]any) string {
	return i.Translate(msgID, LangFromContext(c), templateData)
}

// LanguageFromRequest picks a supported language from the X-Lang header,
// then Accept-Language, then the default
func (i *I18n) LanguageFromRequest(r *http.Request) string {
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return i.normalizeLang(lang)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			return i.match(tags...)
		}
	}
	return i.base(i.defaultLang)
}

// normalizeLang maps a language code onto a supported language
func (i *I18n) normalizeLang(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return i.base(i.defaultLang)
	}
	return i.match(tag)
}

func (i *I18n) match(tags ...language.Tag) string {
	_, idx, conf := i.matcher.Match(tags...)
	if conf == language.No {
		return i.base(i.defaultLang)
	}
	return i.base(supported[idx])
}

func (i *I18n) base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}

// Middleware stores the request language in the gin context
func (i *I18n) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i.LanguageFromRequest(c.Request)
		c.Set(cnst.XLang, lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// LangFromContext returns the language set by Middleware, or the default
func LangFromContext(c *gin.Context) string {
	if v, ok := c.Get(cnst.XLang); ok {
		if lang, ok := v.(string); ok && lang != "" {
			return lang
		}
	}
	return cnst.LangDefault
}
