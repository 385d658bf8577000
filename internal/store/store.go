package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eliteshop/storefront/internal/auth"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/kv"
	"github.com/eliteshop/storefront/pkg/trace"
	"github.com/eliteshop/storefront/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Storage keys. They match the keys used by the v3.0 browser client, so
// exported localStorage data can be imported verbatim.
const (
	KeyVersion  = "elite_storage_version"
	KeyOrders   = "elite_orders"
	KeyUsers    = "elite_users"
	KeySettings = "elite_settings"
	KeyProducts = "elite_products"
	KeySession  = "elite_auth_session"

	// Version is stamped under KeyVersion by Init
	Version = "3.0"
)

// ErrNotInitialized is returned by every repository method until Init has run
var ErrNotInitialized = errors.New("store: not initialized")

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Store is the typed layer over a kv.Store. Writes made through one Store are
// serialized; separate processes sharing a backend still race.
type Store struct {
	logger     *zap.Logger
	kv         kv.Store
	clock      Clock
	hasher     auth.PasswordHasher
	bootstrap  config.BootstrapConfig
	onFallback func(key string)
	onPassword func(email, password string)

	mu          sync.Mutex
	initialized atomic.Bool
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithFallbackHook is called with the key whenever a stored value could not
// be decoded and its default was used instead
func WithFallbackHook(fn func(key string)) Option {
	return func(s *Store) { s.onFallback = fn }
}

// WithPasswordNotice receives the password generated for a main admin
// bootstrapped without one. It is never logged.
func WithPasswordNotice(fn func(email, password string)) Option {
	return func(s *Store) { s.onPassword = fn }
}

func WithBootstrap(cfg config.BootstrapConfig) Option {
	return func(s *Store) { s.bootstrap = cfg }
}

func WithHasher(h auth.PasswordHasher) Option {
	return func(s *Store) { s.hasher = h }
}

func New(logger *zap.Logger, backend kv.Store, opts ...Option) *Store {
	s := &Store{
		logger: logger.Named("store"),
		kv:     backend,
		clock:  RealClock{},
		hasher: auth.BcryptHasher{},
		bootstrap: config.BootstrapConfig{MainAdmin: config.MainAdminConfig{
			ID:       defaultAdminID,
			Username: defaultAdminUsername,
			Email:    defaultAdminEmail,
		}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Clock() Clock { return s.clock }

func (s *Store) Hasher() auth.PasswordHasher { return s.hasher }

// Initialized reports whether Init has completed
func (s *Store) Initialized() bool { return s.initialized.Load() }

func (s *Store) ready() error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}
	return nil
}

// Init brings the backend to a usable baseline. Missing keys get their
// defaults, present keys are never touched, the main admin is appended when
// no user has its email, and the version marker is stamped. Running it again
// changes nothing.
func (s *Store) Init(ctx context.Context) error {
	span := trace.Tracer(cnst.TraceStore).Start(ctx, cnst.SpanStoreInit)
	defer span.End()
	ctx = span.Ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.kv.Get(ctx, KeyVersion)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.logger.Info("empty storage, seeding defaults")
	case err != nil:
		span.Fail(err)
		return fmt.Errorf("failed to read storage version: %w", err)
	case string(prev) != Version:
		s.logger.Info("upgrading storage", zap.String("from", string(prev)), zap.String("to", Version))
	}

	seeds := []struct {
		key   string
		value func() any
	}{
		{KeyProducts, func() any { return DefaultProducts() }},
		{KeyUsers, func() any { return []any{} }},
		{KeySettings, func() any { return DefaultSettings() }},
		{KeyOrders, func() any { return []any{} }},
	}
	for _, seed := range seeds {
		if err := s.seed(ctx, seed.key, seed.value); err != nil {
			span.Fail(err)
			return err
		}
	}

	adminID, err := s.ensureMainAdmin(ctx)
	if err != nil {
		span.Fail(err)
		return err
	}
	if adminID != "" {
		span.WithAttrs(attribute.String(cnst.AttrUserID, adminID))
	}

	if err := s.kv.Set(ctx, KeyVersion, []byte(Version)); err != nil {
		span.Fail(err)
		return fmt.Errorf("failed to stamp storage version: %w", err)
	}

	s.initialized.Store(true)
	s.logger.Info("storage ready", zap.String("version", Version))
	return nil
}

// seed writes the default only when key is absent
func (s *Store) seed(ctx context.Context, key string, value func() any) error {
	_, err := s.kv.Get(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	s.logger.Info("seeding default value", zap.String("key", key))
	return s.writeJSON(ctx, key, value())
}

// ensureMainAdmin appends the configured main admin unless a user with the
// same email exists. It returns the id of the created account, if any.
func (s *Store) ensureMainAdmin(ctx context.Context) (string, error) {
	admin := s.bootstrap.MainAdmin
	users, outcome, err := s.readUsers(ctx)
	if err != nil {
		return "", err
	}
	if outcome == Fallback {
		s.logger.Error("users value is unreadable, skipping main admin bootstrap",
			zap.String("key", KeyUsers))
		return "", nil
	}

	if findUserByEmail(users, admin.Email) >= 0 {
		return "", nil
	}

	password := admin.Password
	if password == "" {
		password = utils.RandomCode(12)
		s.logger.Warn("no bootstrap password configured, generated one",
			zap.String("email", admin.Email))
		if s.onPassword != nil {
			s.onPassword(admin.Email, password)
		}
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	id := admin.ID
	if id == "" || findUserByID(users, id) >= 0 {
		id = utils.GenerateID("ADMIN")
	}

	users = append(users, mainAdmin(id, admin, hash, s.clock.Now()))
	if err := s.writeJSON(ctx, KeyUsers, users); err != nil {
		return "", err
	}
	s.logger.Info("created main admin", zap.String("id", id), zap.String("email", admin.Email))
	return id, nil
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// readRaw returns the stored bytes and whether the key exists
func (s *Store) readRaw(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *Store) fallback(key string, err error) {
	s.logger.Warn("stored value does not match its schema, using default",
		zap.String("key", key),
		zap.Error(err))
	if s.onFallback != nil {
		s.onFallback(key)
	}
}
