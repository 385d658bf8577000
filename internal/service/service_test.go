package service

import (
	"context"
	"testing"
	"time"

	"github.com/eliteshop/storefront/internal/auth"
	"github.com/eliteshop/storefront/internal/auth/jwt"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/kv"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/metrics"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminID       = "ADMIN-CORE-001"
	adminPassword = "admin-pass"
	adminCode     = "474001"
)

type fixture struct {
	svc   *Service
	store *store.Store
	scope *store.Sessions
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	st := store.New(zap.NewNop(), kv.NewMemoryStore(zap.NewNop()),
		store.WithClock(fixedClock{testNow}),
		store.WithHasher(auth.BcryptHasher{Cost: bcrypt.MinCost}),
		store.WithBootstrap(config.BootstrapConfig{MainAdmin: config.MainAdminConfig{
			ID:       adminID,
			Username: "samin080g",
			Email:    "saminsingdho@gmail.com",
			Password: adminPassword,
		}}),
	)
	require.NoError(t, st.Init(context.Background()))

	tokens, err := jwt.NewService(jwt.Config{SecretKey: "test-secret", Duration: time.Hour})
	require.NoError(t, err)

	opts := Options{
		Pricing:   config.PricingConfig{TimeZone: "UTC"},
		AdminCode: adminCode,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	svc := New(zap.NewNop(), st, tokens, metrics.New(config.MetricsConfig{Namespace: "test"}), opts)
	return &fixture{svc: svc, store: st, scope: st.SessionScope("client-1")}
}

func (f *fixture) admin(t *testing.T) *model.User {
	t.Helper()
	u, err := f.store.Users().FindByID(context.Background(), adminID)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func (f *fixture) signUp(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.svc.SignUp(context.Background(), f.store.SessionScope("signup-"+name), SignUpInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret-" + name,
	})
	require.NoError(t, err)
	return u
}

func pct(v float64) *float64 { return &v }
