// Package service implements the storefront operations the HTTP layer and
// the CLI call into. It owns every business rule that is not a plain
// repository read or write.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/eliteshop/storefront/internal/auth/jwt"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/pricing"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Options carries the configuration sections the service reads
type Options struct {
	Pricing   config.PricingConfig
	Orders    config.OrdersConfig
	AdminCode string
}

type Service struct {
	logger  *zap.Logger
	store   *store.Store
	tokens  *jwt.Service
	metrics *metrics.Metrics
	v       *validator.Validate

	limits    pricing.Limits
	location  *time.Location
	adminCode string
	strict    bool
}

// New wires a service over an initialized store. tokens may be nil, in which
// case the admin gate is disabled; m may be nil.
func New(logger *zap.Logger, st *store.Store, tokens *jwt.Service, m *metrics.Metrics, opts Options) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	opts.Pricing.SetDefaults()
	return &Service{
		logger:    logger.Named("service"),
		store:     st,
		tokens:    tokens,
		metrics:   m,
		v:         v,
		limits:    pricing.LimitsFrom(opts.Pricing),
		location:  opts.Pricing.Location(),
		adminCode: opts.AdminCode,
		strict:    opts.Orders.StrictTransitions,
	}
}

func (s *Service) Store() *store.Store { return s.store }

// Location is the zone event dates are parsed in
func (s *Service) Location() *time.Location { return s.location }

func (s *Service) now() time.Time { return s.store.Clock().Now() }

// validate runs the struct tags of in and wraps the first failure in sentinel
func (s *Service) validate(in any, sentinel error) error {
	err := s.v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s failed %s", sentinel, verrs[0].Field(), verrs[0].Tag())
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func requireAdmin(actor *model.User) error {
	if actor == nil {
		return cnst.ErrNotAuthenticated
	}
	if !actor.Role.IsAdmin() {
		return cnst.ErrForbidden
	}
	return nil
}
