package service

import (
	"context"
	"strings"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/pricing"
)

// Storefront is what every page renders around its content
type Storefront struct {
	Settings     model.SiteSettings `json:"settings"`
	ActiveEvents []model.Event      `json:"activeEvents"`
}

// CatalogItem is an active product with its price at the time of the request
type CatalogItem struct {
	model.Product
	EffectivePrice float64 `json:"effectivePrice"`
	Discount       float64 `json:"discountPercentage"`
	EventID        string  `json:"eventId,omitempty"`
}

type PaymentAccount struct {
	Method model.PaymentMethod `json:"method"`
	Number string              `json:"number"`
}

func (s *Service) Storefront(ctx context.Context) (Storefront, error) {
	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		return Storefront{}, err
	}
	return Storefront{
		Settings:     settings,
		ActiveEvents: pricing.ActiveEvents(settings.Events, s.now()),
	}, nil
}

// Catalog lists the active products priced against the running events
func (s *Service) Catalog(ctx context.Context) ([]CatalogItem, error) {
	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.store.Settings().Events(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]CatalogItem, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		item := CatalogItem{Product: p, EffectivePrice: pricing.EffectivePrice(p, events, now)}
		if e := pricing.MatchEvent(p.ID, events, now); e != nil {
			item.Discount = e.Discount()
			item.EventID = e.ID
		}
		out = append(out, item)
	}
	return out, nil
}

// Quote prices a purchase of an active product
func (s *Service) Quote(ctx context.Context, in QuoteInput) (pricing.Quote, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if err := s.validate(in, cnst.ErrProductUnavailable); err != nil {
		return pricing.Quote{}, err
	}
	p, err := s.activeProduct(ctx, in.ProductID)
	if err != nil {
		return pricing.Quote{}, err
	}
	events, err := s.store.Settings().Events(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.NewQuote(*p, events, s.now(), in.Amount, in.Quantity, s.limits), nil
}

func (s *Service) activeProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, cnst.ErrProductUnavailable
	}
	return p, nil
}

// PaymentInfo lists the accounts buyers send money to
func (s *Service) PaymentInfo() []PaymentAccount {
	return []PaymentAccount{
		{Method: model.PaymentNagad, Number: cnst.NagadNumber},
		{Method: model.PaymentBKash, Number: cnst.BKashNumber},
	}
}
