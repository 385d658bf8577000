package service

import (
	"context"
	"strings"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/pkg/utils"

	"go.uber.org/zap"
)

// ListProducts returns every product, inactive ones included
func (s *Service) ListProducts(ctx context.Context, actor *model.User) ([]model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Products().List(ctx)
}

// SaveProduct creates or replaces a product. Title and image are required,
// the image link is normalized and new products are active unless told
// otherwise.
func (s *Service) SaveProduct(ctx context.Context, actor *model.User, in ProductInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Image = utils.NormalizeImageURL(strings.TrimSpace(in.Image))
	if in.Title == "" || in.Image == "" {
		return model.Product{}, cnst.ErrProductIncomplete
	}
	if err := s.validate(in, cnst.ErrInvalidInput); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		ID:            strings.TrimSpace(in.ID),
		Type:          in.Type,
		Title:         in.Title,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Amount:        in.Amount,
		Description:   in.Description,
		Image:         in.Image,
		Active:        true,
	}
	if p.Type == "" {
		p.Type = model.ProductGiftCard
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if p.ID == "" {
		p.ID = utils.GenerateID("PROD")
	}

	if err := s.store.Products().Upsert(ctx, p); err != nil {
		return model.Product{}, err
	}
	s.logger.Info("product saved", zap.String("actor", actor.ID), zap.String("id", p.ID))
	return p, nil
}

// ToggleProduct flips the visibility of a product and reports whether it exists
func (s *Service) ToggleProduct(ctx context.Context, actor *model.User, id string) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	found := false
	err := s.store.Products().Mutate(ctx, func(items []model.Product) ([]model.Product, bool, error) {
		for i := range items {
			if items[i].ID == id {
				found = true
				items[i].Active = !items[i].Active
				return items, true, nil
			}
		}
		return items, false, nil
	})
	return found, err
}

func (s *Service) DeleteProduct(ctx context.Context, actor *model.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Products().DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("actor", actor.ID), zap.String("id", id))
	return nil
}
