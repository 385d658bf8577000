package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/pkg/trace"
	"github.com/eliteshop/storefront/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const eventLayout = "2006-01-02 15:04"

// BroadcastEvent creates an active promotion ending at the given date and
// time in the shop's zone
func (s *Service) BroadcastEvent(ctx context.Context, actor *model.User, in EventInput) (model.Event, error) {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBroadcastEvent)
	defer span.End()
	ctx = span.Ctx

	if err := requireAdmin(actor); err != nil {
		return model.Event{}, err
	}

	end, err := s.ParseEventEnd(in.Date, in.Time)
	if err != nil {
		return model.Event{}, err
	}
	if in.Discount < 0 || in.Discount > 100 {
		return model.Event{}, cnst.ErrInvalidDiscount
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(in, cnst.ErrInvalidInput); err != nil {
		return model.Event{}, err
	}

	discount := in.Discount
	e := model.Event{
		ID:                   utils.GenerateID("EVT"),
		Name:                 in.Name,
		TargetDate:           end.UnixMilli(),
		Active:               true,
		DiscountPercentage:   &discount,
		ApplicableProductIDs: utils.CompactStrings(in.ProductIDs),
	}
	if err := s.store.Settings().AddEvent(ctx, e); err != nil {
		span.Fail(err)
		return model.Event{}, err
	}

	span.WithAttrs(attribute.String("shop.event_id", e.ID))
	s.logger.Info("event broadcast",
		zap.String("actor", actor.ID),
		zap.String("id", e.ID),
		zap.Time("ends", end),
		zap.Float64("discount", discount))
	return e, nil
}

// ParseEventEnd combines the admin form's date and time fields
func (s *Service) ParseEventEnd(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, cnst.ErrInvalidEventDate
	}
	t, err := time.ParseInLocation(eventLayout, date+" "+clock, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", cnst.ErrInvalidEventDate, err)
	}
	return t, nil
}

func (s *Service) ToggleEvent(ctx context.Context, actor *model.User, id string) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	return s.store.Settings().ToggleEvent(ctx, id)
}

func (s *Service) DeleteEvent(ctx context.Context, actor *model.User, id string) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	return s.store.Settings().DeleteEvent(ctx, id)
}

// ListEvents returns every promotion, expired and inactive ones included
func (s *Service) ListEvents(ctx context.Context, actor *model.User) ([]model.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Settings().Events(ctx)
}

// UpdateSettings replaces the branding fields; stored events are kept
func (s *Service) UpdateSettings(ctx context.Context, actor *model.User, in SettingsInput) (model.SiteSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return model.SiteSettings{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(in, cnst.ErrInvalidInput); err != nil {
		return model.SiteSettings{}, err
	}

	var out model.SiteSettings
	err := s.store.Settings().Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		cur.Name = in.Name
		cur.Description = in.Description
		cur.LogoURL = utils.NormalizeImageURL(strings.TrimSpace(in.LogoURL))
		cur.FaviconURL = utils.NormalizeImageURL(strings.TrimSpace(in.FaviconURL))
		cur.CarouselImages = utils.NormalizeImageURLs(in.CarouselImages)
		out = *cur
		return true, nil
	})
	if err != nil {
		return model.SiteSettings{}, err
	}
	if out.Events == nil {
		out.Events = []model.Event{}
	}
	s.logger.Info("settings updated", zap.String("actor", actor.ID))
	return out, nil
}
