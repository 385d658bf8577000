package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"
	"github.com/eliteshop/storefront/internal/report"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/trace"
	"github.com/eliteshop/storefront/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	orderIDPrefix   = "ELITE-"
	orderIDAttempts = 5
)

// PlaceOrder records a Pending order for the user logged into scope. The
// price is quoted here from the stored product and events; whatever the
// client displayed is ignored.
func (s *Service) PlaceOrder(ctx context.Context, scope *store.Sessions, in CheckoutInput) (model.Order, error) {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanPlaceOrder)
	defer span.End()
	ctx = span.Ctx

	user, err := s.RequireUser(ctx, scope)
	if err != nil {
		return model.Order{}, err
	}
	span.WithAttrs(attribute.String(cnst.AttrUserID, user.ID))

	if !in.Agreed {
		return model.Order{}, cnst.ErrAgreementRequired
	}
	in.RobloxUsername = strings.TrimSpace(in.RobloxUsername)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	if err := s.validate(in, cnst.ErrCheckoutIncomplete); err != nil {
		return model.Order{}, err
	}
	if !in.PaymentMethod.Valid() {
		return model.Order{}, cnst.ErrInvalidPaymentMethod
	}

	quote, err := s.Quote(ctx, QuoteInput{ProductID: strings.TrimSpace(in.ProductID), Amount: in.Amount, Quantity: in.Quantity})
	if err != nil {
		return model.Order{}, err
	}
	span.WithAttrs(attribute.String(cnst.AttrProductID, quote.ProductID))

	order := model.Order{
		UserID:         user.ID,
		RobloxUsername: in.RobloxUsername,
		ProductName:    quote.ProductName,
		Amount:         quote.Amount,
		Quantity:       quote.Quantity,
		TotalPrice:     quote.Total,
		PaymentMethod:  in.PaymentMethod,
		PhoneNumber:    in.PhoneNumber,
		TransactionID:  in.TransactionID,
		Status:         model.OrderPending,
		Timestamp:      s.now().UnixMilli(),
	}
	err = s.store.Orders().Mutate(ctx, func(orders []model.Order) ([]model.Order, bool, error) {
		order.ID = newOrderID(orders)
		return append([]model.Order{order}, orders...), true, nil
	})
	if err != nil {
		span.Fail(err)
		return model.Order{}, err
	}

	span.WithAttrs(
		attribute.String(cnst.AttrOrderID, order.ID),
		attribute.Float64(cnst.AttrOrderTotal, order.TotalPrice))
	s.metrics.OrderPlaced(string(quote.Type), string(order.PaymentMethod), order.TotalPrice)
	s.logger.Info("order placed",
		zap.String("id", order.ID),
		zap.String("user", user.ID),
		zap.String("product", quote.ProductID),
		zap.Float64("total", order.TotalPrice))
	return order, nil
}

func newOrderID(orders []model.Order) string {
	taken := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		taken[o.ID] = struct{}{}
	}
	for i := 0; i < orderIDAttempts; i++ {
		id := orderIDPrefix + utils.RandomCode(9)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
	return utils.GenerateID("ELITE")
}

// MyOrders lists the orders of the user logged into scope, newest first
func (s *Service) MyOrders(ctx context.Context, scope *store.Sessions) ([]model.Order, error) {
	user, err := s.RequireUser(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.store.Orders().ListByUser(ctx, user.ID)
}

func (s *Service) AllOrders(ctx context.Context, actor *model.User) ([]model.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Orders().List(ctx)
}

// UpdateOrderStatus moves an order to status. Unknown statuses are rejected
// before anything is written and unknown ids report false. With strict
// transitions enabled, moves the lifecycle does not allow are rejected too.
func (s *Service) UpdateOrderStatus(ctx context.Context, actor *model.User, id string, status model.OrderStatus) (bool, error) {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanUpdateOrder)
	defer span.End()
	ctx = span.Ctx
	span.WithAttrs(attribute.String(cnst.AttrOrderID, id), attribute.String(cnst.AttrOrderStatus, string(status)))

	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", cnst.ErrInvalidStatus, status)
	}

	var (
		found bool
		err   error
	)
	if s.strict {
		err = s.store.Orders().Mutate(ctx, func(orders []model.Order) ([]model.Order, bool, error) {
			for i := range orders {
				if orders[i].ID != id {
					continue
				}
				found = true
				if !orders[i].Status.CanTransition(status) {
					return orders, false, fmt.Errorf("%w: %s to %s", cnst.ErrIllegalTransition, orders[i].Status, status)
				}
				orders[i].Status = status
				return orders, true, nil
			}
			return orders, false, nil
		})
	} else {
		found, err = s.store.Orders().UpdateStatus(ctx, id, status)
	}
	if err != nil {
		span.Fail(err)
		return found, err
	}
	if found {
		s.metrics.OrderStatusChanged(string(status))
		s.logger.Info("order status updated",
			zap.String("actor", actor.ID),
			zap.String("id", id),
			zap.String("status", string(status)))
	}
	return found, nil
}

// ExportOrders writes every order as an xlsx workbook, newest first
func (s *Service) ExportOrders(ctx context.Context, actor *model.User, w io.Writer) error {
	span := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanExportOrders)
	defer span.End()
	ctx = span.Ctx

	orders, err := s.AllOrders(ctx, actor)
	if err != nil {
		return err
	}
	if err := report.WriteOrders(w, orders, s.location); err != nil {
		span.Fail(err)
		return fmt.Errorf("failed to export orders: %w", err)
	}
	return nil
}
