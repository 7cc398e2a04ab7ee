package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phlox/storefront/internal/core/domain"
	"github.com/phlox/storefront/internal/core/port"
)

var _ port.CatalogViewer = (*Service)(nil)
var _ port.CartEditor = (*Service)(nil)
var _ port.CheckoutPerformer = (*Service)(nil)
var _ port.FeedbackBoard = (*Service)(nil)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("variant not available for product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrFormIncomplete  = errors.New("name, phone and address are required")
	ErrEmptyFeedback   = errors.New("name and message are required")
)

type Service struct {
	catalog       port.CatalogProvider
	carts         port.CartStore
	feedback      port.FeedbackStorage
	orderProducer port.OrderPlacedProducer
	salesCounts   port.SalesCounts
	salesProc     port.SalesProcessor
	now           func() time.Time
}

func New(
	catalog port.CatalogProvider,
	carts port.CartStore,
	feedback port.FeedbackStorage,
	orderProducer port.OrderPlacedProducer,
	salesCounts port.SalesCounts,
	salesProc port.SalesProcessor,
) Service {
	return Service{
		catalog:       catalog,
		carts:         carts,
		feedback:      feedback,
		orderProducer: orderProducer,
		salesCounts:   salesCounts,
		salesProc:     salesProc,
		now:           time.Now,
	}
}

// Run runs the optional analytics processor in a separate goroutine.
//
// Blocks current goroutine while the processor is preparing to ready
// state. No-op when analytics is not wired.
func (s Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	if s.salesProc == nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go s.salesProc.Run(ctx, stopFn, &wg)
	wg.Wait()
}

func (s Service) Close() {
	if s.salesProc != nil {
		s.salesProc.Close()
	}
}

func (s Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.catalog.Products(), nil
}

func (s Service) GetProduct(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "Service.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog.Product(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	return p, nil
}

// PopularProducts returns the catalog reordered by units sold,
// descending. Products with equal counts keep catalog order.
// Without analytics wired it degrades to plain catalog order.
func (s Service) PopularProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "Service.PopularProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := s.catalog.Products()
	if s.salesCounts == nil {
		return ps, nil
	}

	counts := make(map[int]int64, len(ps))
	for _, p := range ps {
		n, err := s.salesCounts.UnitsSold(p.Name)
		if err != nil {
			log.Warn("failed to read units sold", "product", p.Name, "err", err)
			continue
		}
		counts[p.ID] = n
	}

	sort.SliceStable(ps, func(i, j int) bool {
		return counts[ps[i].ID] > counts[ps[j].ID]
	})
	return ps, nil
}

func (s Service) ViewCart(
	ctx context.Context, sessionID string,
) (domain.Cart, error) {
	const op = "Service.ViewCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.carts.Snapshot(sessionID), nil
}

func (s Service) AddCartItem(
	ctx context.Context, sessionID string,
	productID int, variant string, quantity int,
) (domain.Cart, error) {
	const op = "Service.AddCartItem"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if quantity < 1 {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	p, ok := s.catalog.Product(productID)
	if !ok {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}

	if !p.HasVariant(variant) {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidVariant)
	}

	var snapshot domain.Cart
	s.carts.Update(sessionID, func(c *domain.Cart) {
		c.AddItem(p, variant, quantity)
		snapshot = c.Clone()
	})
	return snapshot, nil
}

func (s Service) RemoveCartItem(
	ctx context.Context, sessionID string, index int,
) (domain.Cart, error) {
	const op = "Service.RemoveCartItem"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	var snapshot domain.Cart
	s.carts.Update(sessionID, func(c *domain.Cart) {
		c.RemoveItem(index)
		snapshot = c.Clone()
	})
	return snapshot, nil
}

func (s Service) AdjustCartQuantity(
	ctx context.Context, sessionID string, index, delta int,
) (domain.Cart, error) {
	const op = "Service.AdjustCartQuantity"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	var snapshot domain.Cart
	s.carts.Update(sessionID, func(c *domain.Cart) {
		c.AdjustQuantity(index, delta)
		snapshot = c.Clone()
	})
	return snapshot, nil
}

// Checkout renders the order message for the session's cart.
//
// The cart is left intact: the handoff is fire-and-forget navigation,
// there is no acknowledgement to clear the cart on. The order-placed
// event is emitted on a best-effort basis and never fails the
// checkout.
func (s Service) Checkout(
	ctx context.Context, sessionID string, form domain.CustomerForm,
) (domain.OrderMessage, error) {
	const op = "Service.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.OrderMessage{}, fmt.Errorf("%s: %w", op, err)
	}

	if !form.Complete() {
		return domain.OrderMessage{}, fmt.Errorf("%s: %w", op, ErrFormIncomplete)
	}

	cart := s.carts.Snapshot(sessionID)
	if cart.Len() == 0 {
		return domain.OrderMessage{}, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	msg := domain.OrderMessage{
		OrderID: uuid.NewString(),
		Text:    domain.FormatOrder(cart, form),
	}

	if s.orderProducer != nil {
		evt := s.toOrderPlaced(msg.OrderID, cart)
		if err := s.orderProducer.ProduceOrderPlaced(ctx, evt); err != nil {
			log.Warn("failed to produce order event", "err", err)
		}
	}

	log.Info("order composed",
		"orderID", msg.OrderID,
		"nLines", cart.Len(),
		"subtotal", cart.Subtotal(),
	)
	return msg, nil
}

func (Service) toOrderPlaced(
	orderID string, cart domain.Cart,
) domain.OrderPlaced {
	evt := domain.OrderPlaced{
		OrderID:  orderID,
		Subtotal: cart.Subtotal(),
	}
	for _, l := range cart.Lines {
		evt.Lines = append(evt.Lines, domain.OrderPlacedLine{
			ProductID:   l.ID,
			ProductName: l.Name,
			Variant:     l.SelectedVariant,
			Quantity:    l.Quantity,
			Total:       l.Total(),
		})
	}
	return evt
}

func (s Service) ListFeedback(
	ctx context.Context,
) ([]domain.Feedback, error) {
	const op = "Service.ListFeedback"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fs, err := s.feedback.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fs, nil
}

func (s Service) SubmitFeedback(
	ctx context.Context, name, message string,
) (domain.Feedback, error) {
	const op = "Service.SubmitFeedback"

	if err := ctx.Err(); err != nil {
		return domain.Feedback{}, fmt.Errorf("%s: %w", op, err)
	}

	if name == "" || message == "" {
		return domain.Feedback{}, fmt.Errorf("%s: %w", op, ErrEmptyFeedback)
	}

	f := domain.NewFeedback(name, message, s.now())
	if err := s.feedback.Append(ctx, f); err != nil {
		return domain.Feedback{}, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}
