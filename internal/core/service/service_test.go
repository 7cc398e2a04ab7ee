package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phlox/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products []domain.Product
}

func (c fakeCatalog) Products() []domain.Product {
	ps := make([]domain.Product, len(c.products))
	copy(ps, c.products)
	return ps
}

func (c fakeCatalog) Product(id int) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

type fakeCartStore struct {
	carts map[string]*domain.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*domain.Cart)}
}

func (s *fakeCartStore) Snapshot(sessionID string) domain.Cart {
	if c, ok := s.carts[sessionID]; ok {
		return c.Clone()
	}
	return domain.Cart{}
}

func (s *fakeCartStore) Update(sessionID string, fn func(*domain.Cart)) {
	c, ok := s.carts[sessionID]
	if !ok {
		c = new(domain.Cart)
		s.carts[sessionID] = c
	}
	fn(c)
}

type MockFeedbackStorage struct {
	mock.Mock
}

func (m *MockFeedbackStorage) List(
	ctx context.Context,
) ([]domain.Feedback, error) {
	args := m.Called(ctx)
	fs, _ := args.Get(0).([]domain.Feedback)
	return fs, args.Error(1)
}

func (m *MockFeedbackStorage) Append(
	ctx context.Context, f domain.Feedback,
) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

type MockOrderProducer struct {
	mock.Mock
}

func (m *MockOrderProducer) ProduceOrderPlaced(
	ctx context.Context, evt domain.OrderPlaced,
) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type fakeSalesCounts struct {
	counts map[string]int64
	errs   map[string]error
}

func (c fakeSalesCounts) UnitsSold(productName string) (int64, error) {
	if err, ok := c.errs[productName]; ok {
		return 0, err
	}
	return c.counts[productName], nil
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Name: "KB-1", UnitPrice: 7000,
			Variants: []string{"Coklat", "Hitam", "Tan"},
		},
		{
			ID: 2, Name: "KB-7", UnitPrice: 5000,
			Variants: []string{"Biru", "Pink"},
		},
		{
			ID: 11, Name: "Type L", UnitPrice: 15000,
			Variants: []string{"Original"},
		},
	}
}

func newTestService(
	carts *fakeCartStore,
	feedback *MockFeedbackStorage,
	producer *MockOrderProducer,
	counts fakeSalesCounts,
) Service {
	catalog := fakeCatalog{products: testProducts()}

	s := New(catalog, carts, nil, nil, nil, nil)
	if feedback != nil {
		s.feedback = feedback
	}
	if producer != nil {
		s.orderProducer = producer
	}
	if counts.counts != nil || counts.errs != nil {
		s.salesCounts = counts
	}
	return s
}

func canceledContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	return ctx
}

func TestListProducts(t *testing.T) {

	t.Run("ReturnsCatalog", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		ps, err := s.ListProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, ps, 3)
		assert.Equal(t, "KB-1", ps[0].Name)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.ListProducts(canceledContext(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGetProduct(t *testing.T) {

	t.Run("Found", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		p, err := s.GetProduct(t.Context(), 11)
		require.NoError(t, err)
		assert.Equal(t, "Type L", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.GetProduct(t.Context(), 404)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestPopularProducts(t *testing.T) {

	t.Run("OrdersByUnitsSoldDesc", func(t *testing.T) {
		counts := fakeSalesCounts{counts: map[string]int64{
			"KB-1":   2,
			"KB-7":   10,
			"Type L": 5,
		}}
		s := newTestService(newFakeCartStore(), nil, nil, counts)

		ps, err := s.PopularProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, ps, 3)
		assert.Equal(t, "KB-7", ps[0].Name)
		assert.Equal(t, "Type L", ps[1].Name)
		assert.Equal(t, "KB-1", ps[2].Name)
	})

	t.Run("TiesKeepCatalogOrder", func(t *testing.T) {
		counts := fakeSalesCounts{counts: map[string]int64{
			"Type L": 7,
		}}
		s := newTestService(newFakeCartStore(), nil, nil, counts)

		ps, err := s.PopularProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "Type L", ps[0].Name)
		assert.Equal(t, "KB-1", ps[1].Name)
		assert.Equal(t, "KB-7", ps[2].Name)
	})

	t.Run("WithoutAnalyticsKeepsCatalogOrder", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		ps, err := s.PopularProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "KB-1", ps[0].Name)
		assert.Equal(t, "KB-7", ps[1].Name)
	})

	t.Run("ViewErrorCountsAsZero", func(t *testing.T) {
		counts := fakeSalesCounts{
			counts: map[string]int64{"KB-7": 3},
			errs:   map[string]error{"KB-1": errors.New("partition down")},
		}
		s := newTestService(newFakeCartStore(), nil, nil, counts)

		ps, err := s.PopularProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "KB-7", ps[0].Name)
	})
}

func TestCartEditing(t *testing.T) {
	const sessionID = "session-1"

	t.Run("AddItem", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})

		cart, err := s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 2)
		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(14000), cart.Subtotal())

		cart, err = s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 1)
		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, 3, cart.Lines[0].Quantity)
	})

	t.Run("AddItemUnknownProduct", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), sessionID, 404, "Coklat", 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("AddItemInvalidVariant", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), sessionID, 1, "Ungu", 1)
		assert.ErrorIs(t, err, ErrInvalidVariant)
	})

	t.Run("AddItemInvalidQuantity", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("RemoveItem", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 1)
		require.NoError(t, err)
		_, err = s.AddCartItem(t.Context(), sessionID, 2, "Biru", 1)
		require.NoError(t, err)

		cart, err := s.RemoveCartItem(t.Context(), sessionID, 0)
		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, "KB-7", cart.Lines[0].Name)
	})

	t.Run("AdjustQuantityToZeroRemovesLine", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 1)
		require.NoError(t, err)

		cart, err := s.AdjustCartQuantity(t.Context(), sessionID, 0, -1)
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Len())
	})

	t.Run("ViewCartUnknownSessionIsEmpty", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		cart, err := s.ViewCart(t.Context(), "never-seen")
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Len())
	})

	t.Run("SessionsAreIsolated", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})

		_, err := s.AddCartItem(t.Context(), "session-a", 1, "Coklat", 1)
		require.NoError(t, err)

		cart, err := s.ViewCart(t.Context(), "session-b")
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Len())
	})
}

func TestCheckout(t *testing.T) {
	const sessionID = "session-1"

	completeForm := domain.CustomerForm{
		Name:    "Rina",
		Phone:   "081234567890",
		Address: "Jl. Melati No. 3, Bandung",
	}

	fillCart := func(t *testing.T, s Service) {
		t.Helper()
		_, err := s.AddCartItem(t.Context(), sessionID, 1, "Coklat", 2)
		require.NoError(t, err)
		_, err = s.AddCartItem(t.Context(), sessionID, 11, "Original", 1)
		require.NoError(t, err)
	}

	t.Run("IncompleteForm", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})
		fillCart(t, s)

		form := completeForm
		form.Phone = ""

		_, err := s.Checkout(t.Context(), sessionID, form)
		assert.ErrorIs(t, err, ErrFormIncomplete)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), nil, nil, fakeSalesCounts{})

		_, err := s.Checkout(t.Context(), sessionID, completeForm)
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("ComposesMessage", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})
		fillCart(t, s)

		msg, err := s.Checkout(t.Context(), sessionID, completeForm)
		require.NoError(t, err)
		assert.NotEmpty(t, msg.OrderID)
		assert.Contains(t, msg.Text, "Pesanan Baru dari Rina")
		assert.Contains(t, msg.Text, "*Total: Rp 29.000*")
	})

	t.Run("LeavesCartIntact", func(t *testing.T) {
		carts := newFakeCartStore()
		s := newTestService(carts, nil, nil, fakeSalesCounts{})
		fillCart(t, s)

		_, err := s.Checkout(t.Context(), sessionID, completeForm)
		require.NoError(t, err)

		cart, err := s.ViewCart(t.Context(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, 2, cart.Len())
	})

	t.Run("EmitsOrderPlaced", func(t *testing.T) {
		producer := new(MockOrderProducer)
		producer.On(
			"ProduceOrderPlaced", mock.Anything,
			mock.MatchedBy(func(evt domain.OrderPlaced) bool {
				return len(evt.Lines) == 2 &&
					evt.Subtotal == 29000 &&
					evt.Lines[0].ProductName == "KB-1" &&
					evt.Lines[0].Quantity == 2 &&
					evt.Lines[1].Total == 15000
			}),
		).Return(nil)

		s := newTestService(newFakeCartStore(), nil, producer, fakeSalesCounts{})
		fillCart(t, s)

		_, err := s.Checkout(t.Context(), sessionID, completeForm)
		require.NoError(t, err)
		producer.AssertExpectations(t)
	})

	t.Run("ProducerFailureDoesNotFailCheckout", func(t *testing.T) {
		producer := new(MockOrderProducer)
		producer.On(
			"ProduceOrderPlaced", mock.Anything, mock.Anything,
		).Return(errors.New("broker unreachable"))

		s := newTestService(newFakeCartStore(), nil, producer, fakeSalesCounts{})
		fillCart(t, s)

		msg, err := s.Checkout(t.Context(), sessionID, completeForm)
		require.NoError(t, err)
		assert.NotEmpty(t, msg.OrderID)
	})
}

func TestFeedback(t *testing.T) {
	at := time.Date(2024, time.March, 10, 15, 4, 5, 0, time.FixedZone("WIB", 7*3600))

	t.Run("List", func(t *testing.T) {
		storage := new(MockFeedbackStorage)
		want := []domain.Feedback{
			{ID: 3, Name: "Budi Santoso", Message: "Mantap!", Date: "12 Mar 2024"},
			{ID: 2, Name: "Siska L.", Message: "Lucu banget", Date: "11 Mar 2024"},
		}
		storage.On("List", mock.Anything).Return(want, nil)

		s := newTestService(newFakeCartStore(), storage, nil, fakeSalesCounts{})

		fs, err := s.ListFeedback(t.Context())
		require.NoError(t, err)
		assert.Equal(t, want, fs)
	})

	t.Run("ListStorageError", func(t *testing.T) {
		storage := new(MockFeedbackStorage)
		storage.On("List", mock.Anything).Return(nil, errors.New("db locked"))

		s := newTestService(newFakeCartStore(), storage, nil, fakeSalesCounts{})

		_, err := s.ListFeedback(t.Context())
		assert.Error(t, err)
	})

	t.Run("Submit", func(t *testing.T) {
		storage := new(MockFeedbackStorage)
		want := domain.NewFeedback("Andi P.", "Websitenya keren banget!", at)
		storage.On("Append", mock.Anything, want).Return(nil)

		s := newTestService(newFakeCartStore(), storage, nil, fakeSalesCounts{})
		s.now = func() time.Time { return at }

		f, err := s.SubmitFeedback(t.Context(), "Andi P.", "Websitenya keren banget!")
		require.NoError(t, err)
		assert.Equal(t, at.UnixMilli(), f.ID)
		assert.Equal(t, "10 Mar 2024", f.Date)
		storage.AssertExpectations(t)
	})

	t.Run("SubmitEmptyFields", func(t *testing.T) {
		s := newTestService(newFakeCartStore(), new(MockFeedbackStorage), nil, fakeSalesCounts{})

		_, err := s.SubmitFeedback(t.Context(), "", "hello")
		assert.ErrorIs(t, err, ErrEmptyFeedback)

		_, err = s.SubmitFeedback(t.Context(), "Andi", "")
		assert.ErrorIs(t, err, ErrEmptyFeedback)
	})

	t.Run("SubmitStorageError", func(t *testing.T) {
		storage := new(MockFeedbackStorage)
		storage.On("Append", mock.Anything, mock.Anything).
			Return(errors.New("disk full"))

		s := newTestService(newFakeCartStore(), storage, nil, fakeSalesCounts{})

		_, err := s.SubmitFeedback(t.Context(), "Andi", "hello")
		assert.Error(t, err)
	})
}
