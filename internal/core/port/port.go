package port

import (
	"context"
	"sync"

	"github.com/phlox/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports, implemented by the core service.

type CatalogViewer interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	PopularProducts(context.Context) ([]domain.Product, error)
}

type CartEditor interface {
	ViewCart(ctx context.Context, sessionID string) (domain.Cart, error)
	AddCartItem(
		ctx context.Context, sessionID string,
		productID int, variant string, quantity int,
	) (domain.Cart, error)
	RemoveCartItem(
		ctx context.Context, sessionID string, index int,
	) (domain.Cart, error)
	AdjustCartQuantity(
		ctx context.Context, sessionID string, index, delta int,
	) (domain.Cart, error)
}

type CheckoutPerformer interface {
	Checkout(
		ctx context.Context, sessionID string, form domain.CustomerForm,
	) (domain.OrderMessage, error)
}

type FeedbackBoard interface {
	ListFeedback(context.Context) ([]domain.Feedback, error)
	SubmitFeedback(
		ctx context.Context, name, message string,
	) (domain.Feedback, error)
}

// Outbound ports, implemented by adapters.

type CatalogProvider interface {
	Products() []domain.Product
	Product(id int) (domain.Product, bool)
}

type CartStore interface {
	Snapshot(sessionID string) domain.Cart
	Update(sessionID string, fn func(*domain.Cart))
}

type FeedbackStorage interface {
	List(context.Context) ([]domain.Feedback, error)
	Append(context.Context, domain.Feedback) error
}

type OrderPlacedProducer interface {
	ProduceOrderPlaced(context.Context, domain.OrderPlaced) error
}

type SalesCounts interface {
	UnitsSold(productName string) (int64, error)
}

type SalesProcessor interface {
	runnerContextWg
	closer
}
