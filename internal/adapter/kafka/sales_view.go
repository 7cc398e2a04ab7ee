package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/phlox/storefront/internal/core/port"
)

var _ port.SalesCounts = (*SalesCountsView)(nil)

// A SalesCountsView reads the units-sold group table maintained by
// [SalesCounterProcessor].
type SalesCountsView struct {
	gv *goka.View
}

func NewSalesCountsView(
	seedBrokers []string, group string,
) (SalesCountsView, error) {
	const op = "NewSalesCountsView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		unitsSoldCodec{},
	)
	if err != nil {
		return SalesCountsView{}, opErr(err, op)
	}

	return SalesCountsView{gv}, nil
}

// Run blocks until ctx is done.
func (v SalesCountsView) Run(ctx context.Context) {
	const op = "SalesCountsView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

func (v SalesCountsView) UnitsSold(productName string) (int64, error) {
	const op = "SalesCountsView.UnitsSold"

	val, err := v.gv.Get(productName)
	if err != nil {
		return 0, opErr(err, op)
	}

	if val == nil {
		return 0, nil
	}

	n, ok := val.(UnitsSold)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, val), op,
		)
	}
	return int64(n), nil
}
