package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/phlox/storefront/internal/core/port"
	"github.com/phlox/storefront/pkg/schema"
)

var _ port.SalesProcessor = (*SalesCounterProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderPlacedCodec used for serde [schema.OrderPlacedV1]
type orderPlacedCodec struct {
	serde Serde
}

func newOrderPlacedCodec(s Serde) orderPlacedCodec {
	return orderPlacedCodec{s}
}

func (c orderPlacedCodec) Encode(v any) ([]byte, error) {
	const op = "orderPlacedCodec.Encode"
	if _, ok := v.(schema.OrderPlacedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderPlacedCodec) Decode(data []byte) (any, error) {
	const op = "orderPlacedCodec.Decode"
	var s schema.OrderPlacedV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// UnitsSold is the group-table value: units sold per product name.
type UnitsSold int64

type unitsSoldCodec struct{}

func (unitsSoldCodec) Encode(v any) ([]byte, error) {
	const op = "unitsSoldCodec.Encode"
	n, ok := v.(UnitsSold)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(n), 10), nil
}

func (unitsSoldCodec) Decode(data []byte) (any, error) {
	const op = "unitsSoldCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return UnitsSold(n), nil
}

// SalesCounterProcessor aggregates placed orders into a persisted
// units-sold table keyed by product name. Each order event is fanned
// out per line through the loopback stream so the table key is the
// product, not the order.
type SalesCounterProcessor struct {
	processor processor
}

func NewSalesCounterProcessor(
	seedBrokers []string, stream, group string, orderSerde Serde,
) (*SalesCounterProcessor, error) {
	const op = "NewSalesCounterProcessor"

	p := &SalesCounterProcessor{}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(stream),
			newOrderPlacedCodec(orderSerde),
			p.processOrder,
		),
		goka.Loop(unitsSoldCodec{}, p.processSale),
		goka.Persist(unitsSoldCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.processor = processor{opPrefix: "SalesCounterProcessor", gp: gp}
	return p, nil
}

func (p *SalesCounterProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.processor.run(ctx, stopFn, wg)
}

func (p *SalesCounterProcessor) Close() {
	p.processor.close()
}

func (p *SalesCounterProcessor) processOrder(ctx goka.Context, msg any) {
	const op = "SalesCounterProcessor.processOrder"

	s, ok := msg.(schema.OrderPlacedV1)
	if !ok {
		slog.Error("unexpected message type", "op", op)
		return
	}

	for _, l := range s.Lines {
		ctx.Loopback(l.ProductName, UnitsSold(l.Quantity))
	}
}

func (p *SalesCounterProcessor) processSale(ctx goka.Context, msg any) {
	const op = "SalesCounterProcessor.processSale"

	inc, ok := msg.(UnitsSold)
	if !ok {
		slog.Error("unexpected message type", "op", op)
		return
	}

	var current UnitsSold
	if v := ctx.Value(); v != nil {
		current = v.(UnitsSold)
	}
	ctx.SetValue(current + inc)
}
