package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName scopes every instrument the backend registers
const MeterName = "github.com/solarqc/coc-backend"

// Attribute keys
const (
	AttrMaterial = attribute.Key("coc.material")
	AttrOutcome  = attribute.Key("coc.outcome")
)

// AllocationMetrics records consumption, sync and production outcomes as
// OpenTelemetry instruments.
type AllocationMetrics struct {
	consumptions     metric.Int64Counter
	consumedQuantity metric.Float64Histogram
	lotsTouched      metric.Int64Histogram
	syncRecords      metric.Int64Counter
	productions      metric.Int64Counter
}

var _ appcoc.AllocationMetrics = (*AllocationMetrics)(nil)

// NewAllocationMetrics registers the allocation instruments on meter
func NewAllocationMetrics(meter metric.Meter) (*AllocationMetrics, error) {
	m := &AllocationMetrics{}
	var err error

	if m.consumptions, err = meter.Int64Counter("coc_consumption_total",
		metric.WithDescription("Consumption requests by material and outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.consumedQuantity, err = meter.Float64Histogram("coc_consumption_quantity",
		metric.WithDescription("Quantity drawn per consumption request"),
		metric.WithUnit("{unit}"),
		metric.WithExplicitBucketBoundaries(QuantityBuckets...),
	); err != nil {
		return nil, err
	}
	if m.lotsTouched, err = meter.Int64Histogram("coc_consumption_lots",
		metric.WithDescription("Lots drawn from per consumption request"),
		metric.WithUnit("{lot}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20, 50),
	); err != nil {
		return nil, err
	}
	if m.syncRecords, err = meter.Int64Counter("coc_sync_records_total",
		metric.WithDescription("External feed records processed by outcome"),
		metric.WithUnit("{record}"),
	); err != nil {
		return nil, err
	}
	if m.productions, err = meter.Int64Counter("coc_production_total",
		metric.WithDescription("Production entries by outcome"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordConsumption counts one consumption request. Quantity and lot
// distributions only track requests that actually drew stock.
func (m *AllocationMetrics) RecordConsumption(ctx context.Context, material, outcome string, quantity decimal.Decimal, lotsTouched int) {
	m.consumptions.Add(ctx, 1, metric.WithAttributes(AttrMaterial.String(material), AttrOutcome.String(outcome)))
	if lotsTouched == 0 {
		return
	}
	attrs := metric.WithAttributes(AttrMaterial.String(material))
	m.consumedQuantity.Record(ctx, quantity.InexactFloat64(), attrs)
	m.lotsTouched.Record(ctx, int64(lotsTouched), attrs)
}

// RecordSyncRecords adds count records with the given outcome
func (m *AllocationMetrics) RecordSyncRecords(ctx context.Context, outcome string, count int) {
	if count <= 0 {
		return
	}
	m.syncRecords.Add(ctx, int64(count), metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordProduction counts one production entry
func (m *AllocationMetrics) RecordProduction(ctx context.Context, outcome string) {
	m.productions.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}
