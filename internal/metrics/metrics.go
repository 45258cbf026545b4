// Package metrics declares the opencensus measures and views exported by the
// service.
package metrics

import (
	"context"
	"fmt"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	SamplesCollected = stats.Int64("intent/samples_collected", "Number of training samples accepted", stats.UnitDimensionless)
	Predictions      = stats.Int64("intent/predictions", "Number of predictions served", stats.UnitDimensionless)
	EngineRebuilds   = stats.Int64("intent/engine_rebuilds", "Number of engine rebuilds from storage", stats.UnitDimensionless)
	RebuildLatencyMs = stats.Float64("intent/engine_rebuild_latency", "Engine rebuild latency", stats.UnitMilliseconds)
)

var (
	KeyEntity    = tag.MustNewKey("entity")
	KeyAlgorithm = tag.MustNewKey("algorithm")
)

var views = []*view.View{
	{
		Name:        "intent/samples_collected",
		Description: "Total samples accepted per entity",
		Measure:     SamplesCollected,
		TagKeys:     []tag.Key{KeyEntity},
		Aggregation: view.Count(),
	},
	{
		Name:        "intent/predictions",
		Description: "Total predictions served per entity and algorithm",
		Measure:     Predictions,
		TagKeys:     []tag.Key{KeyEntity, KeyAlgorithm},
		Aggregation: view.Count(),
	},
	{
		Name:        "intent/engine_rebuilds",
		Description: "Total engine rebuilds per entity",
		Measure:     EngineRebuilds,
		TagKeys:     []tag.Key{KeyEntity},
		Aggregation: view.Count(),
	},
	{
		Name:        "intent/engine_rebuild_latency",
		Description: "Engine rebuild latency distribution",
		Measure:     RebuildLatencyMs,
		TagKeys:     []tag.Key{KeyEntity},
		Aggregation: view.Distribution(1, 2, 5, 10, 25, 50, 100, 250, 500, 1000),
	},
}

// RegisterViews registers all service views with the opencensus runtime.
func RegisterViews() error {
	if err := view.Register(views...); err != nil {
		return fmt.Errorf("register views: %w", err)
	}
	return nil
}

// NewExporter builds the prometheus exporter that serves the /metrics page.
func NewExporter(namespace string) (*prometheus.Exporter, error) {
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	view.RegisterExporter(exporter)

	return exporter, nil
}

// RecordCollected increments the collected-samples counter for an entity.
func RecordCollected(ctx context.Context, entityID string, n int64) {
	c, err := tag.New(ctx, tag.Upsert(KeyEntity, entityID))
	if err != nil {
		return
	}
	stats.Record(c, SamplesCollected.M(n))
}

// RecordPrediction increments the predictions counter.
func RecordPrediction(ctx context.Context, entityID, algorithm string) {
	c, err := tag.New(ctx, tag.Upsert(KeyEntity, entityID), tag.Upsert(KeyAlgorithm, algorithm))
	if err != nil {
		return
	}
	stats.Record(c, Predictions.M(1))
}

// RecordRebuild records a single engine rebuild and its latency.
func RecordRebuild(ctx context.Context, entityID string, latencyMs float64) {
	c, err := tag.New(ctx, tag.Upsert(KeyEntity, entityID))
	if err != nil {
		return
	}
	stats.Record(c, EngineRebuilds.M(1), RebuildLatencyMs.M(latencyMs))
}
