package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeStatsName = "xtree/tree"
)

type treeStats struct {
	attrs         metric.MeasurementOption
	size          metric.Int64UpDownCounter
	insertCount   metric.Int64Counter
	deleteCount   metric.Int64Counter
	upsertCount   metric.Int64Counter
	rotationCount metric.Int64Counter
	hintHitCount  metric.Int64Counter
	hintMissCount metric.Int64Counter
}

func (stats *treeStats) RecordSize(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.size.Add(context.Background(), delta, stats.attrs)
}

func (stats *treeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseDeleteCount() {
	if stats == nil {
		return
	}
	stats.deleteCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseUpsertCount() {
	if stats == nil {
		return
	}
	stats.upsertCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseRotationCount() {
	if stats == nil {
		return
	}
	stats.rotationCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseHintHitCount() {
	if stats == nil {
		return
	}
	stats.hintHitCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseHintMissCount() {
	if stats == nil {
		return
	}
	stats.hintMissCount.Add(context.Background(), 1, stats.attrs)
}

func newTreeStats(name string, variant Variant) *treeStats {
	if name == "" {
		name = "default"
	}
	meterName := fmt.Sprintf("%s/%s", TreeStatsName, name)
	meter := otel.Meter(meterName)
	return &treeStats{
		attrs: metric.WithAttributeSet(attribute.NewSet(
			attribute.String("xtree.variant", variant.String()),
		)),
		size: lo.Must[metric.Int64UpDownCounter](meter.
			Int64UpDownCounter(
				"xtree.size",
				metric.WithDescription("The number of nodes in the tree."),
			),
		),
		insertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.insert.count",
				metric.WithDescription("The number of nodes attached to the tree."),
			),
		),
		deleteCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.delete.count",
				metric.WithDescription("The number of nodes unlinked from the tree."),
			),
		),
		upsertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.upsert.count",
				metric.WithDescription("The number of inserts that replaced the value of an existing key."),
			),
		),
		rotationCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.rotation.count",
				metric.WithDescription("The number of single rotations done by the balancer."),
			),
		),
		hintHitCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.hint.hit.count",
				metric.WithDescription("The number of hinted inserts resolved next to the hint."),
			),
		),
		hintMissCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xtree.hint.miss.count",
				metric.WithDescription("The number of hinted inserts that fell back to the full descent."),
			),
		),
	}
}
