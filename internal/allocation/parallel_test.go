package allocation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hspanel/internal/shared/testutil"
	"hspanel/pkg/contracts/domain"
)

func multiYearRecords() []domain.TradeRecord {
	return []domain.TradeRecord{
		yearRecord("0101", 1996, domain.Float(200), domain.Float(3.0)),
		yearRecord("0101", 1995, domain.Float(100), domain.Float(1.5)),
		yearRecord("5201", 1995, domain.Float(40), domain.Float(0.5)),
		yearRecord("7302", 1996, domain.Float(50), domain.Float(1.0)),
		yearRecord("5201", 1997, domain.Float(60), domain.Float(0.8)),
	}
}

func TestAllocator_AllocateAll(t *testing.T) {
	ctx := context.Background()
	template := testTemplate(t)

	tests := []struct {
		name    string
		workers int
	}{
		{name: "single worker", workers: 1},
		{name: "parallel workers", workers: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := NewAllocator(slog.Default(), AllocatorConfig{Workers: tt.workers})

			results, err := allocator.AllocateAll(ctx, multiYearRecords(), template, nil)
			require.NoError(t, err)
			require.Len(t, results, 3)

			assert.Equal(t, 1995, results[0].Year)
			assert.Equal(t, 1996, results[1].Year)
			assert.Equal(t, 1997, results[2].Year)

			// 1995 has two mapped products across three industries
			assert.Len(t, results[0].Aggregates, 3)
			// 1997 has only 5201
			require.Len(t, results[2].Aggregates, 1)
			assert.InDelta(t, 60.0, results[2].Aggregates[0].TotalAllocatedExport, 1e-9)
		})
	}
}

func TestAllocator_AllocateAll_MatchesSequentialYears(t *testing.T) {
	ctx := context.Background()
	template := testTemplate(t)
	records := multiYearRecords()

	parallel := NewAllocator(slog.Default(), AllocatorConfig{Workers: 4})
	results, err := parallel.AllocateAll(ctx, records, template, nil)
	require.NoError(t, err)

	for _, result := range results {
		single, err := parallel.AllocateYear(ctx, result.Year, records, template, nil)
		require.NoError(t, err)
		assert.Equal(t, single, result, "fan-out must not change year %d", result.Year)
	}
}

func TestAllocator_AllocateAll_LogsProgress(t *testing.T) {
	ctx := context.Background()
	logger, handler := testutil.NewTestLogger(t)

	allocator := NewAllocator(logger, AllocatorConfig{Workers: 2})
	_, err := allocator.AllocateAll(ctx, multiYearRecords(), testTemplate(t), nil)
	require.NoError(t, err)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "allocation completed")
	testutil.AssertLogAttr(t, handler, "years", int64(3))
	testutil.AssertLogAttr(t, handler, "workers", int64(2))
	testutil.AssertNoErrors(t, handler)
}

func TestAllocator_AllocateAll_EmptyRecords(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())

	results, err := allocator.AllocateAll(ctx, nil, testTemplate(t), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAllocator_AllocateAll_CancelledContext(t *testing.T) {
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := allocator.AllocateAll(ctx, multiYearRecords(), testTemplate(t), nil)
	assert.Error(t, err)
}

func TestAllocator_AllocateFocalYear(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())

	results, err := allocator.AllocateFocalYear(ctx, 1995, multiYearRecords(), testTemplate(t), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1995, results[0].Year)
	assert.Len(t, results[0].Aggregates, 3)
}

func TestCollectAggregates(t *testing.T) {
	results := []YearAllocation{
		{
			Year: 1996,
			Aggregates: []domain.IndustryAggregate{
				{Year: 1996, Industry4: "3211", TotalAllocatedExport: 10},
				{Year: 1996, Industry4: "3111", TotalAllocatedExport: 20},
			},
		},
		{
			Year: 1995,
			Aggregates: []domain.IndustryAggregate{
				{Year: 1995, Industry4: "3111", TotalAllocatedExport: 5},
			},
		},
	}

	aggregates := CollectAggregates(results)
	require.Len(t, aggregates, 3)
	assert.Equal(t, 1995, aggregates[0].Year)
	assert.Equal(t, "3111", aggregates[1].Industry4)
	assert.Equal(t, "3211", aggregates[2].Industry4)
}

func TestCollectUnmappedAndUntitled(t *testing.T) {
	results := []YearAllocation{
		{
			Year:     1996,
			Unmapped: []domain.UnmappedProduct{{Year: 1996, Product4: "9999"}},
			Untitled: []domain.UntitledIndustry{{Year: 1996, Industry4: "3999"}},
		},
		{
			Year: 1995,
			Unmapped: []domain.UnmappedProduct{
				{Year: 1995, Product4: "8888"},
				{Year: 1995, Product4: "0042"},
			},
		},
	}

	unmapped := CollectUnmapped(results)
	require.Len(t, unmapped, 3)
	assert.Equal(t, "0042", unmapped[0].Product4)
	assert.Equal(t, "8888", unmapped[1].Product4)
	assert.Equal(t, 1996, unmapped[2].Year)

	untitled := CollectUntitled(results)
	require.Len(t, untitled, 1)
	assert.Equal(t, "3999", untitled[0].Industry4)
}
