package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstat/domain/analysis"
	"farmstat/domain/core"
)

func result(p float64) analysis.StatResult {
	return analysis.NewResult(analysis.LabelTwoSample, p, 1, "").WithCounts(200, 200)
}

func TestTracker_AddListGet(t *testing.T) {
	tr := NewTracker()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	first := tr.Add(analysis.DefaultRequest("overall"), result(0.3), "")
	second := tr.Add(analysis.DefaultRequest("rice only"), result(0.01), "rice subgroup")

	assert.Equal(t, "overall", first.Summary)
	assert.Equal(t, fixed, first.Timestamp)
	assert.NotEqual(t, first.ID, second.ID)

	list := tr.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "rice subgroup", list[1].Summary)

	got, ok := tr.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, 0.01, got.Result.PValue)

	_, ok = tr.Get(core.ID("missing"))
	assert.False(t, ok)
}

func TestTracker_ListIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Add(analysis.DefaultRequest("a"), result(0.5), "")
	list := tr.List()
	list[0].Summary = "changed"
	assert.Equal(t, "a", tr.List()[0].Summary)
}

func TestTracker_Stats(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, 0, tr.Stats().TotalTests)
	assert.Nil(t, tr.Stats().Best)
	assert.Equal(t, 0.0, tr.Stats().FamilywiseErrorRate)

	tr.Add(analysis.DefaultRequest("a"), result(0.4), "")
	best := tr.Add(analysis.DefaultRequest("b"), result(0.02), "")
	tr.Add(analysis.DefaultRequest("c"), result(0.04), "")
	tr.Add(analysis.DefaultRequest("d"), result(0.02), "")

	stats := tr.Stats()
	assert.Equal(t, 4, stats.TotalTests)
	assert.Equal(t, 3, stats.Significant)
	require.NotNil(t, stats.Best)
	assert.Equal(t, best.ID, *stats.Best)
	assert.InDelta(t, 1-0.95*0.95*0.95*0.95, stats.FamilywiseErrorRate, 1e-12)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	e := tr.Add(analysis.DefaultRequest("a"), result(0.4), "")
	tr.Reset()

	assert.Empty(t, tr.List())
	_, ok := tr.Get(e.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Stats().TotalTests)
}

func TestTracker_ConcurrentAdds(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := tr.Add(analysis.DefaultRequest("x"), result(0.5), "")
			_, ok := tr.Get(e.ID)
			assert.True(t, ok)
			tr.Stats()
		}()
	}
	wg.Wait()
	assert.Len(t, tr.List(), 50)
}
