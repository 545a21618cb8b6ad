package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("records_seen")
	c.Add(3)
	c.Add(2)
	assert.Equal(t, int64(5), c.Value())

	// Same name returns the same counter.
	assert.Equal(t, int64(5), r.Counter("records_seen").Value())
	assert.Equal(t, map[string]int64{"records_seen": 5}, r.Counts())
}

func TestCounterConcurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter("n").Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), r.Counter("n").Value())
}

func TestTimerObserve(t *testing.T) {
	r := NewRegistry()
	tm := r.Timer("graph_build")
	tm.Observe(10 * time.Millisecond)
	tm.Observe(30 * time.Millisecond)

	timings := r.Timings()
	require.Len(t, timings, 1)
	assert.Equal(t, "graph_build", timings[0].Stage)
	assert.Equal(t, int64(2), timings[0].Count)
	assert.InDelta(t, 40.0, timings[0].TotalMs, 1e-9)
	assert.InDelta(t, 30.0, timings[0].MaxMs, 1e-9)
}

func TestTimeStopFunc(t *testing.T) {
	r := NewRegistry()
	stop := r.Time("centrality")
	stop()

	timings := r.Timings()
	require.Len(t, timings, 1)
	assert.Equal(t, int64(1), timings[0].Count)
}

func TestTimingsSortedByStage(t *testing.T) {
	r := NewRegistry()
	r.Time("zeta")()
	r.Time("alpha")()
	r.Time("mid")()

	timings := r.Timings()
	require.Len(t, timings, 3)
	assert.Equal(t, "alpha", timings[0].Stage)
	assert.Equal(t, "mid", timings[1].Stage)
	assert.Equal(t, "zeta", timings[2].Stage)
}
