package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSearcher records the completion time of each search call.
type recordingSearcher struct {
	mu       sync.Mutex
	keywords []string
	times    []time.Time
	fail     map[string]bool
}

func (r *recordingSearcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	r.mu.Lock()
	r.keywords = append(r.keywords, req.Keyword)
	r.times = append(r.times, time.Now())
	fail := r.fail[req.Keyword]
	r.mu.Unlock()
	if fail {
		return nil, errors.New("seed failure")
	}
	return &SearchResponse{Success: true, Deals: []Deal{{ASIN: "seed-" + req.Keyword, Discount: 40}}}, nil
}

func TestBootstrapOrderingAndDelay(t *testing.T) {
	r := &recordingSearcher{}
	cfg := DefaultConfig()
	cfg.Seeds = []string{"k1", "k2", "k3"}
	cfg.SeedDelay = 60 * time.Millisecond

	c := New(r, cfg, testLogger())
	defer c.Dispose()

	c.Bootstrap(context.Background())

	require.Equal(t, []string{"k1", "k2", "k3"}, r.keywords, "seeds must run strictly in order")
	for i := 1; i < len(r.times); i++ {
		gap := r.times[i].Sub(r.times[i-1])
		assert.GreaterOrEqual(t, gap, cfg.SeedDelay,
			"delay between seed completions must be bounded below by the configured minimum")
	}

	st := c.Status()
	assert.True(t, st.BootstrapDone)
	assert.Equal(t, 3, st.BootstrapStep)
	assert.Equal(t, 3, st.TotalDeals)
}

func TestBootstrapContinuesPastFailures(t *testing.T) {
	r := &recordingSearcher{fail: map[string]bool{"k2": true}}
	cfg := DefaultConfig()
	cfg.Seeds = []string{"k1", "k2", "k3"}
	cfg.SeedDelay = 10 * time.Millisecond

	c := New(r, cfg, testLogger())
	defer c.Dispose()

	c.Bootstrap(context.Background())

	assert.Equal(t, []string{"k1", "k2", "k3"}, r.keywords,
		"a failing seed must not abort the remaining seeds")
	assert.Equal(t, 2, c.Status().TotalDeals)
	assert.True(t, c.Status().BootstrapDone)
}

func TestBootstrapRunsOnce(t *testing.T) {
	r := &recordingSearcher{}
	cfg := DefaultConfig()
	cfg.Seeds = []string{"k1"}
	cfg.SeedDelay = time.Millisecond

	c := New(r, cfg, testLogger())
	defer c.Dispose()

	c.Bootstrap(context.Background())
	c.Bootstrap(context.Background())

	assert.Equal(t, []string{"k1"}, r.keywords, "bootstrap must run exactly once per controller lifetime")
}

func TestBootstrapCancellation(t *testing.T) {
	r := &recordingSearcher{}
	cfg := DefaultConfig()
	cfg.Seeds = []string{"k1", "k2", "k3"}
	cfg.SeedDelay = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	c := New(r, cfg, testLogger())
	defer c.Dispose()

	go func() {
		time.Sleep(50 * time.Millisecond) // inside the first inter-step delay
		cancel()
	}()
	c.Bootstrap(ctx)

	assert.Less(t, len(r.keywords), 3, "cancellation between steps must stop the sequence")
	assert.False(t, c.Status().BootstrapDone)
}
