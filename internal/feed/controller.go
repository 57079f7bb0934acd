// Package feed implements the incremental result aggregation controller:
// it folds a sequence of paginated, possibly-overlapping search responses
// into a single deduplicated collection, coordinates the pagination cursor
// as a single-flight state machine, tracks ephemeral "newly added" state,
// and derives the filtered projection consumed by the scroll trigger.
package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dealhawk/deal-service/internal/pkg/localid"
)

var (
	// ErrBlankKeyword is returned when a search keyword trims to empty.
	ErrBlankKeyword = errors.New("keyword must not be blank")

	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("feed controller is disposed")
)

// SearchRequest is the wire contract sent to the search collaborator.
type SearchRequest struct {
	Keyword     string `json:"keyword" validate:"required"`
	MinDiscount int    `json:"minDiscount" validate:"gte=0,lte=100"`
	Page        int    `json:"page" validate:"gte=1"`
	PageSize    int    `json:"pageSize" validate:"gte=1"`
	DebugFlag   bool   `json:"debugFlag"`
}

// SearchResponse is the wire contract received from the search collaborator.
type SearchResponse struct {
	Success bool   `json:"success"`
	Deals   []Deal `json:"deals"`
	Error   string `json:"error,omitempty"`
}

// Searcher is the search endpoint collaborator.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// Config holds the controller's tunables.
type Config struct {
	PageSize       int
	IdentityKey    IdentityKey
	MinDiscount    int // forwarded to the search endpoint
	DebugFlag      bool
	HighlightDwell time.Duration
	Seeds          []string
	SeedDelay      time.Duration
}

// DefaultConfig returns the controller defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:       30,
		IdentityKey:    KeyASIN,
		HighlightDwell: 10 * time.Second,
		SeedDelay:      time.Second,
	}
}

// session is the pagination cursor for the current keyword.
type session struct {
	keyword   string
	page      int
	exhausted bool
	inFlight  bool
}

// Controller owns the raw collection and the pagination session. All shared
// state lives here as instance fields with an explicit New/Dispose lifecycle,
// nothing at package level.
type Controller struct {
	mu sync.Mutex

	cfg      Config
	searcher Searcher
	ids      *localid.Generator
	logger   zerolog.Logger

	deals      []*Deal
	sess       session
	gen        uint64 // bumped by fresh searches; stale fetch completions are discarded
	key        IdentityKey
	highlights *HighlightTracker
	lastErr    string
	disposed   bool

	bootOnce  sync.Once
	bootState bootstrapState
}

// Status is a point-in-time snapshot of the controller for callers.
type Status struct {
	Keyword        string `json:"keyword"`
	Page           int    `json:"page"`
	Exhausted      bool   `json:"exhausted"`
	InFlight       bool   `json:"inFlight"`
	TotalDeals     int    `json:"totalDeals"`
	IdentityKey    string `json:"identityKey"`
	LastError      string `json:"lastError,omitempty"`
	BootstrapStep  int    `json:"bootstrapStep"`
	BootstrapTotal int    `json:"bootstrapTotal"`
	BootstrapDone  bool   `json:"bootstrapDone"`
}

// New creates a Controller. The searcher is the only collaborator the core
// talks to; metadata and rewrite clients live outside the aggregation path.
func New(searcher Searcher, cfg Config, logger zerolog.Logger) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if !cfg.IdentityKey.Valid() {
		cfg.IdentityKey = KeyASIN
	}
	if cfg.HighlightDwell <= 0 {
		cfg.HighlightDwell = DefaultConfig().HighlightDwell
	}
	if cfg.SeedDelay <= 0 {
		cfg.SeedDelay = DefaultConfig().SeedDelay
	}
	return &Controller{
		cfg:        cfg,
		searcher:   searcher,
		ids:        localid.NewGenerator("d"),
		logger:     logger.With().Str("component", "feed").Logger(),
		key:        cfg.IdentityKey,
		highlights: NewHighlightTracker(cfg.HighlightDwell),
	}
}

var tracer = otel.Tracer("github.com/dealhawk/deal-service/internal/feed")

// StartSearch begins a fresh search: it supersedes the current session,
// resets the cursor to page 1, clears exhaustion and fetches the first page.
// Results are prepended to the collection. Returns the number of unique
// deals merged.
func (c *Controller) StartSearch(ctx context.Context, keyword string) (int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, ErrBlankKeyword
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return 0, ErrDisposed
	}
	c.gen++
	gen := c.gen
	c.sess = session{keyword: keyword, page: 1, inFlight: true}
	req := c.requestLocked()
	c.mu.Unlock()

	return c.fetch(ctx, gen, req, true)
}

// FetchNext requests the next page of the current session. Calls arriving
// while a fetch is in flight, while the session is exhausted, or before any
// search has started are no-ops; the in-flight flag is the only guard
// against a fast double-trigger of the scroll sentinel.
func (c *Controller) FetchNext(ctx context.Context) (int, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return 0, ErrDisposed
	}
	if c.sess.keyword == "" || c.sess.inFlight || c.sess.exhausted {
		c.mu.Unlock()
		return 0, nil
	}
	c.sess.inFlight = true
	gen := c.gen
	req := c.requestLocked()
	c.mu.Unlock()

	return c.fetch(ctx, gen, req, false)
}

// requestLocked builds the page request for the current cursor. Caller holds mu.
func (c *Controller) requestLocked() SearchRequest {
	return SearchRequest{
		Keyword:     c.sess.keyword,
		MinDiscount: c.cfg.MinDiscount,
		Page:        c.sess.page,
		PageSize:    c.cfg.PageSize,
		DebugFlag:   c.cfg.DebugFlag,
	}
}

// fetch performs the network call outside the lock, then merges under it.
// gen pins the session generation: if a fresh search superseded this fetch
// while it was in flight, its late result is discarded wholesale.
func (c *Controller) fetch(ctx context.Context, gen uint64, req SearchRequest, fresh bool) (int, error) {
	ctx, span := tracer.Start(ctx, "feed.fetch")
	span.SetAttributes(
		attribute.String("feed.keyword", req.Keyword),
		attribute.Int("feed.page", req.Page),
		attribute.Bool("feed.fresh", fresh),
	)
	defer span.End()

	resp, err := c.searcher.Search(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.disposed {
		pagesFetched.WithLabelValues("stale").Inc()
		c.logger.Debug().Str("keyword", req.Keyword).Int("page", req.Page).
			Msg("Discarding superseded fetch result")
		return 0, nil
	}
	c.sess.inFlight = false

	if err != nil {
		pagesFetched.WithLabelValues("transport_error").Inc()
		c.lastErr = err.Error()
		c.logger.Warn().Err(err).Str("keyword", req.Keyword).Int("page", req.Page).
			Msg("Search fetch failed")
		return 0, err
	}
	if !resp.Success {
		pagesFetched.WithLabelValues("app_error").Inc()
		msg := resp.Error
		if msg == "" {
			msg = "search endpoint reported failure"
		}
		c.lastErr = msg
		c.logger.Warn().Str("keyword", req.Keyword).Int("page", req.Page).
			Str("error", msg).Msg("Search endpoint returned failure")
		return 0, errors.New(msg)
	}

	// Successful, parsed, success=true response: the only path that merges.
	c.lastErr = ""
	merged := c.mergeLocked(resp.Deals, fresh)

	if merged == 0 {
		c.sess.exhausted = true
		pagesFetched.WithLabelValues("exhausted").Inc()
		exhaustions.Inc()
		c.logger.Info().Str("keyword", req.Keyword).Int("page", req.Page).
			Msg("Session exhausted: no previously-unseen results")
	} else {
		c.sess.page++
		pagesFetched.WithLabelValues("merged").Inc()
		c.logger.Info().Str("keyword", req.Keyword).Int("page", req.Page).
			Int("unique", merged).Int("total", len(c.deals)).Msg("Merged page")
	}
	return merged, nil
}

// mergeLocked runs candidates through the deduplication engine against the
// full collection, assigns local IDs to the survivors, inserts them
// (prepend for fresh, append for pagination) and marks them highlighted.
// Caller holds mu.
func (c *Controller) mergeLocked(candidates []Deal, fresh bool) int {
	batch := make([]*Deal, len(candidates))
	for i := range candidates {
		d := candidates[i]
		d.Keyword = c.sess.keyword
		batch[i] = &d
	}

	unique := Dedupe(c.deals, batch, c.key)
	dealsMerged.WithLabelValues(string(c.key)).Add(float64(len(unique)))
	duplicatesDropped.WithLabelValues(string(c.key)).Add(float64(len(batch) - len(unique)))
	mergeBatchSize.Observe(float64(len(unique)))

	if len(unique) == 0 {
		return 0
	}

	ids := make([]string, len(unique))
	for i, d := range unique {
		d.LocalID = c.ids.Next()
		ids[i] = d.LocalID
	}

	if fresh {
		c.deals = append(unique, c.deals...)
	} else {
		c.deals = append(c.deals, unique...)
	}
	collectionSize.Set(float64(len(c.deals)))

	c.highlights.Mark(ids)
	return len(unique)
}

// PatchRewrite attaches derived rewritten text to the deal with the given
// local ID. Reports whether the ID was found.
func (c *Controller) PatchRewrite(localID, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return false
	}
	for _, d := range c.deals {
		if d.LocalID == localID {
			d.Rewritten = text
			return true
		}
	}
	return false
}

// SetIdentityKey switches the key used by future merges. The existing
// collection is not re-deduplicated.
func (c *Controller) SetIdentityKey(k IdentityKey) error {
	if !k.Valid() {
		return errors.New("unknown identity key: " + string(k))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	c.key = k
	return nil
}

// IsHighlighted reports whether the deal with the given local ID belongs to
// the most recent merge batch.
func (c *Controller) IsHighlighted(localID string) bool {
	return c.highlights.IsHighlighted(localID)
}

// Status returns a snapshot of the session and bootstrap state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Keyword:        c.sess.keyword,
		Page:           c.sess.page,
		Exhausted:      c.sess.exhausted,
		InFlight:       c.sess.inFlight,
		TotalDeals:     len(c.deals),
		IdentityKey:    string(c.key),
		LastError:      c.lastErr,
		BootstrapStep:  c.bootState.step,
		BootstrapTotal: len(c.cfg.Seeds),
		BootstrapDone:  c.bootState.done,
	}
}

// Snapshot returns value copies of the raw collection in its current order.
func (c *Controller) Snapshot() []Deal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Deal, len(c.deals))
	for i, d := range c.deals {
		out[i] = *d
	}
	return out
}

// Dispose cancels the pending highlight timer and marks the controller
// inert. In-flight fetch results arriving afterwards are discarded.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.gen++
	c.mu.Unlock()
	c.highlights.Stop()
}
