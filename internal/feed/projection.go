package feed

import "context"

// Criteria are the user-facing filter settings. MaxResults is a display cap
// only; it never mutates the raw collection.
type Criteria struct {
	MinDiscount int
	RequireCode bool
	MaxResults  int
}

// ProjectedDeal is a Deal plus its transient highlight flag.
type ProjectedDeal struct {
	Deal
	IsNew bool `json:"isNew"`
}

// Projection is the filtered, display-limited view over the raw collection.
type Projection struct {
	Deals         []ProjectedDeal `json:"deals"`
	FilteredCount int             `json:"filteredCount"`
	TotalCount    int             `json:"totalCount"`
	Exhausted     bool            `json:"exhausted"`
}

// Project derives the filtered and display subsets for the given criteria,
// preserving collection order. One linear pass; recomputed per call, no
// caching at this scale.
func (c *Controller) Project(cr Criteria) Projection {
	if cr.MaxResults < 1 {
		cr.MaxResults = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := Projection{
		Deals:      make([]ProjectedDeal, 0, cr.MaxResults),
		TotalCount: len(c.deals),
		Exhausted:  c.sess.exhausted,
	}
	for _, d := range c.deals {
		if d.Discount < cr.MinDiscount {
			continue
		}
		if cr.RequireCode && !d.HasCoupon() {
			continue
		}
		p.FilteredCount++
		if len(p.Deals) < cr.MaxResults {
			p.Deals = append(p.Deals, ProjectedDeal{
				Deal:  *d,
				IsNew: c.highlights.IsHighlighted(d.LocalID),
			})
		}
	}
	return p
}

// OnVisibility is the scroll-trigger boundary. The sentinel's visibility
// signal is edge-triggered: a non-visible edge does nothing, a visible edge
// requests the next page when more filtered items exist than are shown.
// The fetch itself still honors the in-flight and exhausted guards, so a
// visible edge while the server is exhausted settles without a request
// beyond the first.
func (c *Controller) OnVisibility(ctx context.Context, visible bool, cr Criteria) (int, error) {
	if !visible {
		return 0, nil
	}
	p := c.Project(cr)
	if p.FilteredCount <= len(p.Deals) {
		return 0, nil
	}
	return c.FetchNext(ctx)
}
