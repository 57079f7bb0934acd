package feed

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Deal is a single search-result record. The raw collection owns every Deal
// after insertion; the only permitted mutation afterwards is attaching
// rewritten text by LocalID.
type Deal struct {
	ASIN  string `json:"asin,omitempty"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title"`

	Discount      int     `json:"discount"`
	OriginalPrice float64 `json:"originalPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`

	// Coupon code aliases. Upstream responses are inconsistent about which
	// field carries the code, so all four are kept and resolved through
	// couponAccessors.
	Code       string `json:"code,omitempty"`
	CouponCode string `json:"couponCode,omitempty"`
	PromoCode  string `json:"promoCode,omitempty"`
	Coupon     string `json:"coupon,omitempty"`

	// Promotion is the raw upstream promotion payload, passed through opaque.
	Promotion json.RawMessage `json:"promotion,omitempty"`

	// Keyword records which search surfaced this deal.
	Keyword string `json:"keyword,omitempty"`

	// LocalID is assigned on arrival, unique per controller lifetime and
	// ordered by arrival. Rendering identity and highlight membership only.
	LocalID string `json:"localId"`

	// Rewritten is derived text attached after the fact via PatchRewrite.
	Rewritten string `json:"rewritten,omitempty"`
}

// couponAccessors is the ordered alias list for the coupon code field.
// New aliases are additive: append here, nothing else changes.
var couponAccessors = []func(*Deal) string{
	func(d *Deal) string { return d.Code },
	func(d *Deal) string { return d.CouponCode },
	func(d *Deal) string { return d.PromoCode },
	func(d *Deal) string { return d.Coupon },
}

// ResolveCoupon returns the first non-empty coupon alias, or "".
func (d *Deal) ResolveCoupon() string {
	for _, get := range couponAccessors {
		if v := strings.TrimSpace(get(d)); v != "" {
			return v
		}
	}
	return ""
}

// HasCoupon reports whether any coupon alias carries a value.
func (d *Deal) HasCoupon() bool {
	return d.ResolveCoupon() != ""
}

// IdentityKey selects which field recognizes two Deals as "the same".
type IdentityKey string

const (
	KeyASIN  IdentityKey = "asin"
	KeyURL   IdentityKey = "url"
	KeyTitle IdentityKey = "title"
)

// Valid reports whether k names a known identity key.
func (k IdentityKey) Valid() bool {
	switch k {
	case KeyASIN, KeyURL, KeyTitle:
		return true
	}
	return false
}

var titleFolder = cases.Fold()

// normalizeTitleKey folds case and Unicode compatibility forms so that
// cosmetic title variations collapse to one key.
func normalizeTitleKey(s string) string {
	return titleFolder.String(norm.NFKC.String(strings.TrimSpace(s)))
}

func keyAccessor(k IdentityKey) func(*Deal) string {
	switch k {
	case KeyASIN:
		return func(d *Deal) string { return strings.TrimSpace(d.ASIN) }
	case KeyURL:
		return func(d *Deal) string { return strings.TrimSpace(d.URL) }
	default:
		return func(d *Deal) string { return normalizeTitleKey(d.Title) }
	}
}

// SelectKey returns the deduplication key for d: the configured field first,
// then the remaining identity fields in asin, url, title order. Returns ""
// when every candidate field is empty; such a Deal cannot be deduplicated
// safely and is dropped by the merge.
func SelectKey(d *Deal, primary IdentityKey) string {
	accessors := []func(*Deal) string{keyAccessor(primary)}
	for _, k := range []IdentityKey{KeyASIN, KeyURL, KeyTitle} {
		if k != primary {
			accessors = append(accessors, keyAccessor(k))
		}
	}
	for _, get := range accessors {
		if v := get(d); v != "" {
			return v
		}
	}
	return ""
}
