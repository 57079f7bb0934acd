package feed

// Dedupe returns the subset of candidates not already represented in
// existing under the given identity key, preserving candidate order.
//
// One pass over existing builds the key lookup, one pass over candidates
// filters against it; O(n+m) total, no sorting. The lookup grows as
// candidates are accepted, so two candidates sharing a key within the same
// batch collapse to the first. Candidates whose key selector yields nothing
// are dropped outright: they could never be deduplicated later and would
// otherwise accumulate without bound.
//
// Dedupe is side-effect free. Callers decide insertion order (prepend for a
// fresh search, append for pagination).
func Dedupe(existing, candidates []*Deal, key IdentityKey) []*Deal {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, d := range existing {
		if k := SelectKey(d, key); k != "" {
			seen[k] = struct{}{}
		}
	}

	unique := make([]*Deal, 0, len(candidates))
	for _, c := range candidates {
		k := SelectKey(c, key)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
