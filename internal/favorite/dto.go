// AngelaMos | 2026
// dto.go

package favorite

import (
	"encoding/json"
	"math"
)

// ToggleRequest is decoded loosely so malformed entries can be dropped
// instead of failing the whole request.
type ToggleRequest struct {
	LandListingIDs any `json:"landListingIds"`
}

// ParseListingIDs keeps JSON numbers with a positive integral value, in
// first-seen order without duplicates. Strings, fractions, negatives and
// non-array input are discarded.
func ParseListingIDs(raw any) []int64 {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))

	for _, item := range items {
		id, ok := positiveInteger(item)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

func positiveInteger(v any) (int64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, i > 0
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
