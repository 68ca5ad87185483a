package distributor

import "sort"

// SelectType picks the smallest catalog entry whose safe load covers the
// requested value, falling back to the largest entry if none qualifies. The
// catalog must be ordered by ascending safe load and non-empty.
func SelectType(load float64, catalog []TransformerType) TransformerType {
	for _, t := range catalog {
		if t.SafeLoad >= load {
			return t
		}
	}
	return catalog[len(catalog)-1]
}

// normalizeCatalog validates the catalog and returns a defensive copy sorted
// by ascending safe load.
func normalizeCatalog(catalog []TransformerType) ([]TransformerType, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]TransformerType, len(catalog))
	copy(out, catalog)
	for _, t := range out {
		if t.Capacity <= 0 || t.SafeLoad <= 0 || t.Breakers <= 0 {
			return nil, ErrInvalidCatalog
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SafeLoad < out[j].SafeLoad
	})
	return out, nil
}

// typeByCapacity finds the catalog entry with the given capacity rating.
func typeByCapacity(catalog []TransformerType, capacity int) (TransformerType, bool) {
	for _, t := range catalog {
		if t.Capacity == capacity {
			return t, true
		}
	}
	return TransformerType{}, false
}
