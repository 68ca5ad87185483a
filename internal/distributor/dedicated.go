package distributor

import "fmt"

// dedicatedTransformer allocates a single-breaker transformer reserved for
// one large-class unit. The transformer type comes from the fixed class
// mapping when one exists, otherwise from the generic selector keyed on the
// unit's demand load. Only breaker 1 is used; it and the transformer are both
// marked dedicated.
func (d *greedyDistributor) dedicatedTransformer(u LoadUnit, catalog []TransformerType) *Transformer {
	var (
		t      TransformerType
		mapped bool
	)
	if rating, ok := d.params.DedicatedTypes[u.Capacity]; ok {
		t, mapped = typeByCapacity(catalog, rating)
	}
	if !mapped {
		t = SelectType(u.CDL, catalog)
	}

	tr := newTransformer(t, d.params.MaxBreakerCapacity)
	reason := fmt.Sprintf("%dA load %s", u.Capacity, u.ID)
	tr.Dedicated = true
	tr.DedicatedFor = reason

	b := tr.Breakers[0]
	b.Dedicated = true
	b.DedicatedFor = reason
	if mapped {
		b.maxCapacity = t.SafeLoad
	} else {
		b.maxCapacity = d.params.DedicatedCapacity
	}
	b.assign(u)
	tr.recomputeLoad()
	return tr
}
