package distributor

import "sort"

type greedyDistributor struct {
	params Params
}

// New creates a Distributor running the three-phase greedy packing heuristic
// with the given parameters.
func New(params Params) Distributor {
	return &greedyDistributor{params: params}
}

func (d *greedyDistributor) Distribute(groups []LoadGroupSpec, catalog []TransformerType) (*DistributionResult, error) {
	types, err := normalizeCatalog(catalog)
	if err != nil {
		return nil, err
	}

	units := ExpandGroups(groups)
	totalLoad := 0.0
	for _, u := range units {
		totalLoad += u.CDL
	}

	transformers := []*Transformer{}
	dropped := []LoadUnit{}
	seq := 0

	// Large-class units each get their own dedicated transformer; everything
	// else goes through the orchestration loop.
	pool := []LoadUnit{}
	for _, u := range units {
		if u.Capacity >= d.params.LargeThreshold {
			tr := d.dedicatedTransformer(u, types)
			seq++
			tr.finalize(seq)
			transformers = append(transformers, tr)
			continue
		}
		pool = append(pool, u)
	}
	sortByDemandDesc(pool)

	for len(pool) > 0 {
		remaining := 0.0
		for _, u := range pool {
			remaining += u.CDL
		}
		t := SelectType(remaining, types)
		tr := newTransformer(t, d.params.MaxBreakerCapacity)

		working, leftover := takeUpToSafeLoad(pool, t.SafeLoad)
		if len(working) == 0 {
			// Every remaining unit exceeds the safe load of the selected
			// type on its own. The selector already falls back to the
			// largest type, so none of these can ever be placed.
			dropped = append(dropped, pool...)
			break
		}

		splitUnits := []LoadUnit{}
		regularUnits := []LoadUnit{}
		for _, u := range working {
			if u.Capacity >= d.params.SplitBandMin {
				splitUnits = append(splitUnits, u)
			} else {
				regularUnits = append(regularUnits, u)
			}
		}

		unplaced := d.packSplitUnits(tr, splitUnits, &dropped)
		unplaced = append(unplaced, d.packRegularUnits(tr, regularUnits, &dropped)...)
		tr.recomputeLoad()

		if tr.AssignedLoad == 0 {
			// The transformer ended up empty. Recycling its candidates would
			// reproduce the same stalemate forever, so drop them instead of
			// emitting an empty transformer.
			dropped = append(dropped, unplaced...)
			pool = leftover
			continue
		}

		seq++
		tr.finalize(seq)
		transformers = append(transformers, tr)

		pool = append(leftover, unplaced...)
		sortByDemandDesc(pool)
	}

	balance := balanceScore(transformers)
	return &DistributionResult{
		TotalLoad:    totalLoad,
		Transformers: transformers,
		BalanceScore: balance,
		Summary:      buildSummary(groups, transformers, totalLoad, balance),
		Dropped:      dropped,
	}, nil
}

// takeUpToSafeLoad scans the descending-demand pool and takes every unit that
// still fits under the safe load, leaving the rest for later rounds.
func takeUpToSafeLoad(pool []LoadUnit, safeLoad float64) (working, leftover []LoadUnit) {
	sum := 0.0
	for _, u := range pool {
		if sum+u.CDL <= safeLoad {
			working = append(working, u)
			sum += u.CDL
			continue
		}
		leftover = append(leftover, u)
	}
	return working, leftover
}

// sortByDemandDesc orders units by descending demand load, breaking ties by
// ascending unit ID so repeated runs are bit-for-bit identical.
func sortByDemandDesc(units []LoadUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].CDL != units[j].CDL {
			return units[i].CDL > units[j].CDL
		}
		return units[i].ID < units[j].ID
	})
}
