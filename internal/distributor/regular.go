package distributor

import "math"

// packRegularUnits runs the scored greedy placement of small units onto the
// transformer's eligible breakers. Units must arrive sorted by descending
// demand load. Units exceeding the hard ceiling outright can never qualify on
// any breaker and land in dropped; units disqualified everywhere by current
// loads are returned for the next orchestration round.
func (d *greedyDistributor) packRegularUnits(tr *Transformer, units []LoadUnit, dropped *[]LoadUnit) []LoadUnit {
	if len(units) == 0 {
		return nil
	}

	eligible := []*Breaker{}
	for _, b := range tr.Breakers {
		if !b.Dedicated && !b.pairUsed {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return units
	}

	total := 0.0
	for _, u := range units {
		total += u.CDL
	}
	needed := int(math.Ceil(total / d.params.MaxBreakerCapacity))
	if needed < 1 {
		needed = 1
	}
	if needed > len(eligible) {
		needed = len(eligible)
	}
	used := eligible[:needed]
	target := math.Min(total/float64(needed), d.params.MaxBreakerCapacity)

	unplaced := []LoadUnit{}
	for _, u := range units {
		if u.CDL > d.params.MaxBreakerCapacity {
			*dropped = append(*dropped, u)
			continue
		}

		avg := 0.0
		for _, b := range used {
			avg += b.Load
		}
		avg /= float64(len(used))

		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, b := range used {
			score, ok := d.scoreBreaker(b, u, target, avg)
			if !ok {
				continue
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			unplaced = append(unplaced, u)
			continue
		}
		used[bestIdx].assign(u)
	}
	return unplaced
}

// scoreBreaker rates placing unit u on breaker b. The second return value is
// false when the placement would push the breaker over the hard ceiling.
func (d *greedyDistributor) scoreBreaker(b *Breaker, u LoadUnit, target, avg float64) (float64, bool) {
	newLoad := b.Load + u.CDL
	if newLoad > d.params.MaxBreakerCapacity {
		return 0, false
	}

	score := 1000.0
	// Reward moving closer to the per-breaker target load.
	score += 10 * (math.Abs(b.Load-target) - math.Abs(newLoad-target))
	// Penalize overshooting the group average.
	score -= 2 * (math.Abs(newLoad-avg) - math.Abs(b.Load-avg))
	// Diversity: prefer spreading categories and time patterns.
	if !b.hasCategory(u.Category) {
		score += 0.5
	}
	if !b.hasTimePattern(u.TimePattern) {
		score += 0.25
	}
	// Slight bias toward emptier breakers still under target.
	if b.Load < target {
		score -= b.Load / 100
	}
	return score, true
}
