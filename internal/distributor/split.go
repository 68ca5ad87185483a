package distributor

import "math"

// packSplitUnits places dual-band units by halving each across the best
// balanced breaker pair of the transformer. Units whose half exceeds the hard
// ceiling can never be placed and land in dropped; units for which no free
// pair remains are returned for the next orchestration round.
func (d *greedyDistributor) packSplitUnits(tr *Transformer, units []LoadUnit, dropped *[]LoadUnit) []LoadUnit {
	unplaced := []LoadUnit{}
	for _, u := range units {
		half := u.CDL / 2
		if half > d.params.MaxBreakerCapacity {
			*dropped = append(*dropped, u)
			continue
		}

		b1, b2 := bestBreakerPair(tr.Breakers)
		if b1 == nil {
			unplaced = append(unplaced, u)
			continue
		}

		p1 := u
		p1.ID = u.ID + "_p1"
		p1.CDL = half
		p1.Note = "part 1"
		p2 := u
		p2.ID = u.ID + "_p2"
		p2.CDL = half
		p2.Note = "part 2"

		b1.assign(p1)
		b2.assign(p2)
		b1.pairUsed = true
		b2.pairUsed = true
	}
	return unplaced
}

// bestBreakerPair scans all eligible pairs in ascending breaker-number order
// and keeps the first pair with the maximum score. Eligible breakers are
// neither dedicated nor consumed by a previous split pair. Returns nils when
// fewer than two breakers are eligible.
func bestBreakerPair(breakers []*Breaker) (*Breaker, *Breaker) {
	var best1, best2 *Breaker
	bestScore := math.Inf(-1)
	for i := 0; i < len(breakers); i++ {
		if breakers[i].Dedicated || breakers[i].pairUsed {
			continue
		}
		for j := i + 1; j < len(breakers); j++ {
			if breakers[j].Dedicated || breakers[j].pairUsed {
				continue
			}
			score := pairScore(breakers[i].Load, breakers[j].Load)
			if score > bestScore {
				bestScore = score
				best1, best2 = breakers[i], breakers[j]
			}
		}
	}
	return best1, best2
}

// pairScore favours pairs that are both similarly loaded and lightly loaded.
func pairScore(l1, l2 float64) float64 {
	return (100 - math.Abs(l1-l2)) + (200 - l1 - l2)
}
