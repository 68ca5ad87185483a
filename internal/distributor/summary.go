package distributor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// reactiveFactor converts total active load into its reactive-power figure.
const reactiveFactor = 0.4 * 1.73

// balanceScore maps the dispersion of utilization across non-dedicated,
// non-empty breakers onto a 0-100 scale. An empty breaker set scores 100.
func balanceScore(transformers []*Transformer) float64 {
	utils := []float64{}
	for _, tr := range transformers {
		if tr.Dedicated {
			continue
		}
		for _, b := range tr.Breakers {
			if len(b.Meters) == 0 {
				continue
			}
			utils = append(utils, b.UtilizationPercent)
		}
	}
	if len(utils) == 0 {
		return 100
	}
	_, stdDev := meanStdDev(utils)
	return clamp(100-2*stdDev, 0, 100)
}

func buildSummary(groups []LoadGroupSpec, transformers []*Transformer, totalLoad, balance float64) DistributionSummary {
	totalBreakers := 0
	nonEmpty := 0
	part1Halves := 0
	overloadedBreakers := 0
	overloadedTransformers := 0
	assignedLoad := 0.0
	safeCapacity := 0.0
	utils := []float64{}
	capacityCounts := map[int]int{}

	for _, tr := range transformers {
		totalBreakers += len(tr.Breakers)
		assignedLoad += tr.AssignedLoad
		safeCapacity += tr.Type.SafeLoad
		capacityCounts[tr.Type.Capacity]++
		if tr.AssignedLoad > tr.Type.SafeLoad {
			overloadedTransformers++
		}
		for _, b := range tr.Breakers {
			if len(b.Meters) == 0 {
				continue
			}
			nonEmpty++
			utils = append(utils, b.UtilizationPercent)
			if b.UtilizationPercent > 100 {
				overloadedBreakers++
			}
			for _, m := range b.Meters {
				if m.Note == "part 1" {
					part1Halves++
				}
			}
		}
	}

	totalMeters := 0
	for _, g := range groups {
		totalMeters += g.Count
	}

	maxUtil, minUtil, avgUtil := 0.0, 0.0, 0.0
	if len(utils) > 0 {
		maxUtil = utils[0]
		minUtil = utils[0]
		sum := 0.0
		for _, u := range utils {
			maxUtil = math.Max(maxUtil, u)
			minUtil = math.Min(minUtil, u)
			sum += u
		}
		avgUtil = sum / float64(len(utils))
	}

	efficiency := 0.0
	if safeCapacity > 0 {
		efficiency = assignedLoad / safeCapacity * 100
	}

	return DistributionSummary{
		TotalTransformers:      len(transformers),
		TotalBreakers:          totalBreakers,
		DistributionEntries:    nonEmpty - part1Halves,
		TotalMeters:            totalMeters,
		TotalLoad:              format1(totalLoad),
		ReactivePower:          format1(totalLoad * reactiveFactor),
		OverloadedBreakers:     overloadedBreakers,
		OverloadedTransformers: overloadedTransformers,
		MaxUtilization:         format1(maxUtil),
		MinUtilization:         format1(minUtil),
		AvgUtilization:         format1(avgUtil),
		BalanceScore:           format1(balance),
		Efficiency:             format1(efficiency),
		CapacityBreakdown:      capacityBreakdown(capacityCounts),
	}
}

// capacityBreakdown renders the transformer capacity tally as a label list,
// largest capacity first.
func capacityBreakdown(counts map[int]int) string {
	capacities := make([]int, 0, len(counts))
	for c := range counts {
		capacities = append(capacities, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(capacities)))

	parts := make([]string, 0, len(capacities))
	for _, c := range capacities {
		parts = append(parts, fmt.Sprintf("%d x %d kVA", counts[c], c))
	}
	return strings.Join(parts, ", ")
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func format1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
