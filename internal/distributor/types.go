package distributor

import (
	"fmt"
	"sort"
)

// LoadGroupSpec describes one group of identical metered loads as supplied by
// the caller. Capacity is the rated amperage class, CDLPerMeter the computed
// demand load of a single meter.
type LoadGroupSpec struct {
	ID          string  `json:"id"`
	Capacity    int     `json:"capacity"`
	Count       int     `json:"count"`
	CDLPerMeter float64 `json:"cdlPerMeter"`
	TotalCDL    float64 `json:"totalCDL"`
	Category    string  `json:"category"`
	TimePattern string  `json:"timePattern"`
	TypeName    string  `json:"typeName"`
}

// LoadUnit is one physical meter instance produced by expanding a group, or
// one half of a split dual-breaker load. Units are never mutated after
// creation; split halves are fresh values, not shared with the original.
type LoadUnit struct {
	ID          string  `json:"id"`
	Capacity    int     `json:"capacity"`
	CDL         float64 `json:"cdl"`
	Category    string  `json:"category"`
	TimePattern string  `json:"timePattern"`
	TypeName    string  `json:"typeName"`
	Note        string  `json:"note,omitempty"`
}

// Breaker is a capacity-limited slot within a transformer. Load, utilization
// and the derived name sets are recomputed wholesale from Meters on every
// membership change.
type Breaker struct {
	ID                 string     `json:"id"`
	Number             int        `json:"number"`
	Load               float64    `json:"load"`
	Meters             []LoadUnit `json:"meters"`
	UtilizationPercent float64    `json:"utilizationPercent"`
	MeterTypes         []string   `json:"meterTypes"`
	Categories         []string   `json:"categories"`
	TimePatterns       []string   `json:"timePatterns"`
	Dedicated          bool       `json:"dedicated,omitempty"`
	DedicatedFor       string     `json:"dedicatedFor,omitempty"`

	// maxCapacity is the denominator for UtilizationPercent: the hard
	// breaker ceiling for regular breakers, the mapped type's safe load or
	// the dedicated comparison ceiling for dedicated ones.
	maxCapacity float64
	// pairUsed marks a breaker consumed by a split pair so no other split
	// unit may reuse it.
	pairUsed bool
}

// TransformerType is a configuration record describing one transformer model.
type TransformerType struct {
	Capacity int     `json:"capacity"`
	SafeLoad float64 `json:"safeLoad"`
	Breakers int     `json:"breakers"`
}

// Transformer owns a fixed set of breakers created empty at construction.
type Transformer struct {
	ID           string          `json:"id"`
	Type         TransformerType `json:"type"`
	AssignedLoad float64         `json:"assignedLoad"`
	Breakers     []*Breaker      `json:"breakers"`
	Dedicated    bool            `json:"dedicated,omitempty"`
	DedicatedFor string          `json:"dedicatedFor,omitempty"`
}

// DistributionSummary carries human-facing statistics over a finished
// distribution. Count fields stay integers; every other numeric field is
// rendered as a one-decimal display string.
type DistributionSummary struct {
	TotalTransformers      int    `json:"totalTransformers"`
	TotalBreakers          int    `json:"totalBreakers"`
	DistributionEntries    int    `json:"distributionEntries"`
	TotalMeters            int    `json:"totalMeters"`
	TotalLoad              string `json:"totalLoad"`
	ReactivePower          string `json:"reactivePower"`
	OverloadedBreakers     int    `json:"overloadedBreakers"`
	OverloadedTransformers int    `json:"overloadedTransformers"`
	MaxUtilization         string `json:"maxUtilization"`
	MinUtilization         string `json:"minUtilization"`
	AvgUtilization         string `json:"avgUtilization"`
	BalanceScore           string `json:"balanceScore"`
	Efficiency             string `json:"efficiency"`
	CapacityBreakdown      string `json:"capacityBreakdown"`
}

// DistributionResult is the final output of a distribution run. Dropped lists
// units that could not be placed anywhere; they are absent from every breaker.
type DistributionResult struct {
	TotalLoad    float64             `json:"totalLoad"`
	Transformers []*Transformer      `json:"transformers"`
	BalanceScore float64             `json:"balanceScore"`
	Summary      DistributionSummary `json:"summary"`
	Dropped      []LoadUnit          `json:"droppedUnits,omitempty"`
}

// Params holds the engine thresholds. All loads share the unit of the
// transformer catalog's safe-load values.
type Params struct {
	// MaxBreakerCapacity is the hard per-breaker ceiling for regular packing.
	MaxBreakerCapacity float64
	// LargeThreshold is the capacity class at or above which a unit gets its
	// own dedicated transformer.
	LargeThreshold int
	// SplitBandMin is the lower bound of the dual-breaker band; units with
	// SplitBandMin <= class < LargeThreshold are halved across two breakers.
	SplitBandMin int
	// DedicatedCapacity is the utilization ceiling for dedicated breakers
	// created through the generic type-selector fallback.
	DedicatedCapacity float64
	// DedicatedTypes maps a large capacity class to the transformer capacity
	// rating reserved for it.
	DedicatedTypes map[int]int
}

// DefaultParams returns the reference engine configuration.
func DefaultParams() Params {
	return Params{
		MaxBreakerCapacity: 248,
		LargeThreshold:     1600,
		SplitBandMin:       400,
		DedicatedCapacity:  310,
		DedicatedTypes: map[int]int{
			1600: 800,
			2500: 1250,
		},
	}
}

// Distributor describes the behaviour required from a load-distribution
// engine. The catalog must be ordered by ascending safe load; Distribute
// normalizes it defensively.
type Distributor interface {
	Distribute(groups []LoadGroupSpec, catalog []TransformerType) (*DistributionResult, error)
}

func newBreaker(number int, maxCapacity float64) *Breaker {
	return &Breaker{
		Number:       number,
		Meters:       []LoadUnit{},
		MeterTypes:   []string{},
		Categories:   []string{},
		TimePatterns: []string{},
		maxCapacity:  maxCapacity,
	}
}

func newTransformer(t TransformerType, maxBreakerCapacity float64) *Transformer {
	breakers := make([]*Breaker, t.Breakers)
	for i := range breakers {
		breakers[i] = newBreaker(i+1, maxBreakerCapacity)
	}
	return &Transformer{
		Type:     t,
		Breakers: breakers,
	}
}

// assign appends a unit and recomputes every derived field from scratch.
func (b *Breaker) assign(u LoadUnit) {
	b.Meters = append(b.Meters, u)
	b.recomputeStats()
}

// recomputeStats rebuilds load, utilization and the distinct name sets from
// the current membership. Derived state is never patched incrementally.
func (b *Breaker) recomputeStats() {
	b.Load = 0
	types := map[string]struct{}{}
	categories := map[string]struct{}{}
	patterns := map[string]struct{}{}
	for _, m := range b.Meters {
		b.Load += m.CDL
		if m.TypeName != "" {
			types[m.TypeName] = struct{}{}
		}
		if m.Category != "" {
			categories[m.Category] = struct{}{}
		}
		if m.TimePattern != "" {
			patterns[m.TimePattern] = struct{}{}
		}
	}
	b.MeterTypes = sortedKeys(types)
	b.Categories = sortedKeys(categories)
	b.TimePatterns = sortedKeys(patterns)
	if b.maxCapacity > 0 {
		b.UtilizationPercent = b.Load / b.maxCapacity * 100
	} else {
		b.UtilizationPercent = 0
	}
}

func (b *Breaker) hasCategory(name string) bool {
	for _, c := range b.Categories {
		if c == name {
			return true
		}
	}
	return false
}

func (b *Breaker) hasTimePattern(name string) bool {
	for _, p := range b.TimePatterns {
		if p == name {
			return true
		}
	}
	return false
}

// recomputeLoad refreshes the transformer aggregate from its breakers.
func (t *Transformer) recomputeLoad() {
	t.AssignedLoad = 0
	for _, b := range t.Breakers {
		t.AssignedLoad += b.Load
	}
}

// finalize stamps the transformer and breaker identities once the transformer
// is known to be kept in the result.
func (t *Transformer) finalize(number int) {
	t.ID = fmt.Sprintf("T%d", number)
	for _, b := range t.Breakers {
		b.ID = fmt.Sprintf("%s-B%d", t.ID, b.Number)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
