package distributor

import "fmt"

// ExpandGroups flattens grouped load records into individual meter units.
// Unit identities are "<groupID>_<index>" with indices starting at 1.
func ExpandGroups(groups []LoadGroupSpec) []LoadUnit {
	units := []LoadUnit{}
	for _, g := range groups {
		for i := 1; i <= g.Count; i++ {
			units = append(units, LoadUnit{
				ID:          fmt.Sprintf("%s_%d", g.ID, i),
				Capacity:    g.Capacity,
				CDL:         g.CDLPerMeter,
				Category:    g.Category,
				TimePattern: g.TimePattern,
				TypeName:    g.TypeName,
			})
		}
	}
	return units
}
