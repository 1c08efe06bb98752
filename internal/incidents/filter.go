package incidents

import (
	"sort"
	"strings"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/lov"
)

// ApplyFilters returns the incidents matching every predicate in the
// filters, sorted newest first. Ties on the creation timestamp keep
// their relative store order.
//
// Matching rules: search is a case-insensitive substring over summary
// or id; category, status, warroom and impactCategory match by
// equality with empty meaning wildcard; priority matches by substring
// so a bare "P1" finds "P1: Critical"; statusGroup delegates to the
// registry's classifier.
func ApplyFilters(incidents []*domain.Incident, f domain.IncidentFilters, reg *lov.Registry) []*domain.Incident {
	search := strings.ToLower(f.Search)

	out := make([]*domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if search != "" &&
			!strings.Contains(strings.ToLower(inc.Summary), search) &&
			!strings.Contains(strings.ToLower(inc.ID), search) {
			continue
		}
		if f.Category != "" && inc.Category != f.Category {
			continue
		}
		if f.Priority != "" && !strings.Contains(inc.Priority, f.Priority) {
			continue
		}
		if f.Status != "" && inc.Status != f.Status {
			continue
		}
		if f.Warroom != "" && inc.Warroom != f.Warroom {
			continue
		}
		if f.ImpactCategory != "" && inc.ImpactCategory != f.ImpactCategory {
			continue
		}
		if f.StatusGroup != domain.StatusGroupNone && !reg.InGroup(inc.Status, f.StatusGroup) {
			continue
		}
		out = append(out, inc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
