// Package dashboard aggregates incidents into the summary scorecards
// and the per-warroom load matrix.
package dashboard

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/lov"
)

var titleCaser = cases.Title(language.English)

// priorityBuckets are the scorecard priority tiers, matched by
// substring against the full priority label.
var priorityBuckets = []string{"P1", "P2", "P3", "P4"}

// Scorecard is one status-group tile on the summary view.
type Scorecard struct {
	Group      domain.StatusGroup `json:"group"`
	Label      string             `json:"label"`
	Total      int                `json:"total"`
	Priorities map[string]int     `json:"priorities"`
	// Statuses breaks the total down per member status. Populated for
	// the business-as-usual group, whose statuses are closures in their
	// own right rather than stages of one flow.
	Statuses map[string]int `json:"statuses,omitempty"`
}

// Summary is the response of the summary endpoint.
type Summary struct {
	Total      int         `json:"total"`
	Scorecards []Scorecard `json:"scorecards"`
}

// WarroomLoad is one row of the warroom matrix: active incidents
// assigned to the warroom, split by priority tier.
type WarroomLoad struct {
	Warroom    string         `json:"warroom"`
	Total      int            `json:"total"`
	Priorities map[string]int `json:"priorities"`
}

// Service computes dashboard aggregates from the live incident set.
type Service struct {
	incidents *incidents.Service
	lovs      *lov.Service
}

// NewService creates a new dashboard service.
func NewService(incidentService *incidents.Service, lovService *lov.Service) *Service {
	return &Service{incidents: incidentService, lovs: lovService}
}

// Summary returns the status-group scorecards.
func (s *Service) Summary(ctx context.Context) Summary {
	return BuildSummary(s.incidents.All(ctx), s.lovs.Registry())
}

// Warrooms returns the active-incident load per warroom, busiest first.
func (s *Service) Warrooms(ctx context.Context) []WarroomLoad {
	return BuildWarroomMatrix(s.incidents.All(ctx), s.lovs.Registry())
}

// BuildSummary groups incidents by status group and counts priority
// tiers within each group.
func BuildSummary(list []*domain.Incident, reg *lov.Registry) Summary {
	groups := []domain.StatusGroup{
		domain.StatusGroupActive,
		domain.StatusGroupBAU,
		domain.StatusGroupResolved,
		domain.StatusGroupClosed,
	}

	cards := make([]Scorecard, 0, len(groups))
	for _, group := range groups {
		card := Scorecard{
			Group:      group,
			Label:      titleCaser.String(string(group)),
			Priorities: zeroBuckets(),
		}
		if group == domain.StatusGroupBAU {
			card.Label = "BAU"
			card.Statuses = make(map[string]int)
			for _, status := range domain.BAUStatuses {
				card.Statuses[status] = 0
			}
		}

		for _, inc := range list {
			if reg.Classify(inc.Status) != group {
				continue
			}
			card.Total++
			if bucket := priorityBucket(inc.Priority); bucket != "" {
				card.Priorities[bucket]++
			}
			if card.Statuses != nil {
				card.Statuses[inc.Status]++
			}
		}
		cards = append(cards, card)
	}

	return Summary{Total: len(list), Scorecards: cards}
}

// BuildWarroomMatrix counts active incidents per assigned warroom and
// priority tier, sorted by total descending with the warroom name as a
// stable tie-break.
func BuildWarroomMatrix(list []*domain.Incident, reg *lov.Registry) []WarroomLoad {
	byWarroom := make(map[string]*WarroomLoad)
	for _, inc := range list {
		if reg.Classify(inc.Status) != domain.StatusGroupActive {
			continue
		}
		row, ok := byWarroom[inc.Warroom]
		if !ok {
			row = &WarroomLoad{Warroom: inc.Warroom, Priorities: zeroBuckets()}
			byWarroom[inc.Warroom] = row
		}
		row.Total++
		if bucket := priorityBucket(inc.Priority); bucket != "" {
			row.Priorities[bucket]++
		}
	}

	rows := make([]WarroomLoad, 0, len(byWarroom))
	for _, row := range byWarroom {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Warroom < rows[j].Warroom
	})
	return rows
}

func priorityBucket(priority string) string {
	for _, bucket := range priorityBuckets {
		if strings.Contains(priority, bucket) {
			return bucket
		}
	}
	return ""
}

func zeroBuckets() map[string]int {
	m := make(map[string]int, len(priorityBuckets))
	for _, b := range priorityBuckets {
		m[b] = 0
	}
	return m
}
