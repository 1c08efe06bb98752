// Package seed generates randomized mock incidents for demos and
// load-testing a fresh install.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/lov"
)

// MaxCount caps one seed request.
const MaxCount = 500

var summaries = []string{
	"Login failure for multiple users",
	"Slow dashboard loading times",
	"Inventory sync mismatch",
	"POS Terminal frozen",
	"Payment gateway timeout",
	"Order status not updating",
	"Report generation failed",
	"VPN connection unstable",
	"Data migration stuck at 90%",
	"User permission denied error",
}

var names = []string{"Alice Johnson", "Bob Smith", "Charlie Brown", "Diana Prince", "Evan Wright"}

var stores = []string{"Flagship NYC", "Mall of America", "Downtown LA", "London Oxford St", "Online Store"}

var smes = []string{"Tech Support A", "Network Team", "Database Admin", "App Dev Lead", ""}

// Generate builds count mock incidents drawing classification values
// from the given LOV data. Priorities are weighted towards the low end
// (5% P1, 15% P2, 30% P3, 50% P4), creation times fall within the last
// 30 days, and terminal incidents resolve within 48 hours of creation.
// The result is sorted newest first. Ids carry a per-run suffix so
// repeated seeding never collides.
func Generate(count int, data domain.LOVData, now time.Time, rng *rand.Rand) []*domain.Incident {
	pick := func(list []string) string {
		if len(list) == 0 {
			return "Unknown"
		}
		return list[rng.Intn(len(list))]
	}

	run := fmt.Sprintf("%04X", rng.Intn(0x10000))

	list := make([]*domain.Incident, 0, count)
	for i := 0; i < count; i++ {
		priority := weightedPriority(rng.Float64())

		created := now.Add(-time.Duration(rng.Int63n(int64(30 * 24 * time.Hour))))

		status := pick(data.Statuses)
		var resolvedAt *time.Time
		if domain.IsTerminal(status) {
			t := created.Add(time.Duration(rng.Int63n(int64(48 * time.Hour))))
			resolvedAt = &t
		}

		warroom := pick(data.Warrooms)
		region := pick(data.Regions)

		sme := ""
		if rng.Float64() > 0.3 {
			sme = pick(smes)
		}

		list = append(list, &domain.Incident{
			ID:             fmt.Sprintf("INC-%d-%s", 100000+i, run),
			Category:       pick(data.Categories),
			Priority:       priority,
			Status:         status,
			Warroom:        warroom,
			ImpactCategory: pick(data.ImpactCategories),
			ImpactArea:     fmt.Sprintf("Zone %d", rng.Intn(10)),
			RequestorName:  pick(names),
			RequestorEmail: emailFor(pick(names)),
			ChannelType:    pick(data.Channels),
			StoreName:      pick(stores),
			StoreID:        fmt.Sprintf("ST-%d", rng.Intn(500)),
			Region:         region,
			AffectedUserID: fmt.Sprintf("EMP-%d", rng.Intn(9000)),
			Summary:        fmt.Sprintf("%s - %s", pick(summaries), region),
			Description:    fmt.Sprintf("Automated mock incident generated for testing. Issue observed in %s domain.", warroom),
			SME:            sme,
			Timestamp:      created,
			UpdatedAt:      created,
			ResolvedAt:     resolvedAt,
			Updates: []domain.IncidentUpdate{{
				Timestamp: created,
				User:      domain.SystemAuthor,
				Message:   "Incident created via Mock Seed",
				Type:      domain.UpdateTypeCreation,
			}},
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list
}

func weightedPriority(v float64) string {
	switch {
	case v < 0.05:
		return "P1: Critical"
	case v < 0.20:
		return "P2: High"
	case v < 0.50:
		return "P3: Medium"
	default:
		return "P4: Low"
	}
}

func emailFor(name string) string {
	first := strings.ToLower(strings.Fields(name)[0])
	return first + "@example.com"
}

// Service seeds generated incidents into the store.
type Service struct {
	incidents *incidents.Service
	lovs      *lov.Service
	now       func() time.Time
	rng       *rand.Rand
}

// NewService creates a new seed service.
func NewService(incidentService *incidents.Service, lovService *lov.Service) *Service {
	return &Service{
		incidents: incidentService,
		lovs:      lovService,
		now:       func() time.Time { return time.Now().UTC() },
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed generates count incidents and prepends them to the store.
func (s *Service) Seed(ctx context.Context, count int) []*domain.Incident {
	generated := Generate(count, s.lovs.Get(ctx), s.now(), s.rng)
	s.incidents.Import(ctx, generated)
	return generated
}
