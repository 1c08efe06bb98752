// Package export renders incident collections as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/warroomhq/incident-command/internal/domain"
)

// Header is the fixed CSV column set, in order.
var Header = []string{
	"ID",
	"Timestamp",
	"Status",
	"Priority",
	"Warroom",
	"Category",
	"Summary",
	"Requestor Name",
	"Store Name",
	"Region",
	"SME",
	"Resolved At",
}

// WriteCSV streams the incidents as CSV. Quoting follows RFC 4180, so
// summaries containing commas, quotes or newlines survive a round-trip.
func WriteCSV(w io.Writer, list []*domain.Incident) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, inc := range list {
		resolved := ""
		if inc.ResolvedAt != nil {
			resolved = inc.ResolvedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			inc.ID,
			inc.Timestamp.UTC().Format(time.RFC3339),
			inc.Status,
			inc.Priority,
			inc.Warroom,
			inc.Category,
			inc.Summary,
			inc.RequestorName,
			inc.StoreName,
			inc.Region,
			inc.SME,
			resolved,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %s: %w", inc.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
