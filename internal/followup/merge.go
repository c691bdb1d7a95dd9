package followup

import (
	"time"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// MergeStats counts what a merge did
type MergeStats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Merge folds parsed rows into the book. Tracked policies get their pasted
// columns replaced and keep status, agent, customer and remarks fields. New
// policies start grey. The book's headers become the latest paste's headers.
func Merge(book *entity.FollowUpBook, res *ParseResult, now time.Time) MergeStats {
	stats := MergeStats{Skipped: len(res.Skipped)}
	book.Headers = append([]string(nil), res.Headers...)

	for _, row := range res.Rows {
		columns := make(map[string]string, len(row.Cells))
		for k, v := range row.Cells {
			columns[k] = v
		}

		if existing := book.Get(row.PolicyNo); existing != nil {
			existing.Columns = columns
			existing.ImportedAt = now
			existing.UpdatedAt = now
			stats.Updated++
			continue
		}

		book.Put(&entity.FollowUpRecord{
			PolicyNo:   row.PolicyNo,
			Columns:    columns,
			Status:     entity.FollowUpGrey,
			ImportedAt: now,
			UpdatedAt:  now,
		})
		stats.Added++
	}
	return stats
}
