package roster

import (
	"fmt"
	"strings"

	"github.com/quizzard-app/roster-api/internal/models"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

// Validation is the partitioned output of a validated roster.
type Validation struct {
	Groups  []models.RosterGroup
	Skipped int
}

// ValidateAndPartition checks the roster against the mode's required column
// set and groups the surviving rows. Structural failures (missing columns,
// nothing valid) abort the whole upload before any record is written; rows
// that merely lack a required value are skipped and counted.
func ValidateAndPartition(rows []models.RosterRow, mode models.IngestMode) (*Validation, error) {
	if !mode.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown ingest mode %q", mode))
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyRoster, "")
	}

	required := mode.RequiredFields()
	if missing := missingColumns(rows[0], required); len(missing) > 0 {
		available := availableColumns(rows[0])
		err := appErrors.Clone(appErrors.ErrMissingColumns,
			fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")))
		return nil, appErrors.WithDetails(err, map[string]interface{}{
			"missing":   missing,
			"available": available,
		})
	}

	valid := make([]models.RosterRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if rowComplete(row, required) {
			valid = append(valid, row)
		} else {
			skipped++
		}
	}
	if len(valid) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyRoster, "")
	}

	return &Validation{Groups: partition(valid, mode), Skipped: skipped}, nil
}

func missingColumns(first models.RosterRow, required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := first[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

func availableColumns(first models.RosterRow) []string {
	available := make([]string, 0, len(first))
	for field := range first {
		available = append(available, field)
	}
	return available
}

func rowComplete(row models.RosterRow, required []string) bool {
	for _, field := range required {
		if strings.TrimSpace(row.Get(field)) == "" {
			return false
		}
	}
	return true
}

// partition groups rows by section in first-seen order for multi-section
// uploads; single-class uploads form exactly one group whose name the
// operator supplies separately.
func partition(rows []models.RosterRow, mode models.IngestMode) []models.RosterGroup {
	if mode == models.ModeSingleClass {
		return []models.RosterGroup{{Rows: rows}}
	}

	index := make(map[string]int)
	var groups []models.RosterGroup
	for _, row := range rows {
		section := strings.TrimSpace(row.Get(models.FieldSection))
		pos, ok := index[section]
		if !ok {
			pos = len(groups)
			index[section] = pos
			groups = append(groups, models.RosterGroup{Key: section})
		}
		groups[pos].Rows = append(groups[pos].Rows, row)
	}
	return groups
}
