package roster

import (
	"strings"

	"github.com/quizzard-app/roster-api/internal/models"
)

// synonyms maps every accepted spelling of a column label (lower-cased,
// inner whitespace collapsed) onto its canonical field name. Real rosters
// arrive with all of these; the table grows, it never shrinks, because
// removing an entry breaks files that used to upload.
var synonyms = map[string]string{
	"no":  models.FieldSeqNo,
	"no.": models.FieldSeqNo,

	"student no.":    models.FieldStudentNo,
	"student no":     models.FieldStudentNo,
	"student number": models.FieldStudentNo,

	"name":         models.FieldName,
	"student name": models.FieldName,
	"full name":    models.FieldName,

	"first name": models.FieldFirstName,
	"firstname":  models.FieldFirstName,
	"given name": models.FieldFirstName,

	"last name":   models.FieldLastName,
	"lastname":    models.FieldLastName,
	"surname":     models.FieldLastName,
	"family name": models.FieldLastName,

	"middle name": models.FieldMiddleName,
	"middlename":  models.FieldMiddleName,
	"m.i.":        models.FieldMiddleName,
	"mi":          models.FieldMiddleName,

	"gender": models.FieldGender,
	"sex":    models.FieldGender,

	"program": models.FieldProgram,
	"course":  models.FieldProgram,

	"year":       models.FieldYear,
	"year level": models.FieldYear,
	"level":      models.FieldYear,

	"email address": models.FieldEmailAddress,
	"email":         models.FieldEmailAddress,
	"e-mail":        models.FieldEmailAddress,

	"contact no.":    models.FieldContactNo,
	"contact no":     models.FieldContactNo,
	"contact number": models.FieldContactNo,
	"mobile no.":     models.FieldContactNo,
	"mobile number":  models.FieldContactNo,

	"section":       models.FieldSection,
	"class section": models.FieldSection,
	"block":         models.FieldSection,
}

// CanonicalLabel resolves a raw column label to its canonical field name.
// Unmatched labels pass through trimmed so unexpected columns stay visible
// for diagnostics. Total: never fails.
func CanonicalLabel(raw string) string {
	trimmed := strings.Join(strings.Fields(raw), " ")
	if canonical, ok := synonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Normalize rewrites every row's labels onto canonical field names and trims
// cell values.
func Normalize(rows []RawRow) []models.RosterRow {
	normalized := make([]models.RosterRow, 0, len(rows))
	for _, row := range rows {
		out := make(models.RosterRow, len(row))
		for label, value := range row {
			out[CanonicalLabel(label)] = strings.TrimSpace(value)
		}
		normalized = append(normalized, out)
	}
	return normalized
}
