package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quizzard-app/roster-api/internal/models"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

// RawRow is one decoded sheet row keyed by the raw header label, before
// synonym resolution.
type RawRow map[string]string

// Decode turns uploaded file bytes into raw rows. Pure function of the
// input: no side effects. Sheets with leading banner rows are handled by
// scanning for the first row that looks like a roster header; everything
// above it is discarded.
func Decode(data []byte, ext string) ([]RawRow, error) {
	switch normalizeExt(ext) {
	case "csv":
		return decodeCSV(data)
	case "xlsx", "xls":
		return decodeXLSX(data)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported file format %q, upload csv or xlsx", ext))
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func decodeCSV(data []byte) ([]RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, "failed to parse csv file")
	}
	return rowsFromRecords(records)
}

func decodeXLSX(data []byte) ([]RawRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, "failed to open excel file")
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, appErrors.Clone(appErrors.ErrMalformedInput, "excel file does not contain any sheets")
	}

	records, err := file.GetRows(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, "failed to read excel rows")
	}
	return rowsFromRecords(records)
}

func rowsFromRecords(records [][]string) ([]RawRow, error) {
	headerIdx := findHeaderRow(records)
	if headerIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrMalformedInput, "could not find a header row with student number and name columns")
	}

	header := records[headerIdx]
	rows := make([]RawRow, 0, len(records)-headerIdx-1)
	for _, record := range records[headerIdx+1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(RawRow, len(header))
		for i, label := range header {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row[label] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// findHeaderRow returns the index of the first row that looks like a roster
// header: it names a student-number column, or both a sequence-number and a
// name column, or a first/last name pair.
func findHeaderRow(records [][]string) int {
	for i, record := range records {
		var hasStudentNo, hasSeqNo, hasName, hasFirst, hasLast bool
		for _, cell := range record {
			switch CanonicalLabel(cell) {
			case models.FieldStudentNo:
				hasStudentNo = true
			case models.FieldSeqNo:
				hasSeqNo = true
			case models.FieldName:
				hasName = true
			case models.FieldFirstName:
				hasFirst = true
			case models.FieldLastName:
				hasLast = true
			}
		}
		if hasStudentNo || (hasSeqNo && hasName) || (hasFirst && hasLast) {
			return i
		}
	}
	return -1
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
