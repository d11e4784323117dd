package models

// Canonical roster column names after synonym resolution. The required sets
// below are a versioned compatibility contract for existing uploaders;
// changing them breaks previously accepted files.
const (
	FieldSeqNo        = "No"
	FieldStudentNo    = "Student No."
	FieldName         = "Name"
	FieldFirstName    = "First Name"
	FieldLastName     = "Last Name"
	FieldMiddleName   = "Middle Name"
	FieldGender       = "Gender"
	FieldProgram      = "Program"
	FieldYear         = "Year"
	FieldEmailAddress = "Email Address"
	FieldContactNo    = "Contact No."
	FieldSection      = "Section"
)

// IngestMode selects the roster shape of an upload.
type IngestMode string

const (
	// ModeSingleClass ingests the whole sheet as one class whose name the
	// operator supplies.
	ModeSingleClass IngestMode = "single"
	// ModeMultiSection partitions rows into one class per distinct Section
	// value.
	ModeMultiSection IngestMode = "multi"
)

// Valid reports whether the mode is one of the supported shapes.
func (m IngestMode) Valid() bool {
	return m == ModeSingleClass || m == ModeMultiSection
}

// RequiredFields returns the canonical columns an upload must contain for
// the mode.
func (m IngestMode) RequiredFields() []string {
	if m == ModeMultiSection {
		return []string{FieldStudentNo, FieldFirstName, FieldLastName, FieldSection}
	}
	return []string{FieldStudentNo, FieldName}
}

// RosterRow is one normalized spreadsheet row: canonical field name (or the
// trimmed raw label when no synonym matched) to trimmed cell text. Rows are
// ephemeral; they exist only between decoding and registration.
type RosterRow map[string]string

// Get returns the trimmed value for a canonical field, "" when absent.
func (r RosterRow) Get(field string) string {
	return r[field]
}

// RosterGroup is one partition of validated rows destined to become a single
// class.
type RosterGroup struct {
	Key  string
	Rows []RosterRow
}
