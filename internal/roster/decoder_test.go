package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

func TestDecodeRejectsUnsupportedExtension(t *testing.T) {
	_, err := Decode([]byte("Student No.,Name\n1,Ana"), ".pdf")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("Student No.,Name,Email Address\n2021-001,\"Reyes, Ana\",ana@example.com\n2021-002,\"Cruz, Ben\",ben@example.com\n")

	rows, err := Decode(data, ".csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2021-001", rows[0]["Student No."])
	assert.Equal(t, "Reyes, Ana", rows[0]["Name"])
	assert.Equal(t, "ben@example.com", rows[1]["Email Address"])
}

func TestDecodeCSVSkipsBannerRowsAboveHeader(t *testing.T) {
	data := []byte("Quizzard University,,\nOfficial Class List,,\n,,\nStudent No.,Name,Section\n2021-001,Ana,A\n")

	rows, err := Decode(data, "csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["Name"])
	// Banner text must not leak in as data.
	_, ok := rows[0]["Quizzard University"]
	assert.False(t, ok)
}

func TestDecodeCSVSkipsBlankRows(t *testing.T) {
	data := []byte("Student No.,Name\n2021-001,Ana\n,\n2021-002,Ben\n")

	rows, err := Decode(data, "csv")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDecodeCSVPadsShortRecords(t *testing.T) {
	data := []byte("Student No.,Name,Email Address\n2021-001,Ana\n")

	rows, err := Decode(data, "csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Email Address"])
}

func TestDecodeWithoutHeaderRowFails(t *testing.T) {
	data := []byte("just,some,cells\nwithout,a,header\n")

	_, err := Decode(data, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedInput.Code, appErrors.FromError(err).Code)
}

func TestDecodeHeaderAcceptsFirstLastPair(t *testing.T) {
	data := []byte("First Name,Last Name,Section\nAna,Reyes,A\n")

	rows, err := Decode(data, "csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["First Name"])
}

func TestDecodeXLSX(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	require.NoError(t, file.SetSheetRow(sheet, "A1", &[]interface{}{"Class List"}))
	require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{"Student No.", "Name"}))
	require.NoError(t, file.SetSheetRow(sheet, "A3", &[]interface{}{"2021-001", "Reyes, Ana"}))

	buf, err := file.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Decode(buf.Bytes(), ".xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Reyes, Ana", rows[0]["Name"])
}

func TestDecodeXLSXGarbageFails(t *testing.T) {
	_, err := Decode([]byte("not a zip archive"), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedInput.Code, appErrors.FromError(err).Code)
}
