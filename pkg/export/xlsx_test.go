package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf,
		Sheet{
			Name:    "Invoices",
			Columns: []Column{{Header: "Number"}, {Header: "Total", Money: true}},
			Rows:    [][]any{{"INV-00001", 97.2}, {"INV-00002", 73.0}},
		},
		Sheet{
			Name:    "Summary",
			Columns: []Column{{Header: "Count"}},
			Rows:    [][]any{{2}},
		},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoices", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Number", "Total"}, rows[0])
	assert.Equal(t, "INV-00001", rows[1][0])

	v, err := f.GetCellValue("Invoices", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "97.2", v)
}

func TestWriteXLSX_NoSheets(t *testing.T) {
	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}
