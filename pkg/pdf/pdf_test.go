package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := Document{
		Title:  "Invoice",
		Number: "INV-00001",
		Status: "UNPAID",
		Fields: []Field{{Label: "Issued", Value: "2026-10-01"}, {Label: "Due", Value: ""}},
		From:   Party{Name: "Acme Print", Address: "1 Main St", Email: "hi@acme.test"},
		BillTo: Party{Name: "Jane Doe", TaxID: "TX-1"},
		Lines: []Line{
			{Description: "Ink (UV Printer)", Detail: "c 10, m 5", Amount: "14.10"},
			{Description: "Acrylic 3mm", Detail: "2 x 4.50", Amount: "9.00"},
		},
		Totals: []Total{
			{Label: "Subtotal", Value: "23.10"},
			{Label: "Total due", Value: "23.10", Bold: true},
		},
		Notes:  "Pick up Friday",
		Footer: "Thank you for your business.",
	}

	out, err := Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPartyTexts_SkipsEmptyFields(t *testing.T) {
	assert.Len(t, partyTexts(Party{Name: "Acme", Email: "a@b.c"}, true), 2)
	assert.Len(t, partyTexts(Party{Name: "Acme", Email: "a@b.c"}, false), 1)
	assert.Empty(t, partyTexts(Party{}, true))
}
