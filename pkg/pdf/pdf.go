// Package pdf renders quotes and invoices as PDF documents with maroto.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Party is the shop or the customer block on a document
type Party struct {
	Name    string
	Address string
	Email   string
	Phone   string
	TaxID   string
}

// Field is a labelled value in the document header
type Field struct {
	Label string
	Value string
}

// Line is one priced row
type Line struct {
	Description string
	Detail      string
	Amount      string
}

// Total is one row of the totals block
type Total struct {
	Label string
	Value string
	Bold  bool
}

// Document is everything printed on a quote or invoice. Figures arrive
// preformatted so the caller controls currency display.
type Document struct {
	Title  string
	Number string
	Status string
	Fields []Field
	From   Party
	BillTo Party
	Lines  []Line
	Totals []Total
	Notes  string
	Footer string
}

var (
	small      = props.Text{Size: 9}
	smallBold  = props.Text{Size: 9, Style: fontstyle.Bold}
	smallRight = props.Text{Size: 9, Align: align.Right}
	grey       = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// Render builds the PDF bytes for doc
func Render(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, doc.From.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, doc.Title, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right}),
	)

	header := col.New(6).Add(partyTexts(doc.From, false)...)
	meta := col.New(6)
	top := 0.0
	for _, f := range append([]Field{{Label: doc.Title + " number", Value: doc.Number}}, doc.Fields...) {
		if f.Value == "" {
			continue
		}
		meta.Add(text.New(f.Label+": "+f.Value, props.Text{Size: 9, Align: align.Right, Top: top}))
		top += 4.5
	}
	if doc.Status != "" {
		meta.Add(text.New(doc.Status, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: top + 1}))
	}
	m.AddRow(28, header, meta)

	m.AddRow(6, text.NewCol(12, "Bill to", smallBold))
	m.AddRow(22, col.New(12).Add(partyTexts(doc.BillTo, true)...))

	m.AddRow(8,
		text.NewCol(7, "Description", smallBold),
		text.NewCol(3, "Detail", smallBold),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, l := range doc.Lines {
		m.AddRow(7,
			text.NewCol(7, l.Description, small),
			text.NewCol(3, l.Detail, props.Text{Size: 8, Color: grey}),
			text.NewCol(2, l.Amount, smallRight),
		)
	}

	m.AddRow(3, line.NewCol(12))
	for _, t := range doc.Totals {
		label, value := small, smallRight
		if t.Bold {
			label = smallBold
			value = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
		}
		m.AddRow(6,
			col.New(7),
			text.NewCol(3, t.Label, label),
			text.NewCol(2, t.Value, value),
		)
	}

	if doc.Notes != "" {
		m.AddRow(6, col.New(12))
		m.AddRow(6, text.NewCol(12, "Notes", smallBold))
		m.AddRow(14, text.NewCol(12, doc.Notes, small))
	}
	if doc.Footer != "" {
		m.AddRow(12, text.NewCol(12, doc.Footer, props.Text{Size: 9, Align: align.Center, Top: 6, Color: grey}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate %s: %w", doc.Title, err)
	}
	return out.GetBytes(), nil
}

func partyTexts(p Party, withName bool) []core.Component {
	var parts []string
	if withName && p.Name != "" {
		parts = append(parts, p.Name)
	}
	for _, s := range []string{p.Address, p.Email, p.Phone} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if p.TaxID != "" {
		parts = append(parts, "Tax ID: "+p.TaxID)
	}

	out := make([]core.Component, 0, len(parts))
	for i, s := range parts {
		style := small
		if withName && i == 0 {
			style = smallBold
		}
		style.Top = float64(i) * 4.5
		out = append(out, text.New(s, style))
	}
	return out
}
