package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/pkg/pdf"
)

// chargeGroup is one printed section of a document: a charge category with
// the lines that make it up. Amounts come from the stored totals so printed
// figures always match the document exactly.
type chargeGroup struct {
	Label  string
	Detail string
	Amount float64
}

func chargeGroups(items pricing.LineItems, totals pricing.DocumentTotals) []chargeGroup {
	var ink, equipment []string
	for _, l := range items.Equipment {
		name := l.Name
		if name == "" {
			name = "Equipment"
		}
		switch {
		case l.Mode == pricing.ModeInk || pricing.IsInkCategory(l.Category):
			ink = append(ink, name)
		case l.Mode == pricing.ModeHourly:
			equipment = append(equipment, fmt.Sprintf("%s %gh", name, l.Hours.Float()))
		default:
			equipment = append(equipment, name+" (flat)")
		}
	}

	materials := make([]string, 0, len(items.Materials))
	for _, l := range items.Materials {
		materials = append(materials, fmt.Sprintf("%s x%g", nameOr(l.Name, "Material"), l.Quantity.Float()))
	}

	labor := make([]string, 0, len(items.Labor))
	for _, l := range items.Labor {
		labor = append(labor, fmt.Sprintf("%s %gh", nameOr(l.Description, "Labor"), l.Hours.Float()))
	}

	addOns := make([]string, 0, len(items.AddOns))
	for _, l := range items.AddOns {
		addOns = append(addOns, fmt.Sprintf("%s x%g", nameOr(l.Name, "Add-on"), l.Quantity.Float()))
	}

	all := []chargeGroup{
		{Label: "Printing (ink)", Detail: strings.Join(ink, ", "), Amount: totals.InkCharge},
		{Label: "Materials", Detail: strings.Join(materials, ", "), Amount: totals.MatCharge},
		{Label: "Equipment", Detail: strings.Join(equipment, ", "), Amount: totals.EqCharge},
		{Label: "Labor", Detail: strings.Join(labor, ", "), Amount: totals.LaborCharge},
		{Label: "Add-ons", Detail: strings.Join(addOns, ", "), Amount: totals.AddonCharge},
	}

	groups := make([]chargeGroup, 0, len(all))
	for _, g := range all {
		if g.Detail != "" || g.Amount != 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

func nameOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func shopParty(s *entity.ShopSettings) pdf.Party {
	return pdf.Party{
		Name:    nameOr(s.BusinessName, "Shop"),
		Address: s.Address,
		Email:   s.Email,
		Phone:   s.Phone,
		TaxID:   s.TaxID,
	}
}

func customerParty(c *entity.Customer) pdf.Party {
	if c == nil {
		return pdf.Party{}
	}
	return pdf.Party{
		Name:    c.DisplayName(),
		Address: deref(c.Address),
		Email:   deref(c.Email),
		Phone:   deref(c.Phone),
		TaxID:   deref(c.TaxID),
	}
}

func pdfLines(groups []chargeGroup, currency string) []pdf.Line {
	lines := make([]pdf.Line, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, pdf.Line{Description: g.Label, Detail: g.Detail, Amount: money(currency, g.Amount)})
	}
	return lines
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// quoteDocument lays out a quote for PDF rendering
func quoteDocument(q *entity.Quote, s *entity.ShopSettings) pdf.Document {
	totals := q.Totals.Data()
	doc := pdf.Document{
		Title:  "QUOTE",
		Number: q.Number,
		Status: q.Status.String(),
		Fields: []pdf.Field{
			{Label: "Title", Value: q.Title},
			{Label: "Date", Value: q.CreatedAt.Format(dateLayout)},
		},
		From:   shopParty(s),
		BillTo: customerParty(q.Customer),
		Lines:  pdfLines(chargeGroups(q.Items.Data(), totals), s.Currency),
		Totals: []pdf.Total{
			{Label: "Total (before " + s.TaxLabel + ")", Value: money(s.Currency, totals.TotalChargePreTax), Bold: true},
		},
		Notes:  deref(q.Notes),
		Footer: s.InvoiceFooter,
	}
	if q.ValidUntil != nil {
		doc.Fields = append(doc.Fields, pdf.Field{Label: "Valid until", Value: formatDate(q.ValidUntil)})
	}
	return doc
}

// invoiceDocument lays out an invoice for PDF rendering from its stored figures
func invoiceDocument(inv *entity.Invoice, s *entity.ShopSettings) pdf.Document {
	cur := s.Currency
	doc := pdf.Document{
		Title:  "INVOICE",
		Number: inv.Number,
		Status: inv.Status.String(),
		Fields: []pdf.Field{
			{Label: "Issued", Value: inv.IssuedAt.Format(dateLayout)},
		},
		From:   shopParty(s),
		BillTo: customerParty(inv.Customer),
		Lines:  pdfLines(chargeGroups(inv.Items.Data(), inv.Snapshot.Data()), cur),
		Notes:  deref(inv.Notes),
		Footer: s.InvoiceFooter,
	}
	if inv.Job != nil {
		doc.Fields = append(doc.Fields, pdf.Field{Label: "Job", Value: inv.Job.Number})
	}
	if inv.DueDate != nil {
		doc.Fields = append(doc.Fields, pdf.Field{Label: "Due", Value: formatDate(inv.DueDate)})
	}

	doc.Totals = append(doc.Totals, pdf.Total{Label: "Subtotal", Value: money(cur, inv.PreTax)})
	if inv.Discount != 0 {
		label := "Discount"
		if inv.DiscountType == pricing.DiscountPercent {
			label = fmt.Sprintf("Discount (%g%%)", inv.DiscountValue)
		}
		doc.Totals = append(doc.Totals, pdf.Total{Label: label, Value: "-" + money(cur, inv.Discount)})
	}
	doc.Totals = append(doc.Totals,
		pdf.Total{Label: fmt.Sprintf("%s (%g%%)", s.TaxLabel, inv.TaxRatePercent), Value: money(cur, inv.Tax)},
		pdf.Total{Label: "Total", Value: money(cur, inv.Total), Bold: true},
	)
	if inv.Deposit != 0 {
		doc.Totals = append(doc.Totals, pdf.Total{Label: "Deposit", Value: "-" + money(cur, inv.Deposit)})
	}
	doc.Totals = append(doc.Totals, pdf.Total{Label: "Balance due", Value: money(cur, inv.TotalDue), Bold: true})
	return doc
}

// invoiceReceipt builds the counter receipt for an invoice
func invoiceReceipt(inv *entity.Invoice, s *entity.ShopSettings) *entity.Receipt {
	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: nameOr(s.BusinessName, "Shop"),
			Address:  s.Address,
			Phone:    s.Phone,
			Email:    s.Email,
		},
		InvoiceNumber: inv.Number,
		Date:          inv.IssuedAt.Format("2006-01-02 15:04"),
		PreTax:        inv.PreTax,
		Discount:      inv.Discount,
		TaxLabel:      s.TaxLabel,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Deposit:       inv.Deposit,
		TotalDue:      inv.TotalDue,
		Status:        inv.Status.String(),
		Footer:        s.InvoiceFooter,
	}
	if inv.Customer != nil {
		r.Customer = inv.Customer.DisplayName()
	}
	if inv.Job != nil {
		r.JobNumber = inv.Job.Number
	}
	for _, g := range chargeGroups(inv.Items.Data(), inv.Snapshot.Data()) {
		r.Lines = append(r.Lines, entity.ReceiptLine{Description: g.Label, Detail: g.Detail, Amount: g.Amount})
	}
	return r
}
