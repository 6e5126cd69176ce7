package pricing

import "math"

// DiscountType is how an invoice discount value is interpreted
type DiscountType string

const (
	DiscountFlat    DiscountType = "flat"
	DiscountPercent DiscountType = "percent"
)

// Valid reports whether the discount type is known
func (d DiscountType) Valid() bool {
	return d == DiscountFlat || d == DiscountPercent
}

// InvoiceInput is an invoice's frozen pre-tax charge plus its adjustments.
// TaxOnDiscountedBase is exposed as apply_tax_to_discount: when true, tax is
// charged on the amount left after the discount.
type InvoiceInput struct {
	PreTax              Number       `json:"pre_tax"`
	TaxRatePercent      Number       `json:"tax_rate_percent"`
	DiscountType        DiscountType `json:"discount_type"`
	DiscountValue       Number       `json:"discount_value"`
	TaxOnDiscountedBase bool         `json:"apply_tax_to_discount"`
	Deposit             Number       `json:"deposit"`
}

// InvoiceTotals is the payable breakdown of an invoice
type InvoiceTotals struct {
	PreTax   float64 `json:"pre_tax"`
	Discount float64 `json:"discount"`
	Taxable  float64 `json:"taxable"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	TotalDue float64 `json:"total_due"`
}

// ComputeInvoiceTotals applies discount, tax and deposit to an invoice snapshot.
// The discounted base is floored at 0 in both tax modes; TotalDue is not
// floored and goes negative when the deposit exceeds the total.
func ComputeInvoiceTotals(in InvoiceInput) InvoiceTotals {
	preTax := Round2(in.PreTax.Float())

	var discount float64
	if in.DiscountType == DiscountPercent {
		discount = Round2(preTax * in.DiscountValue.Float() / 100)
	} else {
		discount = Round2(in.DiscountValue.Float())
	}

	rate := in.TaxRatePercent.Float()
	// The floor sits on the discounted base, not on the final total, so an
	// oversized discount still leaves the tax payable when tax is on pre-tax.
	discounted := Round2(math.Max(0, preTax-discount))

	out := InvoiceTotals{PreTax: preTax, Discount: discount}
	if in.TaxOnDiscountedBase {
		out.Taxable = discounted
	} else {
		out.Taxable = preTax
	}
	out.Tax = Round2(out.Taxable * rate / 100)
	out.Total = Round2(discounted + out.Tax)
	out.TotalDue = Round2(out.Total - in.Deposit.Float())
	return out
}
