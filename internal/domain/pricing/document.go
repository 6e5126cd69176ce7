// Package pricing computes cost and charge totals for quotes, jobs and invoices.
//
// Everything in this package is pure: reference data (equipment rate tables,
// material prices) is passed in by the caller and nothing is read from or
// written to a store. All functions are safe for concurrent use.
package pricing

import "strings"

// Equipment categories that are priced by ink consumption
const (
	CategoryUVPrinter          = "UV Printer"
	CategorySublimationPrinter = "Sublimation Printer"
)

// Mode selects how a non-ink equipment line is charged
type Mode string

const (
	ModeHourly Mode = "hourly"
	ModeFlat   Mode = "flat"
	ModeInk    Mode = "ink"
)

// IsInkCategory reports whether equipment of this category is priced by ink usage
func IsInkCategory(category string) bool {
	c := strings.TrimSpace(category)
	return strings.EqualFold(c, CategoryUVPrinter) || strings.EqualFold(c, CategorySublimationPrinter)
}

// InkSet holds one value per ink channel. It is used both for per-channel
// rates on equipment and for per-channel consumption on a line.
type InkSet struct {
	C         Number `json:"c"`
	M         Number `json:"m"`
	Y         Number `json:"y"`
	K         Number `json:"k"`
	White     Number `json:"white"`
	SoftWhite Number `json:"soft_white"`
	Gloss     Number `json:"gloss"`
}

// RateTable is the pricing view of a piece of equipment
type RateTable struct {
	Category     string `json:"category"`
	Rates        InkSet `json:"rates"`
	UseSoftWhite bool   `json:"use_soft_white"`
}

// MaterialPrice is the current reference price of a material
type MaterialPrice struct {
	PurchasePrice Number `json:"purchase_price"`
	SellingPrice  Number `json:"selling_price"`
}

// EquipmentLine is equipment usage on a quote or job.
// UseSoftWhite overrides the equipment default when set. Both White and
// SoftWhite usage are kept on the line so toggling the variant is lossless.
type EquipmentLine struct {
	EquipmentID  string  `json:"equipment_id"`
	Name         string  `json:"name,omitempty"`
	Category     string  `json:"category,omitempty"`
	Mode         Mode    `json:"mode"`
	Hours        Number  `json:"hours"`
	Rate         *Number `json:"rate,omitempty"`
	FlatFee      *Number `json:"flat_fee,omitempty"`
	Inks         InkSet  `json:"inks"`
	UseSoftWhite *bool   `json:"use_soft_white,omitempty"`
}

// MaterialLine is a quantity of a material on a quote or job
type MaterialLine struct {
	MaterialID string `json:"material_id"`
	Name       string `json:"name,omitempty"`
	Quantity   Number `json:"quantity"`
}

// LaborLine is billable labor time
type LaborLine struct {
	Description string `json:"description"`
	Hours       Number `json:"hours"`
	Rate        Number `json:"rate"`
}

// AddOnLine is an add-on sold with a document
type AddOnLine struct {
	AddOnID   string  `json:"addon_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  Number  `json:"quantity"`
	UnitPrice *Number `json:"unit_price,omitempty"`
}

// LineItems is the serialized item list of a quote, job or invoice snapshot
type LineItems struct {
	Equipment []EquipmentLine `json:"equipment"`
	Materials []MaterialLine  `json:"materials"`
	Labor     []LaborLine     `json:"labor"`
	AddOns    []AddOnLine     `json:"addons"`
}

// DocumentTotals is the cost and charge breakdown of a quote or job.
// TaxPct and Tax are always 0 here; tax is applied at invoice time.
type DocumentTotals struct {
	InkCost           float64 `json:"ink_cost"`
	InkCharge         float64 `json:"ink_charge"`
	MatCost           float64 `json:"mat_cost"`
	MatCharge         float64 `json:"mat_charge"`
	EqCharge          float64 `json:"eq_charge"`
	LaborCharge       float64 `json:"labor_charge"`
	AddonCharge       float64 `json:"addon_charge"`
	TotalChargePreTax float64 `json:"total_charge_pre_tax"`
	TotalCost         float64 `json:"total_cost"`
	Profit            float64 `json:"profit"`
	ProfitPct         float64 `json:"profit_pct"`
	TaxPct            float64 `json:"tax_pct"`
	Tax               float64 `json:"tax"`
}

// ComputeDocumentTotals prices a document's lines against the supplied reference data.
// Lines whose equipment or material is missing from the maps contribute nothing.
// The margin multiplies ink cost only.
func ComputeDocumentTotals(rates map[string]RateTable, prices map[string]MaterialPrice, lines LineItems, marginPercent Number) DocumentTotals {
	var inkCost, eqCharge float64
	for _, line := range lines.Equipment {
		table, ok := rates[line.EquipmentID]
		if !ok {
			continue
		}
		category := table.Category
		if category == "" {
			category = line.Category
		}
		if IsInkCategory(category) {
			inkCost += lineInkCost(line, table)
			continue
		}
		if line.Mode == ModeHourly {
			eqCharge += line.Hours.Float() * line.Rate.Value()
		} else {
			eqCharge += line.FlatFee.Value()
		}
	}

	var matCost, matCharge float64
	for _, line := range lines.Materials {
		price, ok := prices[line.MaterialID]
		if !ok {
			continue
		}
		qty := line.Quantity.Float()
		matCost += qty * price.PurchasePrice.Float()
		matCharge += qty * price.SellingPrice.Float()
	}

	var laborCharge float64
	for _, line := range lines.Labor {
		laborCharge += line.Hours.Float() * line.Rate.Float()
	}

	var addonCharge float64
	for _, line := range lines.AddOns {
		addonCharge += line.Quantity.Float() * line.UnitPrice.Value()
	}

	t := DocumentTotals{
		InkCost:     Round2(inkCost),
		InkCharge:   Round2(inkCost * (1 + marginPercent.Float()/100)),
		MatCost:     Round2(matCost),
		MatCharge:   Round2(matCharge),
		EqCharge:    Round2(eqCharge),
		LaborCharge: Round2(laborCharge),
		AddonCharge: Round2(addonCharge),
	}
	t.TotalChargePreTax = Round2(t.InkCharge + t.MatCharge + t.EqCharge + t.LaborCharge + t.AddonCharge)
	t.TotalCost = Round2(t.InkCost + t.MatCost)
	t.Profit = Round2(t.TotalChargePreTax - t.TotalCost)
	if t.TotalCost != 0 {
		t.ProfitPct = Round2(t.Profit / t.TotalCost * 100)
	}
	return t
}

// lineInkCost sums usage × rate over the process channels and gloss plus
// exactly one white variant
func lineInkCost(line EquipmentLine, table RateTable) float64 {
	use, rate := line.Inks, table.Rates
	cost := use.C.Float()*rate.C.Float() +
		use.M.Float()*rate.M.Float() +
		use.Y.Float()*rate.Y.Float() +
		use.K.Float()*rate.K.Float() +
		use.Gloss.Float()*rate.Gloss.Float()

	softWhite := table.UseSoftWhite
	if line.UseSoftWhite != nil {
		softWhite = *line.UseSoftWhite
	}
	if softWhite {
		cost += use.SoftWhite.Float() * rate.SoftWhite.Float()
	} else {
		cost += use.White.Float() * rate.White.Float()
	}
	return cost
}
