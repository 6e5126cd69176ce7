package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func uvRates() map[string]RateTable {
	return map[string]RateTable{
		"uv-1": {
			Category: CategoryUVPrinter,
			Rates:    InkSet{C: 0.5, M: 0.4, White: 0.3, SoftWhite: 0.6, Gloss: 0.2},
		},
		"laser-1": {Category: "Laser Cutter"},
	}
}

func TestComputeDocumentTotals_InkWithMargin(t *testing.T) {
	lines := LineItems{
		Equipment: []EquipmentLine{{
			EquipmentID:  "uv-1",
			Mode:         ModeInk,
			Inks:         InkSet{C: 10, M: 5, Y: 0, K: 0, White: 8},
			UseSoftWhite: boolPtr(false),
		}},
	}

	got := ComputeDocumentTotals(uvRates(), nil, lines, 50)

	assert.InDelta(t, 9.4, got.InkCost, 0.001)
	assert.InDelta(t, 14.1, got.InkCharge, 0.001)
	assert.InDelta(t, 14.1, got.TotalChargePreTax, 0.001)
	assert.InDelta(t, 9.4, got.TotalCost, 0.001)
	assert.InDelta(t, 4.7, got.Profit, 0.001)
	assert.InDelta(t, 50.0, got.ProfitPct, 0.001)
}

func TestComputeDocumentTotals_WhiteSoftWhiteExclusive(t *testing.T) {
	rates := map[string]RateTable{
		"uv": {Category: CategoryUVPrinter, Rates: InkSet{White: 2, SoftWhite: 3}},
	}
	line := EquipmentLine{
		EquipmentID: "uv",
		Mode:        ModeInk,
		Inks:        InkSet{White: 10, SoftWhite: 5},
	}

	tests := []struct {
		name         string
		lineFlag     *bool
		equipDefault bool
		want         float64
	}{
		{"line selects white", boolPtr(false), true, 20},
		{"line selects soft white", boolPtr(true), false, 15},
		{"falls back to equipment white", nil, false, 20},
		{"falls back to equipment soft white", nil, true, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rates["uv"]
			r.UseSoftWhite = tt.equipDefault
			l := line
			l.UseSoftWhite = tt.lineFlag

			got := ComputeDocumentTotals(map[string]RateTable{"uv": r}, nil, LineItems{Equipment: []EquipmentLine{l}}, 0)
			assert.InDelta(t, tt.want, got.InkCost, 0.001)
		})
	}
}

func TestComputeDocumentTotals_SublimationIsInkPriced(t *testing.T) {
	rates := map[string]RateTable{
		"sub": {Category: "sublimation printer", Rates: InkSet{K: 1}},
	}
	lines := LineItems{Equipment: []EquipmentLine{{EquipmentID: "sub", Mode: ModeHourly, Hours: 3, Rate: NumberOf(40), Inks: InkSet{K: 2}}}}

	got := ComputeDocumentTotals(rates, nil, lines, 0)

	assert.InDelta(t, 2.0, got.InkCost, 0.001)
	assert.Zero(t, got.EqCharge)
}

func TestComputeDocumentTotals_EquipmentModes(t *testing.T) {
	lines := LineItems{Equipment: []EquipmentLine{
		{EquipmentID: "laser-1", Mode: ModeHourly, Hours: 2.5, Rate: NumberOf(40)},
		{EquipmentID: "laser-1", Mode: ModeFlat, FlatFee: NumberOf(25), Hours: 100, Rate: NumberOf(100)},
	}}

	got := ComputeDocumentTotals(uvRates(), nil, lines, 200)

	assert.InDelta(t, 125.0, got.EqCharge, 0.001)
	assert.Zero(t, got.InkCharge)
	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.ProfitPct)
	assert.InDelta(t, 125.0, got.Profit, 0.001)
}

func TestComputeDocumentTotals_ZeroUsageInkLine(t *testing.T) {
	lines := LineItems{Equipment: []EquipmentLine{{EquipmentID: "uv-1", Mode: ModeInk}}}

	got := ComputeDocumentTotals(uvRates(), nil, lines, 75)

	assert.Zero(t, got.InkCost)
	assert.Zero(t, got.InkCharge)
	assert.Len(t, lines.Equipment, 1)
}

func TestComputeDocumentTotals_MissingReferencesContributeNothing(t *testing.T) {
	prices := map[string]MaterialPrice{"vinyl": {PurchasePrice: 2, SellingPrice: 5}}
	lines := LineItems{
		Equipment: []EquipmentLine{{EquipmentID: "gone", Mode: ModeFlat, FlatFee: NumberOf(99)}},
		Materials: []MaterialLine{
			{MaterialID: "vinyl", Quantity: 3},
			{MaterialID: "deleted", Quantity: 10},
		},
	}

	got := ComputeDocumentTotals(uvRates(), prices, lines, 0)

	assert.Zero(t, got.EqCharge)
	assert.InDelta(t, 6.0, got.MatCost, 0.001)
	assert.InDelta(t, 15.0, got.MatCharge, 0.001)
	assert.InDelta(t, 9.0, got.Profit, 0.001)
	assert.InDelta(t, 150.0, got.ProfitPct, 0.001)
}

func TestComputeDocumentTotals_MarginIsolation(t *testing.T) {
	prices := map[string]MaterialPrice{"acrylic": {PurchasePrice: 12.5, SellingPrice: 30}}
	lines := LineItems{
		Equipment: []EquipmentLine{{EquipmentID: "laser-1", Mode: ModeHourly, Hours: 1.5, Rate: NumberOf(60)}},
		Materials: []MaterialLine{{MaterialID: "acrylic", Quantity: 2}},
		Labor:     []LaborLine{{Description: "Assembly", Hours: 2, Rate: 35}},
		AddOns:    []AddOnLine{{AddOnID: "rush", Quantity: 1, UnitPrice: NumberOf(20)}},
	}

	base := ComputeDocumentTotals(uvRates(), prices, lines, 0)
	for _, margin := range []Number{10, 50, 300, -20} {
		got := ComputeDocumentTotals(uvRates(), prices, lines, margin)
		assert.Zero(t, got.InkCharge)
		assert.Equal(t, base.MatCharge, got.MatCharge)
		assert.Equal(t, base.EqCharge, got.EqCharge)
		assert.Equal(t, base.LaborCharge, got.LaborCharge)
		assert.Equal(t, base.AddonCharge, got.AddonCharge)
		assert.Equal(t, base.TotalChargePreTax, got.TotalChargePreTax)
	}
}

func TestComputeDocumentTotals_Invariants(t *testing.T) {
	prices := map[string]MaterialPrice{
		"a": {PurchasePrice: 1.333, SellingPrice: 2.667},
		"b": {PurchasePrice: 0.105, SellingPrice: 0.215},
	}
	docs := []LineItems{
		{},
		{
			Equipment: []EquipmentLine{
				{EquipmentID: "uv-1", Inks: InkSet{C: 3.33, M: 1.11, Gloss: 7.77, SoftWhite: 2}, UseSoftWhite: boolPtr(true)},
				{EquipmentID: "laser-1", Mode: ModeHourly, Hours: 0.333, Rate: NumberOf(47.5)},
			},
			Materials: []MaterialLine{{MaterialID: "a", Quantity: 7}, {MaterialID: "b", Quantity: 13}},
			Labor:     []LaborLine{{Hours: 1.25, Rate: 33.33}},
			AddOns:    []AddOnLine{{Quantity: 3, UnitPrice: NumberOf(4.995)}},
		},
	}

	for _, lines := range docs {
		for _, margin := range []Number{0, 12.5, 40} {
			got := ComputeDocumentTotals(uvRates(), prices, lines, margin)
			sum := got.InkCharge + got.MatCharge + got.EqCharge + got.LaborCharge + got.AddonCharge
			assert.InDelta(t, sum, got.TotalChargePreTax, 0.01)
			assert.InDelta(t, got.TotalChargePreTax-got.TotalCost, got.Profit, 0.01)
			assert.InDelta(t, got.InkCost+got.MatCost, got.TotalCost, 0.01)
			assert.Zero(t, got.Tax)
			assert.Zero(t, got.TaxPct)
		}
	}
}

func TestLineItems_DecodeMalformedNumbers(t *testing.T) {
	raw := `{
		"equipment": [{"equipment_id": "uv-1", "mode": "ink", "inks": {"c": "10", "m": null, "white": "abc", "k": true}}],
		"materials": [{"material_id": "m1", "quantity": "2.5"}],
		"labor": [{"description": "setup", "hours": "", "rate": 30}],
		"addons": [{"addon_id": "x", "quantity": {}, "unit_price": 5}]
	}`

	var lines LineItems
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))

	assert.Equal(t, Number(10), lines.Equipment[0].Inks.C)
	assert.Zero(t, lines.Equipment[0].Inks.M)
	assert.Zero(t, lines.Equipment[0].Inks.White)
	assert.Zero(t, lines.Equipment[0].Inks.K)
	assert.Equal(t, Number(2.5), lines.Materials[0].Quantity)
	assert.Zero(t, lines.Labor[0].Hours)
	assert.Zero(t, lines.AddOns[0].Quantity)
	assert.Equal(t, 5.0, lines.AddOns[0].UnitPrice.Value())
	assert.Nil(t, lines.Equipment[0].Rate)

	got := ComputeDocumentTotals(uvRates(), nil, lines, 0)
	assert.InDelta(t, 5.0, got.InkCost, 0.001)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 14.1, Round2(9.4*1.5))
	assert.Equal(t, 2.35, Round2(2.3456))
	assert.Equal(t, -1.25, Round2(-1.2468))
	assert.Equal(t, 0.0, Round2(-0.001))
}

func TestEquipmentLine_RatePresence(t *testing.T) {
	var set, absent EquipmentLine
	require.NoError(t, json.Unmarshal([]byte(`{"equipment_id": "laser-1", "mode": "hourly", "hours": 2, "rate": 0}`), &set))
	require.NoError(t, json.Unmarshal([]byte(`{"equipment_id": "laser-1", "mode": "hourly", "hours": 2, "rate": null}`), &absent))

	require.NotNil(t, set.Rate)
	assert.Zero(t, set.Rate.Value())
	assert.Nil(t, absent.Rate)
	assert.Zero(t, absent.Rate.Value())

	out, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"rate":0`)

	out, err = json.Marshal(absent)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"rate"`)

	got := ComputeDocumentTotals(uvRates(), nil, LineItems{Equipment: []EquipmentLine{set}}, 0)
	assert.Zero(t, got.EqCharge)
}
