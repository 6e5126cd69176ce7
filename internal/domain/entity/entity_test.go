package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestInvoice_Recompute(t *testing.T) {
	inv := &Invoice{
		Snapshot:            datatypes.NewJSONType(pricing.DocumentTotals{TotalChargePreTax: 100}),
		TaxRatePercent:      8,
		DiscountType:        pricing.DiscountPercent,
		DiscountValue:       10,
		TaxOnDiscountedBase: true,
	}

	totals := inv.Recompute()

	assert.InDelta(t, 97.2, totals.Total, 0.0001)
	assert.InDelta(t, 100, inv.PreTax, 0.0001)
	assert.InDelta(t, 10, inv.Discount, 0.0001)
	assert.InDelta(t, 90, inv.Taxable, 0.0001)
	assert.InDelta(t, 7.2, inv.Tax, 0.0001)
	assert.InDelta(t, 97.2, inv.TotalDue, 0.0001)
}

func TestInvoice_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	inv := &Invoice{Status: enum.InvoiceStatusUnpaid, DueDate: &past}
	assert.True(t, inv.IsOverdue(now))

	inv.Status = enum.InvoiceStatusPaid
	assert.False(t, inv.IsOverdue(now))

	inv = &Invoice{Status: enum.InvoiceStatusUnpaid}
	assert.False(t, inv.IsOverdue(now))
}

func TestPurchaseOrder_RecalculateTotals(t *testing.T) {
	po := &PurchaseOrder{
		TaxRatePercent: 7.5,
		Items: []PurchaseOrderItem{
			{Quantity: 3, UnitCost: 12.35},
			{Quantity: 1.5, UnitCost: 4},
		},
	}

	po.RecalculateTotals()

	assert.InDelta(t, 37.05, po.Items[0].LineTotal, 0.0001)
	assert.InDelta(t, 6, po.Items[1].LineTotal, 0.0001)
	assert.InDelta(t, 43.05, po.Subtotal, 0.0001)
	assert.InDelta(t, 3.23, po.Tax, 0.0001)
	assert.InDelta(t, 46.28, po.Total, 0.0001)
}

func TestMaterial_IsLowStock(t *testing.T) {
	assert.True(t, (&Material{QuantityOnHand: 2, ReorderLevel: 2}).IsLowStock())
	assert.False(t, (&Material{QuantityOnHand: 3, ReorderLevel: 2}).IsLowStock())
	assert.False(t, (&Material{QuantityOnHand: 0, ReorderLevel: 0}).IsLowStock())
}

func TestEquipment_RateTable(t *testing.T) {
	eq := &Equipment{
		Category:     pricing.CategoryUVPrinter,
		InkRates:     datatypes.NewJSONType(pricing.InkSet{C: 0.5, White: 0.3}),
		UseSoftWhite: true,
	}

	rt := eq.RateTable()

	assert.True(t, eq.UsesInk())
	assert.Equal(t, pricing.CategoryUVPrinter, rt.Category)
	assert.Equal(t, pricing.Number(0.5), rt.Rates.C)
	assert.True(t, rt.UseSoftWhite)
}

func TestShopSettings_Prefix(t *testing.T) {
	s := DefaultShopSettings(uuid.New())

	assert.Equal(t, "Q-", s.Prefix(DocumentKindQuote))
	assert.Equal(t, "INV-", s.Prefix(DocumentKindInvoice))
	assert.Equal(t, "PO-", s.Prefix(DocumentKindPurchaseOrder))
	assert.Equal(t, "INV-00042", FormatDocumentNumber(s.InvoicePrefix, 42))
}

func TestCustomer_DisplayName(t *testing.T) {
	company := "Acme Signs"
	assert.Equal(t, "Acme Signs", (&Customer{Name: "Jo", Company: &company}).DisplayName())
	assert.Equal(t, "Jo", (&Customer{Name: "Jo"}).DisplayName())
}
