package service

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestQuote_CreateAndConvertToJob(t *testing.T) {
	e := newEnv(t)
	printer := e.uvPrinter(t)
	board := e.material(t, "Foam board", 3, 5, 10, 2)
	c := e.customer(t, "Alex", nil)

	margin := 20.0
	quote, err := e.quotes.CreateQuote(e.ctx, &CreateQuoteInput{
		CreatedByID:   e.userID,
		CustomerID:    c.ID,
		Title:         "Window decals",
		MarginPercent: &margin,
		Items: pricing.LineItems{
			Equipment: []pricing.EquipmentLine{{
				EquipmentID: printer.ID.String(),
				Inks:        pricing.InkSet{C: 10, M: 10, Y: 10, K: 10, White: 5},
			}},
			Materials: []pricing.MaterialLine{{MaterialID: board.ID.String(), Quantity: 2}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Q-00001", quote.Number)
	assert.Equal(t, enum.QuoteStatusOpen, quote.Status)

	totals := quote.Totals.Data()
	assert.Equal(t, 25.0, totals.InkCost)
	assert.Equal(t, 30.0, totals.InkCharge)
	assert.Equal(t, 10.0, totals.MatCharge)
	assert.Equal(t, 40.0, totals.TotalChargePreTax)
	assert.Equal(t, 31.0, totals.TotalCost)
	assert.Equal(t, 9.0, totals.Profit)

	items := quote.Items.Data()
	require.Len(t, items.Equipment, 1)
	assert.Equal(t, pricing.ModeInk, items.Equipment[0].Mode)
	assert.Equal(t, "Mimaki UJF", items.Equipment[0].Name)

	job, err := e.quotes.ConvertToJob(e.ctx, quote.ID, e.userID, nil)
	require.NoError(t, err)
	assert.Equal(t, "J-00001", job.Number)
	assert.Equal(t, enum.JobStatusActive, job.Status)
	require.NotNil(t, job.QuoteID)
	assert.Equal(t, quote.ID, *job.QuoteID)
	assert.Equal(t, 40.0, job.Totals.Data().TotalChargePreTax)

	reloaded, err := e.quotes.GetQuote(e.ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuoteStatusConverted, reloaded.Status)

	_, err = e.quotes.ConvertToJob(e.ctx, quote.ID, e.userID, nil)
	requireCode(t, err, http.StatusUnprocessableEntity)

	requireCode(t, e.quotes.DeleteQuote(e.ctx, quote.ID), http.StatusUnprocessableEntity)
}

func TestQuote_PreviewUsesDefaultMargin(t *testing.T) {
	e := newEnv(t)
	printer := e.uvPrinter(t)

	_, err := e.settings.UpdateSettings(e.ctx, &UpdateSettingsInput{DefaultMarginPercent: ptr(100.0)})
	require.NoError(t, err)

	result, err := e.quotes.PreviewTotals(e.ctx, pricing.LineItems{
		Equipment: []pricing.EquipmentLine{{EquipmentID: printer.ID.String(), Inks: pricing.InkSet{K: 4}}},
		Labor:     []pricing.LaborLine{{Description: "Setup", Hours: 0.5, Rate: 40}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Totals.InkCost)
	assert.Equal(t, 4.0, result.Totals.InkCharge)
	assert.Equal(t, 20.0, result.Totals.LaborCharge)
	assert.Equal(t, 24.0, result.Totals.TotalChargePreTax)
}

func TestQuote_CreateRequiresKnownCustomer(t *testing.T) {
	e := newEnv(t)
	_, err := e.quotes.CreateQuote(e.ctx, &CreateQuoteInput{CreatedByID: e.userID, Title: "Flyers"})
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestInvoice_GeneratedOncePerJob(t *testing.T) {
	e := newEnv(t)
	_, err := e.settings.UpdateSettings(e.ctx, &UpdateSettingsInput{DefaultTaxRatePercent: ptr(10.0)})
	require.NoError(t, err)
	job := e.completedJob(t, nil)

	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", invoice.Number)
	assert.Equal(t, enum.InvoiceStatusUnpaid, invoice.Status)
	assert.Equal(t, 100.0, invoice.PreTax)
	assert.Equal(t, 10.0, invoice.Tax)
	assert.Equal(t, 110.0, invoice.Total)
	assert.Equal(t, 110.0, invoice.TotalDue)
	require.NotNil(t, invoice.DueDate)
	assert.Equal(t, 1, e.dashboard.calls)
	assert.Len(t, e.notifier.ofType(entity.NotificationInvoiceIssued), 1)

	_, err = e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	requireCode(t, err, http.StatusConflict)

	reloaded, err := e.jobs.GetJob(e.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusInvoiced, reloaded.Status)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.InvoiceID)
}

func TestInvoice_ActiveJobCannotBeInvoiced(t *testing.T) {
	e := newEnv(t)
	c := e.customer(t, "Kim", nil)
	job, err := e.jobs.CreateJob(e.ctx, &CreateJobInput{CreatedByID: e.userID, CustomerID: c.ID, Title: "Banner"})
	require.NoError(t, err)

	_, err = e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestInvoice_AdjustmentsRecompute(t *testing.T) {
	e := newEnv(t)
	job := e.completedJob(t, nil)
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	percent := pricing.DiscountPercent
	updated, err := e.invoices.UpdateInvoice(e.ctx, &UpdateInvoiceInput{
		ID:                  invoice.ID,
		TaxRatePercent:      ptr(8.0),
		DiscountType:        &percent,
		DiscountValue:       ptr(10.0),
		TaxOnDiscountedBase: ptr(true),
		Deposit:             ptr(20.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Discount)
	assert.Equal(t, 90.0, updated.Taxable)
	assert.Equal(t, 7.2, updated.Tax)
	assert.Equal(t, 97.2, updated.Total)
	assert.Equal(t, 77.2, updated.TotalDue)
	assert.Equal(t, 100.0, updated.Snapshot.Data().TotalChargePreTax, "the snapshot never changes")

	bad := pricing.DiscountType("bogus")
	_, err = e.invoices.UpdateInvoice(e.ctx, &UpdateInvoiceInput{ID: invoice.ID, DiscountType: &bad})
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestInvoice_MarkPaidLocksAdjustments(t *testing.T) {
	e := newEnv(t)
	job := e.completedJob(t, nil)
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	paid, err := e.invoices.MarkPaid(e.ctx, &MarkPaidInput{ID: invoice.ID, Method: ptr("card")})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Len(t, e.notifier.ofType(entity.NotificationInvoicePaid), 1)

	_, err = e.invoices.UpdateInvoice(e.ctx, &UpdateInvoiceInput{ID: invoice.ID, Deposit: ptr(5.0)})
	requireCode(t, err, http.StatusUnprocessableEntity)
	_, err = e.invoices.MarkPaid(e.ctx, &MarkPaidInput{ID: invoice.ID})
	requireCode(t, err, http.StatusUnprocessableEntity)
	requireCode(t, e.invoices.DeleteInvoice(e.ctx, invoice.ID), http.StatusUnprocessableEntity)
}

func TestInvoice_DeleteReopensJob(t *testing.T) {
	e := newEnv(t)
	job := e.completedJob(t, nil)
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	require.NoError(t, e.invoices.DeleteInvoice(e.ctx, invoice.ID))

	reopened, err := e.jobs.GetJob(e.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusCompleted, reopened.Status)
	assert.Nil(t, reopened.InvoiceID)

	again, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00002", again.Number, "numbers are never reused")
}

func TestInvoice_EmailOnIssue(t *testing.T) {
	e := newEnv(t)
	e.mailer.configured = true
	_, err := e.settings.UpdateSettings(e.ctx, &UpdateSettingsInput{EmailOnInvoiceIssued: ptr(true)})
	require.NoError(t, err)

	job := e.completedJob(t, ptr("dana@example.com"))
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	require.Len(t, e.mailer.invoices, 1)
	sent := e.mailer.invoices[0]
	assert.Equal(t, "dana@example.com", sent.To)
	assert.Equal(t, invoice.Number, sent.InvoiceNumber)
	assert.NotEmpty(t, sent.PDF)
}

func TestInvoice_EmailWithoutMailer(t *testing.T) {
	e := newEnv(t)
	job := e.completedJob(t, nil)
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	err = e.invoices.EmailInvoice(e.ctx, invoice.ID, "someone@example.com")
	requireCode(t, err, http.StatusServiceUnavailable)
}

func TestJob_CompleteOnlyOnce(t *testing.T) {
	e := newEnv(t)
	job := e.completedJob(t, nil)
	assert.Equal(t, enum.JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Len(t, e.notifier.ofType(entity.NotificationJobCompleted), 1)

	_, err := e.jobs.CompleteJob(e.ctx, job.ID)
	requireCode(t, err, http.StatusUnprocessableEntity)
	_, err = e.jobs.CancelJob(e.ctx, job.ID)
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestPurchaseOrder_ReceiveRestocksAndAlerts(t *testing.T) {
	e := newEnv(t)
	vendor, err := e.customers.CreateVendor(e.ctx, e.userID, &VendorInput{Name: ptr("Supply Co")})
	require.NoError(t, err)
	vinyl := e.material(t, "Vinyl roll", 40, 60, 1, 10)
	ink := e.material(t, "Cyan ink", 30, 45, 0, 1)

	po, err := e.orders.CreatePurchaseOrder(e.ctx, &CreatePurchaseOrderInput{
		CreatedByID:    e.userID,
		VendorID:       vendor.ID,
		TaxRatePercent: 5,
		Items: []PurchaseOrderItemInput{
			{MaterialID: vinyl.ID, Quantity: 2, UnitCost: 38.5},
			{MaterialID: ink.ID, Quantity: 4, UnitCost: 29},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-00001", po.Number)
	assert.Equal(t, 193.0, po.Subtotal)
	assert.Equal(t, 9.65, po.Tax)
	assert.Equal(t, 202.65, po.Total)

	_, err = e.orders.ReceivePurchaseOrder(e.ctx, po.ID, true)
	requireCode(t, err, http.StatusUnprocessableEntity)

	_, err = e.orders.MarkOrdered(e.ctx, po.ID)
	require.NoError(t, err)
	received, err := e.orders.ReceivePurchaseOrder(e.ctx, po.ID, true)
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusReceived, received.Status)

	v, err := e.materials.GetMaterial(e.ctx, vinyl.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.QuantityOnHand)
	assert.Equal(t, 38.5, v.PurchasePrice)

	c, err := e.materials.GetMaterial(e.ctx, ink.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.QuantityOnHand)

	alerts := e.notifier.ofType(entity.NotificationLowStock)
	require.Len(t, alerts, 1, "vinyl is still under its reorder level")
	assert.Contains(t, alerts[0].Body, "Vinyl roll")
	assert.NotContains(t, alerts[0].Body, "Cyan ink")

	_, err = e.orders.ReceivePurchaseOrder(e.ctx, po.ID, true)
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestPurchaseOrder_UnknownMaterial(t *testing.T) {
	e := newEnv(t)
	vendor, err := e.customers.CreateVendor(e.ctx, e.userID, &VendorInput{Name: ptr("Supply Co")})
	require.NoError(t, err)

	_, err = e.orders.CreatePurchaseOrder(e.ctx, &CreatePurchaseOrderInput{
		CreatedByID: e.userID,
		VendorID:    vendor.ID,
		Items:       []PurchaseOrderItemInput{{MaterialID: e.userID, Quantity: 1, UnitCost: 1}},
	})
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	require.NotEmpty(t, appErr.Errors)
	assert.Equal(t, "items[0].material_id", appErr.Errors[0].Field)
}

func TestJob_ReadsFollowCurrentPrices(t *testing.T) {
	e := newEnv(t)
	vinyl := e.material(t, "Cast vinyl", 2, 5, 100, 0)
	c := e.customer(t, "Robin", nil)

	job, err := e.jobs.CreateJob(e.ctx, &CreateJobInput{
		CreatedByID: e.userID,
		CustomerID:  c.ID,
		Title:       "Van wrap",
		Items:       pricing.LineItems{Materials: []pricing.MaterialLine{{MaterialID: vinyl.ID.String(), Quantity: 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, job.Totals.Data().MatCharge)

	_, err = e.materials.UpdateMaterial(e.ctx, vinyl.ID, &MaterialInput{SellingPrice: ptr(9.0)})
	require.NoError(t, err)

	got, err := e.jobs.GetJob(e.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 27.0, got.Totals.Data().MatCharge)
	assert.Equal(t, 21.0, got.Totals.Data().Profit)

	page, err := e.jobs.ListJobs(e.ctx, &repository.JobFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 27.0, page.Items[0].Totals.Data().MatCharge)

	done, err := e.jobs.CompleteJob(e.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 27.0, done.Totals.Data().MatCharge)

	// completed jobs keep the figures they were completed with
	_, err = e.materials.UpdateMaterial(e.ctx, vinyl.ID, &MaterialInput{SellingPrice: ptr(12.0)})
	require.NoError(t, err)
	got, err = e.jobs.GetJob(e.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 27.0, got.Totals.Data().MatCharge)
}

func TestQuote_ReadsFollowCurrentPrices(t *testing.T) {
	e := newEnv(t)
	board := e.material(t, "Foam board", 3, 5, 10, 0)
	c := e.customer(t, "Kim", nil)

	quote, err := e.quotes.CreateQuote(e.ctx, &CreateQuoteInput{
		CreatedByID: e.userID,
		CustomerID:  c.ID,
		Title:       "Menu boards",
		Items:       pricing.LineItems{Materials: []pricing.MaterialLine{{MaterialID: board.ID.String(), Quantity: 2}}},
	})
	require.NoError(t, err)

	_, err = e.materials.UpdateMaterial(e.ctx, board.ID, &MaterialInput{SellingPrice: ptr(8.0)})
	require.NoError(t, err)

	got, err := e.quotes.GetQuote(e.ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, got.Totals.Data().MatCharge)

	page, err := e.quotes.ListQuotes(e.ctx, &repository.QuoteFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 16.0, page.Items[0].Totals.Data().MatCharge)

	_, err = e.quotes.UpdateQuoteStatus(e.ctx, quote.ID, enum.QuoteStatusDeclined)
	require.NoError(t, err)
	_, err = e.materials.UpdateMaterial(e.ctx, board.ID, &MaterialInput{SellingPrice: ptr(20.0)})
	require.NoError(t, err)

	got, err = e.quotes.GetQuote(e.ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Totals.Data().MatCharge, "declined quotes keep their saved totals")
}

func TestPricer_ExplicitZeroRateIsKept(t *testing.T) {
	e := newEnv(t)
	laser, err := e.equipment.CreateEquipment(e.ctx, &EquipmentInput{Name: ptr("Laser"), Category: ptr("Laser"), HourlyRate: ptr(40.0)})
	require.NoError(t, err)
	rush, err := e.equipment.CreateAddOn(e.ctx, &AddOnInput{Name: ptr("Rush"), UnitPrice: ptr(15.0)})
	require.NoError(t, err)

	var items pricing.LineItems
	require.NoError(t, json.Unmarshal([]byte(`{
		"equipment": [
			{"equipment_id": "`+laser.ID.String()+`", "mode": "hourly", "hours": 2, "rate": 0},
			{"equipment_id": "`+laser.ID.String()+`", "mode": "hourly", "hours": 1}
		],
		"addons": [
			{"addon_id": "`+rush.ID.String()+`", "quantity": 1, "unit_price": 0},
			{"addon_id": "`+rush.ID.String()+`", "quantity": 2}
		]
	}`), &items))

	result, err := e.quotes.PreviewTotals(e.ctx, items, ptr(0.0))
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.Totals.EqCharge, "only the line without a rate takes the equipment rate")
	assert.Equal(t, 30.0, result.Totals.AddonCharge)

	require.NotNil(t, result.Items.Equipment[0].Rate)
	assert.Zero(t, result.Items.Equipment[0].Rate.Value())
	assert.Equal(t, 40.0, result.Items.Equipment[1].Rate.Value())
	assert.Zero(t, result.Items.AddOns[0].UnitPrice.Value())
	assert.Equal(t, 15.0, result.Items.AddOns[1].UnitPrice.Value())
}
