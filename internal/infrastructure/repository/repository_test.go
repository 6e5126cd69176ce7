package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func tenantCtx(tenantID uuid.UUID) context.Context {
	return WithTenant(context.Background(), tenantID)
}

func strPtr(s string) *string { return &s }

func TestTenantScope_IsolatesTenants(t *testing.T) {
	db := setupDB(t)
	repo := NewCustomerRepository(db)

	tenantA, tenantB := uuid.New(), uuid.New()
	ctxA, ctxB := tenantCtx(tenantA), tenantCtx(tenantB)

	a := &entity.Customer{TenantID: tenantA, CreatedByID: uuid.New(), Name: "Alpha Prints"}
	require.NoError(t, repo.Create(ctxA, a))
	require.NoError(t, repo.Create(ctxB, &entity.Customer{TenantID: tenantB, CreatedByID: uuid.New(), Name: "Beta Signs"}))

	got, err := repo.GetByID(ctxB, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "tenant B must not see tenant A's customer")

	got, err = repo.GetByID(ctxA, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alpha Prints", got.Name)

	// Missing tenant context matches nothing
	customers, total, err := repo.List(context.Background(), &domainRepo.ContactFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, customers)

	// Super admins see everything
	all, total, err := repo.List(WithSkipTenantScope(context.Background(), true), &domainRepo.ContactFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestCustomerRepository_SearchIsCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	repo := NewCustomerRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	require.NoError(t, repo.Create(ctx, &entity.Customer{TenantID: tenantID, CreatedByID: uuid.New(), Name: "Jo", Company: strPtr("Acme Signs")}))
	require.NoError(t, repo.Create(ctx, &entity.Customer{TenantID: tenantID, CreatedByID: uuid.New(), Name: "Sam"}))

	customers, total, err := repo.List(ctx, &domainRepo.ContactFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "acme",
		SortBy:     "name; DROP TABLE customers",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Jo", customers[0].Name)
}

func TestSequenceRepository_Next(t *testing.T) {
	db := setupDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, tenantID, entity.DocumentKindInvoice)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := repo.Next(ctx, tenantID, entity.DocumentKindQuote)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "each kind has its own series")

	got, err = repo.Next(ctx, uuid.New(), entity.DocumentKindInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "each tenant has its own series")
}

func TestMaterialRepository_LowStock(t *testing.T) {
	db := setupDB(t)
	repo := NewMaterialRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	require.NoError(t, repo.Create(ctx, &entity.Material{TenantID: tenantID, Name: "Vinyl", SKU: "vinyl", Unit: "m", QuantityOnHand: 2, ReorderLevel: 5}))
	require.NoError(t, repo.Create(ctx, &entity.Material{TenantID: tenantID, Name: "Acrylic", SKU: "acrylic", Unit: "sheet", QuantityOnHand: 20, ReorderLevel: 5}))

	low, total, err := repo.List(ctx, &domainRepo.MaterialFilterParams{Pagination: pagination.DefaultPagination(), LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Vinyl", low[0].Name)

	count, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	bySKU, err := repo.GetBySKU(ctx, "acrylic")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, "Acrylic", bySKU.Name)
}

func newJob(tenantID, customerID uuid.UUID, status enum.JobStatus, preTax float64) *entity.Job {
	job := &entity.Job{
		TenantID:    tenantID,
		CreatedByID: uuid.New(),
		CustomerID:  customerID,
		Number:      "J-" + uuid.NewString()[:8],
		Title:       "Banner",
		Status:      status,
	}
	job.ApplyTotals(pricing.DocumentTotals{TotalChargePreTax: preTax, Profit: preTax / 2})
	return job
}

func TestQuoteRepository_ConvertToJobOnlyOnce(t *testing.T) {
	db := setupDB(t)
	quotes := NewQuoteRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)
	customerID := uuid.New()

	quote := &entity.Quote{TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: customerID, Number: "Q-00001", Title: "Signs"}
	require.NoError(t, quotes.Create(ctx, quote))

	first := newJob(tenantID, customerID, enum.JobStatusActive, 10)
	require.NoError(t, quotes.ConvertToJob(ctx, quote, first))
	assert.Equal(t, enum.QuoteStatusConverted, quote.Status)

	stale := &entity.Quote{ID: quote.ID, TenantID: tenantID}
	err := quotes.ConvertToJob(ctx, stale, newJob(tenantID, customerID, enum.JobStatusActive, 10))
	assert.ErrorIs(t, err, domainRepo.ErrStaleState)

	var jobCount int64
	db.Model(&entity.Job{}).Count(&jobCount)
	assert.Equal(t, int64(1), jobCount, "the failed conversion must roll back its job")
}

func TestInvoiceRepository_CreateFromJobExactlyOnce(t *testing.T) {
	db := setupDB(t)
	jobs := NewJobRepository(db)
	invoices := NewInvoiceRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	job := newJob(tenantID, uuid.New(), enum.JobStatusCompleted, 100)
	require.NoError(t, jobs.Create(ctx, job))

	build := func(number string) *entity.Invoice {
		return &entity.Invoice{
			TenantID:    tenantID,
			CreatedByID: uuid.New(),
			CustomerID:  job.CustomerID,
			JobID:       job.ID,
			Number:      number,
			Items:       job.Items,
			Snapshot:    job.Totals,
			IssuedAt:    time.Now(),
		}
	}

	inv := build("INV-00001")
	inv.Recompute()
	require.NoError(t, invoices.CreateFromJob(ctx, inv))

	err := invoices.CreateFromJob(ctx, build("INV-00002"))
	assert.ErrorIs(t, err, domainRepo.ErrStaleState)

	reloaded, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusInvoiced, reloaded.Status)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, inv.ID, *reloaded.InvoiceID)

	stored, err := invoices.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 100, stored.Snapshot.Data().TotalChargePreTax, 0.001)
	assert.InDelta(t, 100, stored.TotalDue, 0.001)
}

func TestInvoiceRepository_DeleteReopensJob(t *testing.T) {
	db := setupDB(t)
	jobs := NewJobRepository(db)
	invoices := NewInvoiceRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	job := newJob(tenantID, uuid.New(), enum.JobStatusCompleted, 50)
	require.NoError(t, jobs.Create(ctx, job))

	inv := &entity.Invoice{
		TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: job.CustomerID, JobID: job.ID,
		Number: "INV-00001", Items: job.Items, Snapshot: job.Totals, IssuedAt: time.Now(),
	}
	require.NoError(t, invoices.CreateFromJob(ctx, inv))
	require.NoError(t, invoices.Delete(ctx, inv.ID))

	reloaded, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusCompleted, reloaded.Status)
	assert.Nil(t, reloaded.InvoiceID)

	assert.ErrorIs(t, invoices.Delete(ctx, inv.ID), domainRepo.ErrStaleState)

	again := &entity.Invoice{
		TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: job.CustomerID, JobID: job.ID,
		Number: "INV-00002", Items: job.Items, Snapshot: job.Totals, IssuedAt: time.Now(),
	}
	assert.NoError(t, invoices.CreateFromJob(ctx, again))
}

func TestInvoiceRepository_DeleteRefusesPaid(t *testing.T) {
	db := setupDB(t)
	invoices := NewInvoiceRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	paid := &entity.Invoice{
		TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: uuid.New(), JobID: uuid.New(),
		Number: "INV-00009", Status: enum.InvoiceStatusPaid, IssuedAt: time.Now(),
	}
	require.NoError(t, db.Create(paid).Error)
	assert.ErrorIs(t, invoices.Delete(ctx, paid.ID), domainRepo.ErrStaleState)
}

func TestInvoiceRepository_OverdueFilter(t *testing.T) {
	db := setupDB(t)
	repo := NewInvoiceRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)
	now := time.Now()
	past, future := now.Add(-48*time.Hour), now.Add(48*time.Hour)

	for i, due := range []*time.Time{&past, &future, nil} {
		inv := &entity.Invoice{
			TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: uuid.New(), JobID: uuid.New(),
			Number: entity.FormatDocumentNumber("INV-", int64(i+1)), IssuedAt: now, DueDate: due,
		}
		require.NoError(t, db.Create(inv).Error)
	}

	overdue, total, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{
		Pagination: pagination.DefaultPagination(),
		Overdue:    true,
		Now:        now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "INV-00001", overdue[0].Number)
}

func TestJobRepository_TransitionStatus(t *testing.T) {
	db := setupDB(t)
	repo := NewJobRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	job := newJob(tenantID, uuid.New(), enum.JobStatusActive, 5)
	require.NoError(t, repo.Create(ctx, job))

	now := time.Now()
	require.NoError(t, repo.TransitionStatus(ctx, job.ID, enum.JobStatusActive, enum.JobStatusCompleted, &now))
	assert.ErrorIs(t, repo.TransitionStatus(ctx, job.ID, enum.JobStatusActive, enum.JobStatusCancelled, nil), domainRepo.ErrStaleState)

	count, err := repo.CountByStatus(ctx, enum.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseOrderRepository_Receive(t *testing.T) {
	db := setupDB(t)
	materials := NewMaterialRepository(db)
	orders := NewPurchaseOrderRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	mat := &entity.Material{TenantID: tenantID, Name: "Ink", SKU: "ink", Unit: "l", QuantityOnHand: 1, PurchasePrice: 10}
	require.NoError(t, materials.Create(ctx, mat))

	po := &entity.PurchaseOrder{
		TenantID: tenantID, CreatedByID: uuid.New(), VendorID: uuid.New(), Number: "PO-00001",
		Status: enum.PurchaseOrderStatusOrdered,
		Items:  []entity.PurchaseOrderItem{{MaterialID: mat.ID, Quantity: 4, UnitCost: 12.5}},
	}
	po.RecalculateTotals()
	require.NoError(t, orders.Create(ctx, po))

	loaded, err := orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)

	require.NoError(t, orders.Receive(ctx, loaded, true))
	assert.ErrorIs(t, orders.Receive(ctx, loaded, true), domainRepo.ErrStaleState)

	updated, err := materials.GetByID(ctx, mat.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5, updated.QuantityOnHand, 0.0001)
	assert.InDelta(t, 12.5, updated.PurchasePrice, 0.0001)
}

func TestNotificationRepository_CursorAndRead(t *testing.T) {
	db := setupDB(t)
	repo := NewNotificationRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)
	userID, otherUser := uuid.New(), uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		n := &entity.Notification{TenantID: tenantID, Type: entity.NotificationInvoicePaid, Title: "paid", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, n))
	}
	require.NoError(t, repo.Create(ctx, &entity.Notification{TenantID: tenantID, UserID: &otherUser, Type: "x", Title: "private"}))

	page, err := repo.ListWithCursor(ctx, &domainRepo.NotificationFilterParams{
		Cursor: &pagination.CursorParams{Limit: 2},
		UserID: userID,
	})
	require.NoError(t, err)
	require.Len(t, page, 3, "limit+1 rows signal another page")

	last := page[1]
	next, err := repo.ListWithCursor(ctx, &domainRepo.NotificationFilterParams{
		Cursor: &pagination.CursorParams{Limit: 2, Cursor: pagination.EncodeCursor(last.ID.String(), last.CreatedAt)},
		UserID: userID,
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, page[2].ID, next[0].ID)

	ok, err := repo.MarkRead(ctx, page[0].ID, userID)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	n, err := repo.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBillingEventRepository_Dedupes(t *testing.T) {
	db := setupDB(t)
	repo := NewBillingEventRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &entity.BillingEvent{EventID: "evt_1", Type: "invoice.payment_failed", Status: entity.BillingEventProcessed, Payload: datatypes.JSON(`{}`)})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, &entity.BillingEvent{EventID: "evt_1", Type: "invoice.payment_failed", Status: entity.BillingEventProcessed, Payload: datatypes.JSON(`{}`)})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestDashboardRepository_Aggregates(t *testing.T) {
	db := setupDB(t)
	repo := NewDashboardRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	paid := &entity.Invoice{
		TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: uuid.New(), JobID: uuid.New(), Number: "INV-00001",
		Status: enum.InvoiceStatusPaid, Total: 120, IssuedAt: now, PaidAt: &yesterday,
		Snapshot: datatypes.NewJSONType(pricing.DocumentTotals{Profit: 40}),
	}
	unpaid := &entity.Invoice{
		TenantID: tenantID, CreatedByID: uuid.New(), CustomerID: uuid.New(), JobID: uuid.New(), Number: "INV-00002",
		Status: enum.InvoiceStatusUnpaid, Total: 80, TotalDue: 60, IssuedAt: now,
		Snapshot: datatypes.NewJSONType(pricing.DocumentTotals{Profit: 15.5}),
	}
	require.NoError(t, db.Create(paid).Error)
	require.NoError(t, db.Create(unpaid).Error)

	revenue, err := repo.PaidRevenue(ctx, nil)
	require.NoError(t, err)
	assert.InDelta(t, 120, revenue, 0.001)

	due, err := repo.Receivables(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 60, due, 0.001)

	profit, err := repo.IssuedProfit(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 55.5, profit, 0.001)

	daily, err := repo.DailyRevenue(ctx, 7, now)
	require.NoError(t, err)
	require.Len(t, daily, 7)
	assert.InDelta(t, 120, daily[5].Revenue, 0.001)
	assert.Zero(t, daily[6].Revenue)

	unpaidCount, err := repo.CountUnpaidInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unpaidCount)
}
