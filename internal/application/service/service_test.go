package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/pkg/email"
	"github.com/sangkips/shopfloor-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []entity.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note *entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *note)
}

func (n *recordingNotifier) ofType(typ string) []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []entity.Notification
	for _, note := range n.sent {
		if note.Type == typ {
			out = append(out, note)
		}
	}
	return out
}

type fakeMailer struct {
	configured bool
	invoices   []email.InvoiceEmail
	resets     []string
	notices    []string
}

func (m *fakeMailer) IsConfigured() bool { return m.configured }

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, to, token string) error {
	m.resets = append(m.resets, to+":"+token)
	return nil
}

func (m *fakeMailer) SendInvoiceEmail(_ context.Context, data email.InvoiceEmail) error {
	m.invoices = append(m.invoices, data)
	return nil
}

func (m *fakeMailer) SendNotificationEmail(_ context.Context, to, title, _ string) error {
	m.notices = append(m.notices, to+":"+title)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context, uuid.UUID) error {
	c.calls++
	return nil
}

// env wires every service against one in-memory database
type env struct {
	db        *gorm.DB
	tenantID  uuid.UUID
	userID    uuid.UUID
	ctx       context.Context
	notifier  *recordingNotifier
	mailer    *fakeMailer
	dashboard *countingInvalidator

	settings  *SettingsService
	customers *CustomerService
	materials *MaterialService
	equipment *EquipmentService
	quotes    *QuoteService
	jobs      *JobService
	invoices  *InvoiceService
	orders    *PurchaseOrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	e := &env{
		db:        db,
		tenantID:  uuid.New(),
		userID:    uuid.New(),
		notifier:  &recordingNotifier{},
		mailer:    &fakeMailer{},
		dashboard: &countingInvalidator{},
	}
	e.ctx = infraRepo.WithTenant(context.Background(), e.tenantID)

	customerRepo := infraRepo.NewCustomerRepository(db)
	vendorRepo := infraRepo.NewVendorRepository(db)
	materialRepo := infraRepo.NewMaterialRepository(db)
	equipmentRepo := infraRepo.NewEquipmentRepository(db)
	addOnRepo := infraRepo.NewAddOnRepository(db)
	jobRepo := infraRepo.NewJobRepository(db)

	e.settings = NewSettingsService(infraRepo.NewShopSettingsRepository(db))
	numberer := NewDocumentNumberer(infraRepo.NewSequenceRepository(db), e.settings)
	pricer := NewPricer(equipmentRepo, materialRepo, addOnRepo)

	e.customers = NewCustomerService(customerRepo, vendorRepo)
	e.materials = NewMaterialService(materialRepo, vendorRepo)
	e.equipment = NewEquipmentService(equipmentRepo, addOnRepo)
	e.quotes = NewQuoteService(infraRepo.NewQuoteRepository(db), customerRepo, pricer, numberer, e.settings, nil)
	e.jobs = NewJobService(jobRepo, customerRepo, pricer, numberer, e.settings, e.notifier, nil)
	e.invoices = NewInvoiceService(infraRepo.NewInvoiceRepository(db), jobRepo, numberer, e.settings, e.notifier, e.mailer, e.dashboard, nil)
	e.orders = NewPurchaseOrderService(infraRepo.NewPurchaseOrderRepository(db), vendorRepo, materialRepo, numberer, e.settings, e.notifier, nil)
	return e
}

func ptr[T any](v T) *T { return &v }

func (e *env) customer(t *testing.T, name string, mail *string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(e.ctx, e.userID, &CustomerInput{Name: ptr(name), Email: mail})
	require.NoError(t, err)
	return c
}

func (e *env) material(t *testing.T, name string, cost, sell, onHand, reorder float64) *entity.Material {
	t.Helper()
	m, err := e.materials.CreateMaterial(e.ctx, &MaterialInput{
		Name:           ptr(name),
		Unit:           ptr("sheet"),
		PurchasePrice:  ptr(cost),
		SellingPrice:   ptr(sell),
		QuantityOnHand: ptr(onHand),
		ReorderLevel:   ptr(reorder),
	})
	require.NoError(t, err)
	return m
}

func (e *env) uvPrinter(t *testing.T) *EquipmentView {
	t.Helper()
	view, err := e.equipment.CreateEquipment(e.ctx, &EquipmentInput{
		Name:     ptr("Mimaki UJF"),
		Category: ptr(pricing.CategoryUVPrinter),
		InkRates: &pricing.InkSet{C: 0.5, M: 0.5, Y: 0.5, K: 0.5, White: 1},
	})
	require.NoError(t, err)
	return view
}

// completedJob creates a job worth 100.00 pre-tax and completes it
func (e *env) completedJob(t *testing.T, customerMail *string) *entity.Job {
	t.Helper()
	c := e.customer(t, "Dana", customerMail)
	job, err := e.jobs.CreateJob(e.ctx, &CreateJobInput{
		CreatedByID: e.userID,
		CustomerID:  c.ID,
		Title:       "Shop signage",
		Items: pricing.LineItems{
			Labor: []pricing.LaborLine{{Description: "Install", Hours: 2, Rate: 50}},
		},
	})
	require.NoError(t, err)
	job, err = e.jobs.CompleteJob(e.ctx, job.ID)
	require.NoError(t, err)
	return job
}

func newTestJWT() *utils.JWTManager {
	return utils.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
}
