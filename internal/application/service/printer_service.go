package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoices    *InvoiceService
	settings    *SettingsService
	printerType string
	charWidth   int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoices *InvoiceService,
	settings *SettingsService,
	printerType string,
	charWidth int,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		invoices:    invoices,
		settings:    settings,
		printerType: printerType,
		charWidth:   charWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:        entity.ReceiptHeader{ShopName: "PRINTER TEST"},
		InvoiceNumber: "TEST-00001",
		Date:          "Test Date",
		Lines: []entity.ReceiptLine{
			{Description: "Printing (ink)", Detail: "UV flatbed", Amount: 10.00},
			{Description: "Materials", Detail: "Acrylic 3mm x2", Amount: 10.00},
		},
		PreTax:   20.00,
		TaxLabel: "Tax",
		Total:    20.00,
		TotalDue: 20.00,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintInvoiceReceipt prints the counter receipt for an invoice
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	invoice, err := s.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.ForTenant(ctx, invoice.TenantID)
	if err != nil {
		return nil, err
	}

	receipt := invoiceReceipt(invoice, settings)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		logger.FromContext(ctx).Warn("printer error",
			zap.String("invoice", invoice.Number), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	amount := func(v float64) string { return fmt.Sprintf("%.2f", v) }

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.Email != "" {
		doc.Text(r.Header.Email)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNumber)
	if r.JobNumber != "" {
		doc.KeyValue("Job:", r.JobNumber)
	}
	doc.KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')

	for _, l := range r.Lines {
		doc.Line(l.Description, amount(l.Amount))
		if l.Detail != "" {
			doc.Indented(l.Detail)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", amount(r.PreTax))
	if r.Discount != 0 {
		doc.KeyValue("Discount:", "-"+amount(r.Discount))
	}
	taxLabel := r.TaxLabel
	if taxLabel == "" {
		taxLabel = "Tax"
	}
	doc.KeyValue(taxLabel+":", amount(r.Tax))
	doc.SetBold(true).
		KeyValue("TOTAL:", amount(r.Total)).
		SetBold(false)

	if r.Deposit != 0 {
		doc.KeyValue("Deposit:", "-"+amount(r.Deposit))
		doc.SetBold(true).
			KeyValue("DUE:", amount(r.TotalDue)).
			SetBold(false)
	}
	if r.Status != "" {
		doc.KeyValue("Status:", r.Status)
	}

	doc.Separator('-')

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
