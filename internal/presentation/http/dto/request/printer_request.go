package request

// PrintReceiptRequest is the request body for printing an invoice receipt.
type PrintReceiptRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required,uuid"`
}
