package entity

// ReceiptHeader holds the shop details printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ReceiptLine is one printed line: a description and its charge.
type ReceiptLine struct {
	Description string  `json:"description"`
	Detail      string  `json:"detail,omitempty"`
	Amount      float64 `json:"amount"`
}

// Receipt is a printable view of an invoice. It is composed from the
// invoice's frozen line items and totals at print time and never stored.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	InvoiceNumber string        `json:"invoice_number"`
	JobNumber     string        `json:"job_number,omitempty"`
	Date          string        `json:"date"`
	Customer      string        `json:"customer,omitempty"`
	Lines         []ReceiptLine `json:"lines"`
	PreTax        float64       `json:"pre_tax"`
	Discount      float64       `json:"discount"`
	TaxLabel      string        `json:"tax_label"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Deposit       float64       `json:"deposit"`
	TotalDue      float64       `json:"total_due"`
	Status        string        `json:"status"`
	Footer        string        `json:"footer,omitempty"`
}
