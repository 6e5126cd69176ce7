package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InvoiceStatus is the payment state of an invoice
type InvoiceStatus int

const (
	InvoiceStatusUnpaid InvoiceStatus = iota
	InvoiceStatusPaid
	InvoiceStatusVoid
)

var invoiceStatusNames = [...]string{"unpaid", "paid", "void"}

func (s InvoiceStatus) String() string {
	if int(s) < 0 || int(s) >= len(invoiceStatusNames) {
		return invoiceStatusNames[0]
	}
	return invoiceStatusNames[s]
}

// ParseInvoiceStatus converts an API value to a InvoiceStatus
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	for i, name := range invoiceStatusNames {
		if name == str {
			return InvoiceStatus(i), nil
		}
	}
	return InvoiceStatusUnpaid, fmt.Errorf("invalid invoice status: %q", str)
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
