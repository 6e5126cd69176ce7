package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus int

const (
	PurchaseOrderStatusDraft PurchaseOrderStatus = iota
	PurchaseOrderStatusOrdered
	PurchaseOrderStatusReceived
	PurchaseOrderStatusCancelled
)

var purchaseOrderStatusNames = [...]string{"draft", "ordered", "received", "cancelled"}

func (s PurchaseOrderStatus) String() string {
	if int(s) < 0 || int(s) >= len(purchaseOrderStatusNames) {
		return purchaseOrderStatusNames[0]
	}
	return purchaseOrderStatusNames[s]
}

// ParsePurchaseOrderStatus converts an API value to a PurchaseOrderStatus
func ParsePurchaseOrderStatus(str string) (PurchaseOrderStatus, error) {
	for i, name := range purchaseOrderStatusNames {
		if name == str {
			return PurchaseOrderStatus(i), nil
		}
	}
	return PurchaseOrderStatusDraft, fmt.Errorf("invalid purchase order status: %q", str)
}

func (s PurchaseOrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PurchaseOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PurchaseOrderStatus(i)
		return nil
	}
	parsed, err := ParsePurchaseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s PurchaseOrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PurchaseOrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PurchaseOrderStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PurchaseOrderStatus(v)
	case int:
		*s = PurchaseOrderStatus(v)
	}
	return nil
}
