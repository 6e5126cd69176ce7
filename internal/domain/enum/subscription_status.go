package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SubscriptionStatus mirrors the Stripe subscription state of a tenant
type SubscriptionStatus int

const (
	SubscriptionStatusNone SubscriptionStatus = iota
	SubscriptionStatusTrialing
	SubscriptionStatusActive
	SubscriptionStatusPastDue
	SubscriptionStatusCanceled
	SubscriptionStatusUnpaid
	SubscriptionStatusIncomplete
)

var subscriptionStatusNames = [...]string{"none", "trialing", "active", "past_due", "canceled", "unpaid", "incomplete"}

func (s SubscriptionStatus) String() string {
	if int(s) < 0 || int(s) >= len(subscriptionStatusNames) {
		return subscriptionStatusNames[0]
	}
	return subscriptionStatusNames[s]
}

// ParseSubscriptionStatus converts an API value to a SubscriptionStatus
func ParseSubscriptionStatus(str string) (SubscriptionStatus, error) {
	for i, name := range subscriptionStatusNames {
		if name == str {
			return SubscriptionStatus(i), nil
		}
	}
	return SubscriptionStatusNone, fmt.Errorf("invalid subscription status: %q", str)
}

func (s SubscriptionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SubscriptionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SubscriptionStatus(i)
		return nil
	}
	parsed, err := ParseSubscriptionStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s SubscriptionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SubscriptionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SubscriptionStatusNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SubscriptionStatus(v)
	case int:
		*s = SubscriptionStatus(v)
	}
	return nil
}
