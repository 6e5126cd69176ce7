package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuoteStatus is the lifecycle state of a quote
type QuoteStatus int

const (
	QuoteStatusOpen QuoteStatus = iota
	QuoteStatusAccepted
	QuoteStatusDeclined
	QuoteStatusConverted
)

var quoteStatusNames = [...]string{"open", "accepted", "declined", "converted"}

func (s QuoteStatus) String() string {
	if int(s) < 0 || int(s) >= len(quoteStatusNames) {
		return quoteStatusNames[0]
	}
	return quoteStatusNames[s]
}

// ParseQuoteStatus converts an API value to a QuoteStatus
func ParseQuoteStatus(str string) (QuoteStatus, error) {
	for i, name := range quoteStatusNames {
		if name == str {
			return QuoteStatus(i), nil
		}
	}
	return QuoteStatusOpen, fmt.Errorf("invalid quote status: %q", str)
}

func (s QuoteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuoteStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuoteStatus(i)
		return nil
	}
	parsed, err := ParseQuoteStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s QuoteStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuoteStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuoteStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuoteStatus(v)
	case int:
		*s = QuoteStatus(v)
	}
	return nil
}
