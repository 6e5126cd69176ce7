package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JobStatus is the lifecycle state of a job
type JobStatus int

const (
	JobStatusActive JobStatus = iota
	JobStatusCompleted
	JobStatusInvoiced
	JobStatusCancelled
)

var jobStatusNames = [...]string{"active", "completed", "invoiced", "cancelled"}

func (s JobStatus) String() string {
	if int(s) < 0 || int(s) >= len(jobStatusNames) {
		return jobStatusNames[0]
	}
	return jobStatusNames[s]
}

// ParseJobStatus converts an API value to a JobStatus
func ParseJobStatus(str string) (JobStatus, error) {
	for i, name := range jobStatusNames {
		if name == str {
			return JobStatus(i), nil
		}
	}
	return JobStatusActive, fmt.Errorf("invalid job status: %q", str)
}

func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = JobStatus(i)
		return nil
	}
	parsed, err := ParseJobStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s JobStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *JobStatus) Scan(value interface{}) error {
	if value == nil {
		*s = JobStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = JobStatus(v)
	case int:
		*s = JobStatus(v)
	}
	return nil
}
