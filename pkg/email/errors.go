package email

import "errors"

// ErrNotConfigured is returned when SMTP settings are missing
var ErrNotConfigured = errors.New("email is not configured")
