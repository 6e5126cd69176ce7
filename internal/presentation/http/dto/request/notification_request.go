package request

import "github.com/sangkips/shopfloor-api/pkg/pagination"

// NotificationQuery represents notification feed parameters
type NotificationQuery struct {
	pagination.CursorParams
	UnreadOnly bool `form:"unread_only"`
}
