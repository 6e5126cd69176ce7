package request

// ListQuery carries the paging, search and sort parameters every list accepts
type ListQuery struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// CustomerRequest is the body for creating or updating a customer.
// Name is enforced on create by the service.
type CustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Company *string `json:"company" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=100"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// VendorRequest is the body for creating or updating a vendor
type VendorRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=255"`
	ContactName   *string `json:"contact_name" binding:"omitempty,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Website       *string `json:"website" binding:"omitempty,url"`
	Address       *string `json:"address"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=100"`
	Notes         *string `json:"notes"`
}
