package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/pagination"
)

// CustomerService handles customer and vendor operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, vendorRepo repository.VendorRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, vendorRepo: vendorRepo}
}

// CustomerInput carries customer fields. On update nil fields are left unchanged.
type CustomerInput struct {
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	TaxID   *string
	Address *string
	Notes   *string
}

func requiredName(name *string) error {
	if name == nil || strings.TrimSpace(*name) == "" {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}
	return nil
}

// trimmed returns nil for blank strings so optional columns stay NULL
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, createdByID uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := requiredName(input.Name); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		TenantID:    tenantID,
		CreatedByID: createdByID,
		Name:        strings.TrimSpace(*input.Name),
		Company:     trimmed(input.Company),
		Email:       trimmed(input.Email),
		Phone:       trimmed(input.Phone),
		TaxID:       trimmed(input.TaxID),
		Address:     trimmed(input.Address),
		Notes:       input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers of the current tenant
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.ContactFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := requiredName(input.Name); err != nil {
			return nil, err
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Company != nil {
		customer.Company = trimmed(input.Company)
	}
	if input.Email != nil {
		customer.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}
	if input.TaxID != nil {
		customer.TaxID = trimmed(input.TaxID)
	}
	if input.Address != nil {
		customer.Address = trimmed(input.Address)
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// VendorInput carries vendor fields. On update nil fields are left unchanged.
type VendorInput struct {
	Name          *string
	ContactName   *string
	Email         *string
	Phone         *string
	Website       *string
	Address       *string
	AccountNumber *string
	Notes         *string
}

// CreateVendor creates a new vendor
func (s *CustomerService) CreateVendor(ctx context.Context, createdByID uuid.UUID, input *VendorInput) (*entity.Vendor, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := requiredName(input.Name); err != nil {
		return nil, err
	}

	vendor := &entity.Vendor{
		TenantID:      tenantID,
		CreatedByID:   createdByID,
		Name:          strings.TrimSpace(*input.Name),
		ContactName:   trimmed(input.ContactName),
		Email:         trimmed(input.Email),
		Phone:         trimmed(input.Phone),
		Website:       trimmed(input.Website),
		Address:       trimmed(input.Address),
		AccountNumber: trimmed(input.AccountNumber),
		Notes:         input.Notes,
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// GetVendor retrieves a vendor by ID
func (s *CustomerService) GetVendor(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return vendor, nil
}

// ListVendors lists vendors of the current tenant
func (s *CustomerService) ListVendors(ctx context.Context, params *repository.ContactFilterParams) (*pagination.PaginatedResult[entity.Vendor], error) {
	vendors, total, err := s.vendorRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(vendors, pag), nil
}

// UpdateVendor updates a vendor
func (s *CustomerService) UpdateVendor(ctx context.Context, id uuid.UUID, input *VendorInput) (*entity.Vendor, error) {
	vendor, err := s.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := requiredName(input.Name); err != nil {
			return nil, err
		}
		vendor.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactName != nil {
		vendor.ContactName = trimmed(input.ContactName)
	}
	if input.Email != nil {
		vendor.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		vendor.Phone = trimmed(input.Phone)
	}
	if input.Website != nil {
		vendor.Website = trimmed(input.Website)
	}
	if input.Address != nil {
		vendor.Address = trimmed(input.Address)
	}
	if input.AccountNumber != nil {
		vendor.AccountNumber = trimmed(input.AccountNumber)
	}
	if input.Notes != nil {
		vendor.Notes = input.Notes
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// DeleteVendor deletes a vendor
func (s *CustomerService) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVendor(ctx, id); err != nil {
		return err
	}
	return s.vendorRepo.Delete(ctx, id)
}
