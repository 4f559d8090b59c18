package employee

import "context"

// EmployeeRepository defines data access methods for employees.
// All methods include businessID to prevent cross-tenant data access.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string, businessID string) (Employee, error)
	GetByPIN(ctx context.Context, pin string, businessID string) (Employee, error)
	ListByBusinessID(ctx context.Context, businessID string, activeOnly bool) ([]Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	Delete(ctx context.Context, id string, businessID string) error
}
