package payroll

import "context"

// PaymentRepository defines data access methods for settled payments.
// All methods include businessID to prevent cross-tenant data access.
type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string, businessID string) (Payment, error)
	List(ctx context.Context, businessID string) ([]Payment, error)
	Update(ctx context.Context, p Payment) (Payment, error)
	Delete(ctx context.Context, id string, businessID string) error
	DeleteMany(ctx context.Context, ids []string, businessID string) (int64, error)
}
