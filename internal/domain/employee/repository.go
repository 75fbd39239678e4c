package employee

import "context"

// EmployeeRepository exposes the reads the payroll engine needs.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Employee, error)
}
