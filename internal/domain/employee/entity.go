package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the profile contract the payroll engine consumes. Profile
// CRUD lives elsewhere; the engine only reads these fields.
type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	PTKPStatus       string // dependent-status code, e.g. "TK/0", "K/2"
	HireDate         time.Time
	ResignationDate  *time.Time
	EmploymentStatus EmploymentStatus
	BaseSalary       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
