package payroll

import (
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// EmployeeContributions and EmployerContributions are deliberately
// separate types. The employee side is withheld from pay; the employer
// side only ever feeds total cost to company. Keeping them disjoint
// makes conflating the two sides a type error.

type EmployeeContributions struct {
	Health decimal.Decimal
	JHT    decimal.Decimal
	JP     decimal.Decimal
}

func (c EmployeeContributions) Total() decimal.Decimal {
	return c.Health.Add(c.JHT).Add(c.JP)
}

type EmployerContributions struct {
	Health decimal.Decimal
	JHT    decimal.Decimal
	JP     decimal.Decimal
	JKK    decimal.Decimal
	JKM    decimal.Decimal
}

func (c EmployerContributions) Total() decimal.Decimal {
	return c.Health.Add(c.JHT).Add(c.JP).Add(c.JKK).Add(c.JKM)
}

// CalculateContributions computes both sides of the statutory
// contributions from a shared salary base. Each capped class derives
// its own capped base independently, from the same salary figure.
func CalculateContributions(salary decimal.Decimal, s payroll.PayrollSetting) (EmployeeContributions, EmployerContributions, error) {
	if salary.IsNegative() {
		return EmployeeContributions{}, EmployerContributions{}, payroll.ErrNegativeInput
	}

	healthBase := capBase(salary, s.HealthSalaryCap)
	jpBase := capBase(salary, s.JPSalaryCap)

	emp := EmployeeContributions{
		Health: healthBase.Mul(s.HealthEmployeeRate),
		JHT:    salary.Mul(s.JHTEmployeeRate),
		JP:     jpBase.Mul(s.JPEmployeeRate),
	}
	er := EmployerContributions{
		Health: healthBase.Mul(s.HealthEmployerRate),
		JHT:    salary.Mul(s.JHTEmployerRate),
		JP:     jpBase.Mul(s.JPEmployerRate),
		JKK:    salary.Mul(s.JKKEmployerRate),
		JKM:    salary.Mul(s.JKMEmployerRate),
	}
	return emp, er, nil
}

// capBase applies a salary cap; a zero cap means the class is uncapped.
func capBase(salary, cap decimal.Decimal) decimal.Decimal {
	if cap.IsPositive() && salary.GreaterThan(cap) {
		return cap
	}
	return salary
}
