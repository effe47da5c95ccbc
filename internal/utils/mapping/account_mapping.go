package mapping

import (
	"github.com/utilikit/gl_posting_app/internal/core/domain"
	"github.com/utilikit/gl_posting_app/internal/models"
)

// ToDomainAccount converts a model account to its domain shape.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		NormalBalance: domain.BalanceSide(m.NormalBalance),
		UsoaClass:     m.UsoaClass,
		Description:   m.Description,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriod converts a model accounting period to its domain shape.
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:    m.PeriodID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		FiscalYear:  m.FiscalYear,
		IsClosed:    m.IsClosed,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
