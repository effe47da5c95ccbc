package dto

import (
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// AccountResponse is the API shape of a chart-of-accounts entry.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	NormalBalance string `json:"normalBalance"`
	UsoaClass     string `json:"usoaClass,omitempty"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		UsoaClass:     a.UsoaClass,
		Description:   a.Description,
		IsActive:      a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
