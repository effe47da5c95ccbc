package models

// Account is the database shape of a chart-of-accounts row. Read-only for the engine.
type Account struct {
	AccountID     string `json:"accountID"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	NormalBalance string `json:"normalBalance"`
	UsoaClass     string `json:"usoaClass"`
	Description   string `json:"description"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}
