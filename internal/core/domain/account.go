package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide identifies the side of the ledger an amount sits on.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalSide returns the normal balance side for the account type.
// Assets and expenses carry debit balances; the rest carry credit balances.
func (t AccountType) NormalSide() BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Account is immutable reference data owned by the chart of accounts.
// The posting engine only reads it.
type Account struct {
	AccountID     string      `json:"accountID"`     // Primary key (UUID)
	Code          string      `json:"code"`          // Unique account code, e.g. "1010"
	Name          string      `json:"name"`          // Display name
	AccountType   AccountType `json:"accountType"`   // ASSET, LIABILITY, etc.
	NormalBalance BalanceSide `json:"normalBalance"` // Derived from AccountType at creation
	UsoaClass     string      `json:"usoaClass"`     // USOA class for regulatory reporting, nullable
	Description   string      `json:"description"`   // Nullable
	IsActive      bool        `json:"isActive"`
	AuditFields
}
