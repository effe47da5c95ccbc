package accounting

import (
	"github.com/shopspring/decimal"
	"github.com/utilikit/gl_posting_app/internal/core/domain"
)

// SignedAmount returns the effect of a journal line on an account's balance.
// A debit increases debit-normal accounts (assets, expenses) and decreases
// credit-normal ones; a credit does the opposite.
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) decimal.Decimal {
	net := line.Debit.Sub(line.Credit)
	if accountType.NormalSide() == domain.CreditSide {
		net = net.Neg()
	}
	return net
}

// LedgerNet returns debit minus credit for a posted ledger entry, the raw
// quantity summed by trial-balance style consumers.
func LedgerNet(entry domain.GeneralLedgerEntry) decimal.Decimal {
	return entry.Debit.Sub(entry.Credit)
}
