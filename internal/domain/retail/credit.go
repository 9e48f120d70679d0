package retail

import "github.com/shopspring/decimal"

// CreditBalance пересчитывает долг клиента по журналу операций.
// CurrentCredit клиента является кэшем этого значения.
func CreditBalance(txs []CreditTransaction) decimal.Decimal {
	balance := decimal.Zero
	// журнал хранится от новых к старым, считаем в хронологическом порядке
	for i := len(txs) - 1; i >= 0; i-- {
		switch txs[i].Type {
		case CreditCharge:
			balance = balance.Add(txs[i].Amount)
		case CreditPayment:
			balance = balance.Sub(txs[i].Amount)
		}
		if balance.IsNegative() {
			balance = decimal.Zero
		}
	}
	return balance
}
