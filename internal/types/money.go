// README: Common money value object used across modules.
package types

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Negative reports whether the amount is below zero.
func (m Money) Negative() bool {
	return m.Amount < 0
}
