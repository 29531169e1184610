package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, the backend rejects quoted decimals
	decimal.MarshalJSONWithoutQuotes = true
}

type Tool struct {
	ID              int64           `json:"id,omitempty"`
	Identifier      string          `json:"toolIdentifier"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	ReplacementCost decimal.Decimal `json:"replacementCost"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	CurrentState    ToolState       `json:"currentState"`
}

// IsAvailable reports whether the tool can be lent out
func (t Tool) IsAvailable() bool {
	return t.CurrentState == ToolStateAvailable
}
