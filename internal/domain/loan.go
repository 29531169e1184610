package domain

import "github.com/shopspring/decimal"

type Loan struct {
	ID            int64           `json:"id,omitempty"`
	Client        EntityRef       `json:"client"`
	Tool          EntityRef       `json:"tool"`
	DeliveryDate  Date            `json:"deliveryDate"`
	ReturnDate    Date            `json:"returnDate"`
	Damaged       bool            `json:"damaged"`
	DailyFineRate decimal.Decimal `json:"dailyFineRate"`
	// Computed by the backend, nil until it has been
	TotalFine    *decimal.Decimal `json:"totalFine,omitempty"`
	CurrentState LoanStatus       `json:"currentState"`
}

// HasOutstandingFine reports whether the backend has charged a positive fine
func (l Loan) HasOutstandingFine() bool {
	return l.TotalFine != nil && l.TotalFine.IsPositive()
}

// FineOrZero returns the computed fine, zero when absent
func (l Loan) FineOrZero() decimal.Decimal {
	if l.TotalFine == nil {
		return decimal.Zero
	}
	return *l.TotalFine
}

// RankingRow is a row of the tool popularity report
type RankingRow struct {
	ToolName   string `json:"toolName"`
	TotalLoans int64  `json:"totalLoans"`
}
