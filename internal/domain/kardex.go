package domain

// Movement types recorded by the backend ledger
const (
	MovementIncome   = "Ingreso"
	MovementLoan     = "Préstamo"
	MovementReturn   = "Devolución"
	MovementRepair   = "Reparación"
	MovementWriteOff = "Baja"
)

// KardexEntry is one read-only movement of the inventory ledger
type KardexEntry struct {
	ID           int64      `json:"id"`
	MovementDate Date       `json:"movementDate"`
	Tool         EntityRef  `json:"tool"`
	Type         StateRef   `json:"type"`
	Quantity     int        `json:"quantity"`
	Client       *EntityRef `json:"client,omitempty"`
	Loan         *EntityRef `json:"loan,omitempty"`
}

// KardexFilter narrows the ledger by tool and movement date. Zero value means no filter.
type KardexFilter struct {
	ToolID *int64
	Range  DateRange
}

func (f KardexFilter) IsEmpty() bool {
	return f.ToolID == nil && f.Range.IsUnbounded()
}

// Matches reports whether e satisfies the filter
func (f KardexFilter) Matches(e KardexEntry) bool {
	if f.ToolID != nil && e.Tool.ID != *f.ToolID {
		return false
	}
	return f.Range.Contains(e.MovementDate)
}
