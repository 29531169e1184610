package viewmodel

import "toolrental-console/internal/domain"

// LoanActions are the row actions offered for one loan
type LoanActions struct {
	Return  bool
	PayFine bool
}

// LoanActionsFor derives the row actions from the loan status. Return is
// offered until the loan is Returned or Completed; Pay Fine only for a
// Returned loan with a positive fine.
func LoanActionsFor(loan domain.Loan) LoanActions {
	switch loan.CurrentState {
	case domain.LoanStatusCompleted:
		return LoanActions{}
	case domain.LoanStatusReturned:
		return LoanActions{PayFine: loan.HasOutstandingFine()}
	case domain.LoanStatusInProcess, domain.LoanStatusOverdue:
		return LoanActions{Return: true}
	default:
		// Unrecognized labels are not terminal
		return LoanActions{Return: true}
	}
}
