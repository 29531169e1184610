package viewmodel

import (
	"context"
	"log/slog"
	"sync"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

// LoanRow is a listed loan with its derived actions
type LoanRow struct {
	Loan    domain.Loan
	Actions LoanActions
}

type LoanListState struct {
	Rows    []LoanRow
	Filter  domain.DateRange
	Loading bool
	Error   string
}

// LoanList is the loan list screen. It never patches rows in place: every
// mutation is followed by a full re-fetch.
type LoanList struct {
	loans  gateway.LoanGateway
	nav    Navigator
	policy RefreshPolicy
	log    *slog.Logger
	store  *store[LoanListState]
	life   lifecycle
}

func NewLoanList(loans gateway.LoanGateway, nav Navigator, policy RefreshPolicy) *LoanList {
	return &LoanList{
		loans:  loans,
		nav:    nav,
		policy: policy,
		log:    logger.WithComponent("loan_list"),
		store:  newStore(LoanListState{}),
	}
}

func (vm *LoanList) State() LoanListState { return vm.store.get() }

func (vm *LoanList) OnChange(fn func(LoanListState)) { vm.store.setOnChange(fn) }

func (vm *LoanList) Policy() RefreshPolicy { return vm.policy }

// Mount refreshes overdue statuses and loads the unfiltered list according to the policy
func (vm *LoanList) Mount(parent context.Context) error {
	ctx := vm.life.mount(parent)

	if vm.policy == RefreshConcurrentStale {
		var (
			wg      sync.WaitGroup
			listErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			vm.markOverdue(ctx)
		}()
		go func() {
			defer wg.Done()
			listErr = vm.fetch(ctx, domain.DateRange{}, vm.loans.List)
		}()
		wg.Wait()
		return listErr
	}

	vm.markOverdue(ctx)
	return vm.fetch(ctx, domain.DateRange{}, vm.loans.List)
}

// Unmount cancels in-flight requests; their responses are dropped
func (vm *LoanList) Unmount() {
	vm.life.unmount()
}

// Reload re-fetches the unfiltered list
func (vm *LoanList) Reload(ctx context.Context) error {
	ctx, cancel := vm.life.bind(ctx)
	defer cancel()
	return vm.fetch(ctx, domain.DateRange{}, vm.loans.List)
}

func (vm *LoanList) Filter(ctx context.Context, r domain.DateRange) error {
	ctx, cancel := vm.life.bind(ctx)
	defer cancel()
	return vm.fetch(ctx, r, func(ctx context.Context) ([]domain.Loan, error) {
		return vm.loans.FilterByDate(ctx, r)
	})
}

// Clear drops the date filter and reloads
func (vm *LoanList) Clear(ctx context.Context) error {
	return vm.Reload(ctx)
}

// Return opens the return form for a loan that still offers it
func (vm *LoanList) Return(id int64) error {
	row, err := vm.row(id)
	if err != nil {
		return err
	}
	if !row.Actions.Return {
		return ErrActionUnavailable
	}
	navigate(vm.nav, LoanReturnRoute(id))
	return nil
}

// ReturnLoan submits the listed loan as returned without changes and reloads the list
func (vm *LoanList) ReturnLoan(ctx context.Context, id int64) error {
	return vm.mutate(ctx, id, "return", func(a LoanActions) bool { return a.Return }, vm.loans.ReturnLoan)
}

// PayFine settles the fine of a returned loan and reloads the list
func (vm *LoanList) PayFine(ctx context.Context, id int64) error {
	return vm.mutate(ctx, id, "pay_fine", func(a LoanActions) bool { return a.PayFine }, vm.loans.PayFine)
}

func (vm *LoanList) mutate(
	ctx context.Context,
	id int64,
	operation string,
	allowed func(LoanActions) bool,
	call func(context.Context, *domain.Loan) (*domain.Loan, error),
) error {
	row, err := vm.row(id)
	if err != nil {
		return err
	}
	if !allowed(row.Actions) {
		return ErrActionUnavailable
	}

	ctx, cancel := vm.life.bind(ctx)
	defer cancel()

	loan := row.Loan
	if _, err := call(ctx, &loan); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		vm.log.Error("Loan action failed", "operation", operation, "loan_id", id, "error", err)
		vm.store.update(func(s *LoanListState) { s.Error = userMessage(err) })
		return err
	}
	vm.log.Info("Loan action completed", "operation", operation, "loan_id", id)

	return vm.fetch(ctx, domain.DateRange{}, vm.loans.List)
}

func (vm *LoanList) row(id int64) (LoanRow, error) {
	for _, r := range vm.store.get().Rows {
		if r.Loan.ID == id {
			return r, nil
		}
	}
	return LoanRow{}, ErrLoanNotListed
}

func (vm *LoanList) markOverdue(ctx context.Context) {
	if err := vm.loans.MarkOverdueLoans(ctx); err != nil {
		// The list is still shown, possibly with stale statuses
		vm.log.Warn("Overdue refresh failed", "policy", vm.policy.String(), "error", err)
	}
}

func (vm *LoanList) fetch(ctx context.Context, r domain.DateRange, query func(context.Context) ([]domain.Loan, error)) error {
	ticket := vm.store.ticket(func(s *LoanListState) { s.Loading = true })

	loans, err := query(ctx)
	if ctx.Err() != nil {
		vm.log.Debug("Dropping loan list response after cancellation", "ticket", ticket)
		if vm.life.active() {
			vm.store.settle(ticket, func(s *LoanListState) { s.Loading = false })
		}
		return ctx.Err()
	}

	applied := vm.store.apply(ticket, func(s *LoanListState) {
		s.Loading = false
		if err != nil {
			s.Error = userMessage(err)
			return
		}
		s.Rows = loanRows(loans)
		s.Filter = r
		s.Error = ""
	})
	if !applied {
		vm.log.Debug("Dropping out-of-order loan list response", "ticket", ticket)
		return nil
	}
	if err != nil {
		vm.log.Error("Failed to load loans", "filter", r.String(), "error", err)
		return err
	}
	return nil
}

func loanRows(loans []domain.Loan) []LoanRow {
	rows := make([]LoanRow, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, LoanRow{Loan: l, Actions: LoanActionsFor(l)})
	}
	return rows
}
