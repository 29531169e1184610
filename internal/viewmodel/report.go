package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

type PanelState[T any] struct {
	Rows    []T
	Filter  domain.DateRange
	Loading bool
	Error   string
}

// Panel is one report table with its own filter. A panel built without a
// filter query rejects Filter with ErrFilterUnsupported.
type Panel[T any] struct {
	name   string
	load   func(context.Context) ([]T, error)
	filter func(context.Context, domain.DateRange) ([]T, error)
	log    *slog.Logger
	store  *store[PanelState[T]]
	life   *lifecycle
}

func newPanel[T any](
	name string,
	life *lifecycle,
	load func(context.Context) ([]T, error),
	filter func(context.Context, domain.DateRange) ([]T, error),
) *Panel[T] {
	return &Panel[T]{
		name:   name,
		load:   load,
		filter: filter,
		log:    logger.WithComponent("report").With("panel", name),
		store:  newStore(PanelState[T]{}),
		life:   life,
	}
}

func (p *Panel[T]) Name() string { return p.name }

func (p *Panel[T]) State() PanelState[T] { return p.store.get() }

func (p *Panel[T]) OnChange(fn func(PanelState[T])) { p.store.setOnChange(fn) }

// Filterable reports whether the panel offers a date filter
func (p *Panel[T]) Filterable() bool { return p.filter != nil }

// Load runs the unfiltered query
func (p *Panel[T]) Load(ctx context.Context) error {
	ctx, cancel := p.life.bind(ctx)
	defer cancel()
	return p.run(ctx, domain.DateRange{}, p.load)
}

func (p *Panel[T]) Filter(ctx context.Context, r domain.DateRange) error {
	if p.filter == nil {
		return ErrFilterUnsupported
	}
	ctx, cancel := p.life.bind(ctx)
	defer cancel()
	return p.run(ctx, r, func(ctx context.Context) ([]T, error) {
		return p.filter(ctx, r)
	})
}

// Clear resets the bounds and reloads
func (p *Panel[T]) Clear(ctx context.Context) error {
	return p.Load(ctx)
}

func (p *Panel[T]) run(ctx context.Context, r domain.DateRange, query func(context.Context) ([]T, error)) error {
	ticket := p.store.ticket(func(s *PanelState[T]) { s.Loading = true })

	rows, err := query(ctx)
	if ctx.Err() != nil {
		if p.life.active() {
			p.store.settle(ticket, func(s *PanelState[T]) { s.Loading = false })
		}
		return ctx.Err()
	}

	applied := p.store.apply(ticket, func(s *PanelState[T]) {
		s.Loading = false
		if err != nil {
			s.Error = userMessage(err)
			return
		}
		// Bounds only move together with the rows they produced
		s.Rows = rows
		s.Filter = r
		s.Error = ""
	})
	if applied && err != nil {
		p.log.Error("Failed to load report panel", "filter", r.String(), "error", err)
		return err
	}
	return nil
}

// Report is the reports screen: active loans, clients with overdue loans and the tool ranking
type Report struct {
	ActiveLoans    *Panel[domain.Loan]
	DelayedClients *Panel[domain.Client]
	Ranking        *Panel[domain.RankingRow]

	life *lifecycle
}

func NewReport(loans gateway.LoanGateway) *Report {
	life := &lifecycle{}
	return &Report{
		ActiveLoans:    newPanel("active_loans", life, loans.ActiveLoans, loans.ActiveLoansByDate),
		DelayedClients: newPanel[domain.Client]("delayed_clients", life, loans.DelayedClients, nil),
		Ranking:        newPanel("ranking", life, loans.Ranking, loans.RankingByDate),
		life:           life,
	}
}

// Mount loads the three panels in parallel. A failing panel keeps its error
// message and does not stop the others.
func (r *Report) Mount(parent context.Context) error {
	ctx := r.life.mount(parent)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 3)
	)
	loads := []func(context.Context) error{
		r.ActiveLoans.Load,
		r.DelayedClients.Load,
		r.Ranking.Load,
	}
	for i, load := range loads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = load(ctx)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (r *Report) Unmount() { r.life.unmount() }
