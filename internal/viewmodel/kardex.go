package viewmodel

import (
	"context"
	"log/slog"
	"sync"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

type KardexState struct {
	Entries []domain.KardexEntry
	// Tools feeds the tool selector of the filter
	Tools []domain.Tool
	// ToolsError is set when the selector could not be loaded; the ledger stays usable
	ToolsError string
	Filter     domain.KardexFilter
	Loading    bool
	Error      string
}

// Kardex is the inventory ledger screen
type Kardex struct {
	kardex gateway.KardexGateway
	tools  gateway.ToolGateway
	log    *slog.Logger
	store  *store[KardexState]
	life   lifecycle
}

func NewKardex(kardex gateway.KardexGateway, tools gateway.ToolGateway) *Kardex {
	return &Kardex{
		kardex: kardex,
		tools:  tools,
		log:    logger.WithComponent("kardex"),
		store:  newStore(KardexState{}),
	}
}

func (vm *Kardex) State() KardexState { return vm.store.get() }

func (vm *Kardex) OnChange(fn func(KardexState)) { vm.store.setOnChange(fn) }

// Mount loads the ledger and the tool selector in parallel. Only a ledger
// failure is returned; a selector failure is recorded in ToolsError.
func (vm *Kardex) Mount(parent context.Context) error {
	ctx := vm.life.mount(parent)

	var (
		wg       sync.WaitGroup
		entryErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		entryErr = vm.fetch(ctx, domain.KardexFilter{}, vm.kardex.List)
	}()
	go func() {
		defer wg.Done()
		tools, err := vm.tools.List(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			vm.log.Warn("Failed to load tools for kardex filter", "error", err)
			vm.store.update(func(s *KardexState) { s.ToolsError = userMessage(err) })
			return
		}
		vm.store.update(func(s *KardexState) {
			s.Tools = tools
			s.ToolsError = ""
		})
	}()
	wg.Wait()

	if entryErr == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return entryErr
}

func (vm *Kardex) Unmount() { vm.life.unmount() }

// Filter queries the ledger by optional tool and date bounds
func (vm *Kardex) Filter(ctx context.Context, f domain.KardexFilter) error {
	ctx, cancel := vm.life.bind(ctx)
	defer cancel()
	return vm.fetch(ctx, f, func(ctx context.Context) ([]domain.KardexEntry, error) {
		return vm.kardex.Filter(ctx, f)
	})
}

// Clear resets tool and dates and reloads the full ledger
func (vm *Kardex) Clear(ctx context.Context) error {
	ctx, cancel := vm.life.bind(ctx)
	defer cancel()
	return vm.fetch(ctx, domain.KardexFilter{}, vm.kardex.List)
}

func (vm *Kardex) fetch(ctx context.Context, f domain.KardexFilter, query func(context.Context) ([]domain.KardexEntry, error)) error {
	ticket := vm.store.ticket(func(s *KardexState) { s.Loading = true })

	entries, err := query(ctx)
	if ctx.Err() != nil {
		if vm.life.active() {
			vm.store.settle(ticket, func(s *KardexState) { s.Loading = false })
		}
		return ctx.Err()
	}

	applied := vm.store.apply(ticket, func(s *KardexState) {
		s.Loading = false
		if err != nil {
			s.Error = userMessage(err)
			return
		}
		s.Entries = entries
		s.Filter = f
		s.Error = ""
	})
	if applied && err != nil {
		vm.log.Error("Failed to load kardex", "error", err)
		return err
	}
	return nil
}
