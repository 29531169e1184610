package viewmodel

import (
	"context"
	"log/slog"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

type ListState[T any] struct {
	Rows    []T
	Loading bool
	Error   string
}

// ResourceList loads a collection on mount and shows it as returned by the backend
type ResourceList[T any] struct {
	name  string
	list  func(context.Context) ([]T, error)
	log   *slog.Logger
	store *store[ListState[T]]
	life  lifecycle
}

func NewResourceList[T any](name string, list func(context.Context) ([]T, error)) *ResourceList[T] {
	return &ResourceList[T]{
		name:  name,
		list:  list,
		log:   logger.WithComponent(name),
		store: newStore(ListState[T]{}),
	}
}

func NewToolList(tools gateway.ToolGateway) *ResourceList[domain.Tool] {
	return NewResourceList("tool_list", tools.List)
}

func NewClientList(clients gateway.ClientGateway) *ResourceList[domain.Client] {
	return NewResourceList("client_list", clients.List)
}

func (vm *ResourceList[T]) State() ListState[T] { return vm.store.get() }

func (vm *ResourceList[T]) OnChange(fn func(ListState[T])) { vm.store.setOnChange(fn) }

func (vm *ResourceList[T]) Mount(parent context.Context) error {
	return vm.load(vm.life.mount(parent))
}

func (vm *ResourceList[T]) Unmount() { vm.life.unmount() }

// Load re-fetches the whole collection
func (vm *ResourceList[T]) Load(ctx context.Context) error {
	ctx, cancel := vm.life.bind(ctx)
	defer cancel()
	return vm.load(ctx)
}

func (vm *ResourceList[T]) load(ctx context.Context) error {
	ticket := vm.store.ticket(func(s *ListState[T]) { s.Loading = true })

	rows, err := vm.list(ctx)
	if ctx.Err() != nil {
		if vm.life.active() {
			vm.store.settle(ticket, func(s *ListState[T]) { s.Loading = false })
		}
		return ctx.Err()
	}

	applied := vm.store.apply(ticket, func(s *ListState[T]) {
		s.Loading = false
		if err != nil {
			s.Error = userMessage(err)
			return
		}
		s.Rows = rows
		s.Error = ""
	})
	if applied && err != nil {
		vm.log.Error("Failed to load list", "error", err)
		return err
	}
	return nil
}
