package viewmodel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

type ClientDraft struct {
	Name  string
	State domain.ClientState
}

type ClientFormState struct {
	ID      int64
	Mode    FormMode
	Draft   ClientDraft
	Loading bool
	Saving  bool
	Saved   bool
	Error   string
}

func ValidateClient(d ClientDraft) (domain.Client, error) {
	if !requiredText(d.Name) {
		return domain.Client{}, invalid(MsgNameRequired)
	}
	state := d.State
	if !state.Valid() {
		state = domain.ClientStateActive
	}
	return domain.Client{Name: strings.TrimSpace(d.Name), CurrentState: state}, nil
}

type ClientForm struct {
	clients gateway.ClientGateway
	nav     Navigator
	log     *slog.Logger
	store   *store[ClientFormState]
	life    lifecycle
}

func NewClientForm(clients gateway.ClientGateway, nav Navigator) *ClientForm {
	return &ClientForm{
		clients: clients,
		nav:     nav,
		log:     logger.WithComponent("client_form"),
		store:   newStore(ClientFormState{Draft: ClientDraft{State: domain.ClientStateActive}}),
	}
}

func (vm *ClientForm) State() ClientFormState { return vm.store.get() }

func (vm *ClientForm) OnChange(fn func(ClientFormState)) { vm.store.setOnChange(fn) }

func (vm *ClientForm) Mount(parent context.Context, id int64) error {
	ctx := vm.life.mount(parent)

	if id == 0 {
		vm.store.update(func(s *ClientFormState) {
			*s = ClientFormState{Mode: ModeCreate, Draft: ClientDraft{State: domain.ClientStateActive}}
		})
		return nil
	}

	vm.store.update(func(s *ClientFormState) {
		*s = ClientFormState{ID: id, Mode: ModeEdit, Loading: true}
	})
	client, err := vm.clients.Get(ctx, id)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to load client", "client_id", id, "error", err)
		vm.store.update(func(s *ClientFormState) {
			s.Loading = false
			s.Error = userMessage(err)
		})
		return err
	}
	state := client.CurrentState
	if !state.Valid() {
		state = domain.ClientStateActive
	}
	vm.store.update(func(s *ClientFormState) {
		s.Loading = false
		s.Draft = ClientDraft{Name: client.Name, State: state}
	})
	return nil
}

func (vm *ClientForm) Unmount() { vm.life.unmount() }

func (vm *ClientForm) SetName(name string) {
	vm.store.update(func(s *ClientFormState) {
		s.Draft.Name = name
		s.Error = ""
	})
}

// SetState selects the client state. Values outside domain.ClientStates panic.
func (vm *ClientForm) SetState(state domain.ClientState) {
	if !state.Valid() {
		panic(fmt.Sprintf("viewmodel: client state %d is not selectable", int(state)))
	}
	vm.store.update(func(s *ClientFormState) { s.Draft.State = state })
}

func (vm *ClientForm) Submit(ctx context.Context) error {
	st := vm.store.get()
	client, err := ValidateClient(st.Draft)
	if err != nil {
		vm.store.update(func(s *ClientFormState) { s.Error = gateway.MessageOf(err) })
		return err
	}

	ctx, cancel := vm.life.bind(ctx)
	defer cancel()

	vm.store.update(func(s *ClientFormState) { s.Saving = true })
	if st.Mode == ModeEdit {
		client.ID = st.ID
		_, err = vm.clients.Update(ctx, &client)
	} else {
		_, err = vm.clients.Create(ctx, &client)
	}
	if ctx.Err() != nil {
		if vm.life.active() {
			vm.store.update(func(s *ClientFormState) { s.Saving = false })
		}
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to save client", "mode", st.Mode.String(), "client_id", st.ID, "error", err)
		vm.store.update(func(s *ClientFormState) {
			s.Saving = false
			s.Error = userMessage(err)
		})
		return err
	}

	vm.log.Info("Client saved", "mode", st.Mode.String(), "name", client.Name)
	vm.store.update(func(s *ClientFormState) {
		s.Saving = false
		s.Saved = true
		s.Error = ""
	})
	navigate(vm.nav, RouteClientList)
	return nil
}
