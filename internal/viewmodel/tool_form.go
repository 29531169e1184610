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

type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
	// ModeReturn is the edit mode of a loan: only the damage flag can change
	ModeReturn
)

func (m FormMode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeReturn:
		return "return"
	default:
		return fmt.Sprintf("FormMode(%d)", int(m))
	}
}

// ToolDraft holds the tool fields as typed by the user
type ToolDraft struct {
	Identifier      string
	Name            string
	Category        string
	ReplacementCost string
	Price           string
	Stock           string
	State           domain.ToolState
}

type ToolFormState struct {
	ID      int64
	Mode    FormMode
	Draft   ToolDraft
	Loading bool
	Saving  bool
	Saved   bool
	Error   string
}

// ValidateTool checks a draft in a fixed order and stops at the first failure:
// name, category and identifier, then replacement cost and price, then stock.
func ValidateTool(d ToolDraft) (domain.Tool, error) {
	if !requiredText(d.Name) {
		return domain.Tool{}, invalid(MsgNameRequired)
	}
	if !requiredText(d.Category) {
		return domain.Tool{}, invalid(MsgCategoryRequired)
	}
	if !requiredText(d.Identifier) {
		return domain.Tool{}, invalid(MsgIdentifierRequired)
	}

	cost, ok := positiveNumber(d.ReplacementCost)
	if !ok {
		return domain.Tool{}, invalid(MsgReplacementCost)
	}
	price, ok := positiveNumber(d.Price)
	if !ok {
		return domain.Tool{}, invalid(MsgPrice)
	}

	stock, ok := nonNegativeInt(d.Stock)
	if !ok {
		return domain.Tool{}, invalid(MsgStock)
	}

	state := d.State
	if !state.Valid() {
		state = domain.ToolStateAvailable
	}

	return domain.Tool{
		Identifier:      strings.TrimSpace(d.Identifier),
		Name:            strings.TrimSpace(d.Name),
		Category:        strings.TrimSpace(d.Category),
		ReplacementCost: cost,
		Price:           price,
		Stock:           stock,
		CurrentState:    state,
	}, nil
}

func toolDraftOf(t domain.Tool) ToolDraft {
	state := t.CurrentState
	if !state.Valid() {
		state = domain.ToolStateAvailable
	}
	return ToolDraft{
		Identifier:      t.Identifier,
		Name:            t.Name,
		Category:        t.Category,
		ReplacementCost: t.ReplacementCost.String(),
		Price:           t.Price.String(),
		Stock:           fmt.Sprint(t.Stock),
		State:           state,
	}
}

// ToolForm creates a tool when opened without an id and edits one otherwise
type ToolForm struct {
	tools gateway.ToolGateway
	nav   Navigator
	log   *slog.Logger
	store *store[ToolFormState]
	life  lifecycle
}

func NewToolForm(tools gateway.ToolGateway, nav Navigator) *ToolForm {
	return &ToolForm{
		tools: tools,
		nav:   nav,
		log:   logger.WithComponent("tool_form"),
		store: newStore(ToolFormState{Draft: ToolDraft{State: domain.ToolStateAvailable}}),
	}
}

func (vm *ToolForm) State() ToolFormState { return vm.store.get() }

func (vm *ToolForm) OnChange(fn func(ToolFormState)) { vm.store.setOnChange(fn) }

// Mount opens the form. id 0 means create mode with blank fields.
func (vm *ToolForm) Mount(parent context.Context, id int64) error {
	ctx := vm.life.mount(parent)

	if id == 0 {
		vm.store.update(func(s *ToolFormState) {
			*s = ToolFormState{Mode: ModeCreate, Draft: ToolDraft{State: domain.ToolStateAvailable}}
		})
		return nil
	}

	vm.store.update(func(s *ToolFormState) {
		*s = ToolFormState{ID: id, Mode: ModeEdit, Loading: true}
	})
	tool, err := vm.tools.Get(ctx, id)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to load tool", "tool_id", id, "error", err)
		vm.store.update(func(s *ToolFormState) {
			s.Loading = false
			s.Error = userMessage(err)
		})
		return err
	}
	vm.store.update(func(s *ToolFormState) {
		s.Loading = false
		s.Draft = toolDraftOf(*tool)
	})
	return nil
}

func (vm *ToolForm) Unmount() { vm.life.unmount() }

// SetDraft replaces the typed fields. The state must be one of domain.ToolStates.
func (vm *ToolForm) SetDraft(d ToolDraft) {
	if !d.State.Valid() {
		panic(fmt.Sprintf("viewmodel: tool state %d is not selectable", int(d.State)))
	}
	vm.store.update(func(s *ToolFormState) {
		s.Draft = d
		s.Error = ""
	})
}

// SetState selects the tool state. Values outside domain.ToolStates panic.
func (vm *ToolForm) SetState(state domain.ToolState) {
	if !state.Valid() {
		panic(fmt.Sprintf("viewmodel: tool state %d is not selectable", int(state)))
	}
	vm.store.update(func(s *ToolFormState) { s.Draft.State = state })
}

// DismissError clears the displayed error
func (vm *ToolForm) DismissError() {
	vm.store.update(func(s *ToolFormState) { s.Error = "" })
}

// Submit validates the draft, saves it and returns to the tool list
func (vm *ToolForm) Submit(ctx context.Context) error {
	st := vm.store.get()
	tool, err := ValidateTool(st.Draft)
	if err != nil {
		vm.store.update(func(s *ToolFormState) { s.Error = gateway.MessageOf(err) })
		return err
	}

	ctx, cancel := vm.life.bind(ctx)
	defer cancel()

	vm.store.update(func(s *ToolFormState) { s.Saving = true })
	if st.Mode == ModeEdit {
		tool.ID = st.ID
		_, err = vm.tools.Update(ctx, &tool)
	} else {
		_, err = vm.tools.Create(ctx, &tool)
	}
	if ctx.Err() != nil {
		if vm.life.active() {
			vm.store.update(func(s *ToolFormState) { s.Saving = false })
		}
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to save tool", "mode", st.Mode.String(), "tool_id", st.ID, "error", err)
		vm.store.update(func(s *ToolFormState) {
			s.Saving = false
			s.Error = userMessage(err)
		})
		return err
	}

	vm.log.Info("Tool saved", "mode", st.Mode.String(), "name", tool.Name)
	vm.store.update(func(s *ToolFormState) {
		s.Saving = false
		s.Saved = true
		s.Error = ""
	})
	navigate(vm.nav, RouteToolList)
	return nil
}
