package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

// LoanDraft holds the loan fields as entered. Field order is the validation order.
type LoanDraft struct {
	ClientID      int64  `validate:"required"`
	ToolID        int64  `validate:"required"`
	DeliveryDate  string `validate:"required,isodate"`
	ReturnDate    string `validate:"required,isodate,notbefore=DeliveryDate"`
	DailyFineRate string `validate:"required,positive_decimal"`
	Damaged       bool
}

var loanFieldMessages = map[string]string{
	"ClientID.required":              MsgClientRequired,
	"ToolID.required":                MsgToolRequired,
	"DeliveryDate.required":          MsgDeliveryDateRequired,
	"DeliveryDate.isodate":           MsgDeliveryDateInvalid,
	"ReturnDate.required":            MsgReturnDateRequired,
	"ReturnDate.isodate":             MsgReturnDateInvalid,
	"ReturnDate.notbefore":           MsgReturnBeforeDelivery,
	"DailyFineRate.required":         MsgDailyFineRate,
	"DailyFineRate.positive_decimal": MsgDailyFineRate,
}

var loanValidator = sync.OnceValue(newLoanValidator)

func newLoanValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		_, ok := positiveNumber(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("notbefore", func(fl validator.FieldLevel) bool {
		end, err := domain.ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		other := fl.Parent().FieldByName(fl.Param())
		if !other.IsValid() {
			return false
		}
		start, err := domain.ParseDate(other.String())
		if err != nil {
			// reported on the other field
			return true
		}
		return !end.Before(start)
	})
	return v
}

// ValidateLoan checks a new-loan draft and reports the first failing field
func ValidateLoan(d LoanDraft) (domain.Loan, error) {
	if err := loanValidator().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if msg, ok := loanFieldMessages[fe.StructField()+"."+fe.Tag()]; ok {
				return domain.Loan{}, invalid(msg)
			}
			return domain.Loan{}, invalid(fmt.Sprintf("%s is invalid", fe.Field()))
		}
		return domain.Loan{}, fmt.Errorf("validate loan: %w", err)
	}

	// Already checked by the tags above
	delivery, _ := domain.ParseDate(d.DeliveryDate)
	ret, _ := domain.ParseDate(d.ReturnDate)
	rate, _ := positiveNumber(d.DailyFineRate)

	return domain.Loan{
		Client:        domain.Ref(d.ClientID),
		Tool:          domain.Ref(d.ToolID),
		DeliveryDate:  delivery,
		ReturnDate:    ret,
		Damaged:       d.Damaged,
		DailyFineRate: rate,
	}, nil
}

type LoanFormState struct {
	ID    int64
	Mode  FormMode
	Draft LoanDraft
	// Loan is the loan being returned, as last fetched
	Loan    domain.Loan
	Clients []domain.Client
	Tools   []domain.Tool
	Loading bool
	Saving  bool
	Saved   bool
	Error   string
}

// LoanForm registers a loan when opened without an id and returns one otherwise
type LoanForm struct {
	loans       gateway.LoanGateway
	clients     gateway.ClientGateway
	tools       gateway.ToolGateway
	nav         Navigator
	defaultRate int64
	log         *slog.Logger
	store       *store[LoanFormState]
	life        lifecycle
}

func NewLoanForm(gw *gateway.Gateway, nav Navigator, defaultDailyFineRate int64) *LoanForm {
	return &LoanForm{
		loans:       gw.Loans,
		clients:     gw.Clients,
		tools:       gw.Tools,
		nav:         nav,
		defaultRate: defaultDailyFineRate,
		log:         logger.WithComponent("loan_form"),
		store:       newStore(LoanFormState{}),
	}
}

func (vm *LoanForm) State() LoanFormState { return vm.store.get() }

func (vm *LoanForm) OnChange(fn func(LoanFormState)) { vm.store.setOnChange(fn) }

// Mount opens the form. Without an id the selectable clients and tools are
// loaded in parallel; with an id the loan is fetched for return.
func (vm *LoanForm) Mount(parent context.Context, id int64) error {
	ctx := vm.life.mount(parent)
	if id == 0 {
		return vm.mountCreate(ctx)
	}
	return vm.mountReturn(ctx, id)
}

func (vm *LoanForm) Unmount() { vm.life.unmount() }

func (vm *LoanForm) mountCreate(ctx context.Context) error {
	vm.store.update(func(s *LoanFormState) {
		*s = LoanFormState{
			Mode:    ModeCreate,
			Draft:   LoanDraft{DailyFineRate: decimal.NewFromInt(vm.defaultRate).String()},
			Loading: true,
		}
	})

	var (
		wg                  sync.WaitGroup
		clients             []domain.Client
		tools               []domain.Tool
		clientErr, toolsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		clients, clientErr = vm.clients.List(ctx)
	}()
	go func() {
		defer wg.Done()
		tools, toolsErr = vm.tools.List(ctx)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	err := errors.Join(clientErr, toolsErr)
	if err != nil {
		vm.log.Error("Failed to load loan options", "error", err)
	}
	vm.store.update(func(s *LoanFormState) {
		s.Loading = false
		s.Clients = activeClients(clients)
		s.Tools = availableTools(tools)
		switch {
		case clientErr != nil:
			s.Error = userMessage(clientErr)
		case toolsErr != nil:
			s.Error = userMessage(toolsErr)
		}
	})
	return err
}

func (vm *LoanForm) mountReturn(ctx context.Context, id int64) error {
	vm.store.update(func(s *LoanFormState) {
		*s = LoanFormState{ID: id, Mode: ModeReturn, Loading: true}
	})

	loan, err := vm.loans.Get(ctx, id)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to load loan", "loan_id", id, "error", err)
		vm.store.update(func(s *LoanFormState) {
			s.Loading = false
			s.Error = userMessage(err)
		})
		return err
	}

	vm.store.update(func(s *LoanFormState) {
		s.Loading = false
		s.Loan = *loan
		s.Draft = LoanDraft{
			ClientID:      loan.Client.ID,
			ToolID:        loan.Tool.ID,
			DeliveryDate:  loan.DeliveryDate.String(),
			ReturnDate:    loan.ReturnDate.String(),
			DailyFineRate: loan.DailyFineRate.String(),
			Damaged:       loan.Damaged,
		}
	})
	return nil
}

func (vm *LoanForm) SetClient(id int64) error {
	return vm.edit(func(s *LoanFormState) error {
		for _, c := range s.Clients {
			if c.ID == id {
				s.Draft.ClientID = id
				return nil
			}
		}
		return ErrNotSelectable
	})
}

func (vm *LoanForm) SetTool(id int64) error {
	return vm.edit(func(s *LoanFormState) error {
		for _, t := range s.Tools {
			if t.ID == id {
				s.Draft.ToolID = id
				return nil
			}
		}
		return ErrNotSelectable
	})
}

func (vm *LoanForm) SetDeliveryDate(v string) error {
	return vm.edit(func(s *LoanFormState) error {
		s.Draft.DeliveryDate = strings.TrimSpace(v)
		return nil
	})
}

func (vm *LoanForm) SetReturnDate(v string) error {
	return vm.edit(func(s *LoanFormState) error {
		s.Draft.ReturnDate = strings.TrimSpace(v)
		return nil
	})
}

func (vm *LoanForm) SetDailyFineRate(v string) error {
	return vm.edit(func(s *LoanFormState) error {
		s.Draft.DailyFineRate = strings.TrimSpace(v)
		return nil
	})
}

// SetDamaged is the only field editable in return mode
func (vm *LoanForm) SetDamaged(damaged bool) {
	vm.store.update(func(s *LoanFormState) { s.Draft.Damaged = damaged })
}

// edit applies fn to a create-mode draft; return mode locks every field but Damaged
func (vm *LoanForm) edit(fn func(*LoanFormState) error) error {
	var err error
	vm.store.update(func(s *LoanFormState) {
		if s.Mode == ModeReturn {
			err = ErrFieldLocked
			return
		}
		err = fn(s)
		if err == nil {
			s.Error = ""
		}
	})
	return err
}

// Submit registers the new loan or submits the return, then goes back to the loan list
func (vm *LoanForm) Submit(ctx context.Context) error {
	st := vm.store.get()

	var (
		loan domain.Loan
		err  error
	)
	if st.Mode == ModeReturn {
		if !LoanActionsFor(st.Loan).Return {
			vm.store.update(func(s *LoanFormState) { s.Error = MsgLoanCannotBeReturned })
			return ErrActionUnavailable
		}
		loan = st.Loan
		loan.Damaged = st.Draft.Damaged
		loan.TotalFine = nil
	} else {
		loan, err = ValidateLoan(st.Draft)
		if err != nil {
			vm.store.update(func(s *LoanFormState) { s.Error = gateway.MessageOf(err) })
			return err
		}
	}

	ctx, cancel := vm.life.bind(ctx)
	defer cancel()

	vm.store.update(func(s *LoanFormState) { s.Saving = true })
	if st.Mode == ModeReturn {
		_, err = vm.loans.ReturnLoan(ctx, &loan)
	} else {
		_, err = vm.loans.Create(ctx, &loan)
	}
	if ctx.Err() != nil {
		if vm.life.active() {
			vm.store.update(func(s *LoanFormState) { s.Saving = false })
		}
		return ctx.Err()
	}
	if err != nil {
		vm.log.Error("Failed to save loan", "mode", st.Mode.String(), "loan_id", st.ID, "error", err)
		vm.store.update(func(s *LoanFormState) {
			s.Saving = false
			s.Error = userMessage(err)
		})
		return err
	}

	vm.log.Info("Loan saved", "mode", st.Mode.String(), "loan_id", st.ID, "client_id", loan.Client.ID, "tool_id", loan.Tool.ID)
	vm.store.update(func(s *LoanFormState) {
		s.Saving = false
		s.Saved = true
		s.Error = ""
	})
	navigate(vm.nav, RouteLoanList)
	return nil
}

func activeClients(clients []domain.Client) []domain.Client {
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out
}

func availableTools(tools []domain.Tool) []domain.Tool {
	out := make([]domain.Tool, 0, len(tools))
	for _, t := range tools {
		if t.IsAvailable() {
			out = append(out, t)
		}
	}
	return out
}
