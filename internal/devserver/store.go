package devserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"toolrental-console/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

// rejection is a business rule violation reported to the caller as {"message": ...}
type rejection struct {
	kind error
	msg  string
}

func (r *rejection) Error() string { return r.msg }
func (r *rejection) Unwrap() error { return r.kind }

func notFound(format string, args ...any) error {
	return &rejection{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &rejection{kind: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

var movementIDs = map[string]int64{
	domain.MovementIncome:   1,
	domain.MovementLoan:     2,
	domain.MovementReturn:   3,
	domain.MovementRepair:   4,
	domain.MovementWriteOff: 5,
}

func movement(name string) domain.StateRef {
	return domain.StateRef{ID: movementIDs[name], Name: name}
}

// Store is the in-memory state of the reference backend. Its fine and overdue
// rules are placeholders good enough to exercise the console.
type Store struct {
	mu      sync.Mutex
	today   func() domain.Date
	nextID  int64
	tools   map[int64]domain.Tool
	clients map[int64]domain.Client
	loans   map[int64]domain.Loan
	kardex  []domain.KardexEntry
}

// NewStore creates a store seeded with a few clients
func NewStore() *Store {
	s := &Store{
		today:   domain.Today,
		tools:   make(map[int64]domain.Tool),
		clients: make(map[int64]domain.Client),
		loans:   make(map[int64]domain.Loan),
	}
	for _, c := range []domain.Client{
		{Name: "Ana Rojas", CurrentState: domain.ClientStateActive},
		{Name: "Luis Soto", CurrentState: domain.ClientStateActive},
		{Name: "Marta Díaz", CurrentState: domain.ClientStateInactive},
	} {
		c.ID = s.id()
		s.clients[c.ID] = c
	}
	return s
}

// SetToday replaces the clock used for overdue and fine calculations
func (s *Store) SetToday(fn func() domain.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = fn
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) record(tool domain.Tool, kind string, qty int, client *domain.Client, loanID int64) {
	e := domain.KardexEntry{
		ID:           s.id(),
		MovementDate: s.today(),
		Tool:         domain.EntityRef{ID: tool.ID, Name: tool.Name},
		Type:         movement(kind),
		Quantity:     qty,
	}
	if client != nil {
		e.Client = &domain.EntityRef{ID: client.ID, Name: client.Name}
	}
	if loanID != 0 {
		e.Loan = &domain.EntityRef{ID: loanID}
	}
	s.kardex = append(s.kardex, e)
}

// Tools

func (s *Store) ListTools() []domain.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.tools, func(t domain.Tool) int64 { return t.ID })
}

func (s *Store) GetTool(id int64) (domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tools[id]
	if !ok {
		return domain.Tool{}, notFound("Herramienta %d no encontrada", id)
	}
	return t, nil
}

func (s *Store) CreateTool(t domain.Tool) (domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkTool(t); err != nil {
		return domain.Tool{}, err
	}
	for _, existing := range s.tools {
		if strings.EqualFold(existing.Identifier, t.Identifier) {
			return domain.Tool{}, invalid("Ya existe una herramienta con el identificador %s", t.Identifier)
		}
	}
	if !t.CurrentState.Valid() {
		t.CurrentState = domain.ToolStateAvailable
	}
	t.ID = s.id()
	s.tools[t.ID] = t
	s.record(t, domain.MovementIncome, t.Stock, nil, 0)
	return t, nil
}

func (s *Store) UpdateTool(t domain.Tool) (domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tools[t.ID]
	if !ok {
		return domain.Tool{}, notFound("Herramienta %d no encontrada", t.ID)
	}
	if err := checkTool(t); err != nil {
		return domain.Tool{}, err
	}
	if !t.CurrentState.Valid() {
		t.CurrentState = prev.CurrentState
	}
	s.tools[t.ID] = t

	if prev.CurrentState != t.CurrentState {
		switch t.CurrentState {
		case domain.ToolStateInRepair:
			s.record(t, domain.MovementRepair, 1, nil, 0)
		case domain.ToolStateDecommissioned:
			s.record(t, domain.MovementWriteOff, t.Stock, nil, 0)
		}
	}
	return t, nil
}

func checkTool(t domain.Tool) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return invalid("El nombre es obligatorio")
	case strings.TrimSpace(t.Identifier) == "":
		return invalid("El identificador es obligatorio")
	case !t.ReplacementCost.IsPositive(), !t.Price.IsPositive():
		return invalid("Los montos deben ser mayores a 0")
	case t.Stock < 0:
		return invalid("El stock no puede ser negativo")
	}
	return nil
}

// Clients

func (s *Store) ListClients() []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.clients, func(c domain.Client) int64 { return c.ID })
}

func (s *Store) GetClient(id int64) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return domain.Client{}, notFound("Cliente %d no encontrado", id)
	}
	return c, nil
}

func (s *Store) CreateClient(c domain.Client) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(c.Name) == "" {
		return domain.Client{}, invalid("El nombre es obligatorio")
	}
	if !c.CurrentState.Valid() {
		c.CurrentState = domain.ClientStateActive
	}
	c.ID = s.id()
	s.clients[c.ID] = c
	return c, nil
}

func (s *Store) UpdateClient(c domain.Client) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.clients[c.ID]
	if !ok {
		return domain.Client{}, notFound("Cliente %d no encontrado", c.ID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return domain.Client{}, invalid("El nombre es obligatorio")
	}
	if !c.CurrentState.Valid() {
		c.CurrentState = prev.CurrentState
	}
	s.clients[c.ID] = c
	return c, nil
}

// Loans

func (s *Store) ListLoans(r domain.DateRange) []domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loansWhere(func(l domain.Loan) bool { return r.Contains(l.DeliveryDate) })
}

func (s *Store) GetLoan(id int64) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[id]
	if !ok {
		return domain.Loan{}, notFound("Préstamo %d no encontrado", id)
	}
	return l, nil
}

// CreateLoan registers a loan. Any totalFine in the request is ignored.
func (s *Store) CreateLoan(l domain.Loan) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[l.Client.ID]
	if !ok {
		return domain.Loan{}, notFound("Cliente %d no encontrado", l.Client.ID)
	}
	if !client.IsActive() {
		return domain.Loan{}, invalid("El cliente %s no está activo", client.Name)
	}
	for _, other := range s.loans {
		if other.Client.ID == client.ID && other.CurrentState == domain.LoanStatusOverdue {
			return domain.Loan{}, invalid("El cliente %s tiene préstamos atrasados", client.Name)
		}
	}

	tool, ok := s.tools[l.Tool.ID]
	if !ok {
		return domain.Loan{}, notFound("Herramienta %d no encontrada", l.Tool.ID)
	}
	if !tool.IsAvailable() || tool.Stock < 1 {
		return domain.Loan{}, invalid("La herramienta %s no está disponible", tool.Name)
	}

	if l.DeliveryDate.IsZero() || l.ReturnDate.IsZero() {
		return domain.Loan{}, invalid("Las fechas del préstamo son obligatorias")
	}
	if l.ReturnDate.Before(l.DeliveryDate) {
		return domain.Loan{}, invalid("La fecha de devolución no puede ser anterior a la de entrega")
	}
	if !l.DailyFineRate.IsPositive() {
		return domain.Loan{}, invalid("La tarifa de multa diaria debe ser mayor a 0")
	}

	l.ID = s.id()
	l.Client = domain.EntityRef{ID: client.ID, Name: client.Name}
	l.Tool = domain.EntityRef{ID: tool.ID, Name: tool.Name}
	l.Damaged = false
	l.TotalFine = nil
	l.CurrentState = domain.LoanStatusInProcess
	s.loans[l.ID] = l

	tool.Stock--
	if tool.Stock == 0 {
		tool.CurrentState = domain.ToolStateLoaned
	}
	s.tools[tool.ID] = tool
	s.record(tool, domain.MovementLoan, 1, &client, l.ID)
	return l, nil
}

// ReturnLoan closes a loan. The fine is one daily rate per day past the agreed
// return date; a loan with no fine completes immediately.
func (s *Store) ReturnLoan(id int64, damaged bool) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loans[id]
	if !ok {
		return domain.Loan{}, notFound("Préstamo %d no encontrado", id)
	}
	if l.CurrentState == domain.LoanStatusReturned || l.CurrentState == domain.LoanStatusCompleted {
		return domain.Loan{}, invalid("El préstamo %d ya fue devuelto", id)
	}

	today := s.today()
	fine := decimal.Zero
	if late := l.ReturnDate.DaysUntil(today); late > 0 {
		fine = l.DailyFineRate.Mul(decimal.NewFromInt(int64(late)))
	}
	l.Damaged = damaged
	l.TotalFine = &fine
	if fine.IsPositive() {
		l.CurrentState = domain.LoanStatusReturned
	} else {
		l.CurrentState = domain.LoanStatusCompleted
	}
	s.loans[id] = l

	if tool, ok := s.tools[l.Tool.ID]; ok {
		tool.Stock++
		if damaged {
			tool.CurrentState = domain.ToolStateInRepair
		} else if tool.CurrentState == domain.ToolStateLoaned {
			tool.CurrentState = domain.ToolStateAvailable
		}
		s.tools[tool.ID] = tool
		client := s.clients[l.Client.ID]
		s.record(tool, domain.MovementReturn, 1, &client, id)
		if damaged {
			s.record(tool, domain.MovementRepair, 1, nil, id)
		}
	}
	return l, nil
}

func (s *Store) PayFine(id int64) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loans[id]
	if !ok {
		return domain.Loan{}, notFound("Préstamo %d no encontrado", id)
	}
	if l.CurrentState != domain.LoanStatusReturned || !l.HasOutstandingFine() {
		return domain.Loan{}, invalid("El préstamo %d no tiene multas pendientes", id)
	}
	l.CurrentState = domain.LoanStatusCompleted
	s.loans[id] = l
	return l, nil
}

// MarkOverdueLoans flags in-process loans past their return date. Returns how many changed.
func (s *Store) MarkOverdueLoans() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	changed := 0
	for id, l := range s.loans {
		if l.CurrentState == domain.LoanStatusInProcess && l.ReturnDate.Before(today) {
			l.CurrentState = domain.LoanStatusOverdue
			s.loans[id] = l
			changed++
		}
	}
	return changed
}

func (s *Store) ActiveLoans(r domain.DateRange) []domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loansWhere(func(l domain.Loan) bool {
		active := l.CurrentState == domain.LoanStatusInProcess || l.CurrentState == domain.LoanStatusOverdue
		return active && r.Contains(l.DeliveryDate)
	})
}

func (s *Store) DelayedClients() []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]domain.Client)
	for _, l := range s.loans {
		if l.CurrentState == domain.LoanStatusOverdue {
			if c, ok := s.clients[l.Client.ID]; ok {
				seen[c.ID] = c
			}
		}
	}
	return sortedValues(seen, func(c domain.Client) int64 { return c.ID })
}

func (s *Store) Ranking(r domain.DateRange) []domain.RankingRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64)
	for _, l := range s.loans {
		if r.Contains(l.DeliveryDate) {
			counts[l.Tool.Name]++
		}
	}
	rows := make([]domain.RankingRow, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, domain.RankingRow{ToolName: name, TotalLoans: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalLoans != rows[j].TotalLoans {
			return rows[i].TotalLoans > rows[j].TotalLoans
		}
		return rows[i].ToolName < rows[j].ToolName
	})
	return rows
}

// Kardex

func (s *Store) Kardex(f domain.KardexFilter) []domain.KardexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.KardexEntry, 0, len(s.kardex))
	for _, e := range s.kardex {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) KardexEntry(id int64) (domain.KardexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.kardex {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.KardexEntry{}, notFound("Movimiento %d no encontrado", id)
}

func (s *Store) loansWhere(keep func(domain.Loan) bool) []domain.Loan {
	out := make([]domain.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
