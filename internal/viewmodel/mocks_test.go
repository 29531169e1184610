package viewmodel

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toolrental-console/internal/domain"
)

// MockToolGateway
type MockToolGateway struct {
	mock.Mock
}

func (m *MockToolGateway) List(ctx context.Context) ([]domain.Tool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tool), args.Error(1)
}
func (m *MockToolGateway) Get(ctx context.Context, id int64) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}
func (m *MockToolGateway) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	args := m.Called(ctx, tool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}
func (m *MockToolGateway) Update(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	args := m.Called(ctx, tool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

// MockClientGateway
type MockClientGateway struct {
	mock.Mock
}

func (m *MockClientGateway) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockClientGateway) Get(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientGateway) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientGateway) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// MockLoanGateway
type MockLoanGateway struct {
	mock.Mock
}

func (m *MockLoanGateway) loans(args mock.Arguments) ([]domain.Loan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanGateway) loan(args mock.Arguments) (*domain.Loan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanGateway) List(ctx context.Context) ([]domain.Loan, error) {
	return m.loans(m.Called(ctx))
}
func (m *MockLoanGateway) Get(ctx context.Context, id int64) (*domain.Loan, error) {
	return m.loan(m.Called(ctx, id))
}
func (m *MockLoanGateway) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	return m.loan(m.Called(ctx, loan))
}
func (m *MockLoanGateway) Update(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	return m.loan(m.Called(ctx, loan))
}
func (m *MockLoanGateway) ReturnLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	return m.loan(m.Called(ctx, loan))
}
func (m *MockLoanGateway) PayFine(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	return m.loan(m.Called(ctx, loan))
}
func (m *MockLoanGateway) MarkOverdueLoans(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockLoanGateway) FilterByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error) {
	return m.loans(m.Called(ctx, r))
}
func (m *MockLoanGateway) ActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	return m.loans(m.Called(ctx))
}
func (m *MockLoanGateway) ActiveLoansByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error) {
	return m.loans(m.Called(ctx, r))
}
func (m *MockLoanGateway) DelayedClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockLoanGateway) Ranking(ctx context.Context) ([]domain.RankingRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankingRow), args.Error(1)
}
func (m *MockLoanGateway) RankingByDate(ctx context.Context, r domain.DateRange) ([]domain.RankingRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankingRow), args.Error(1)
}

// MockKardexGateway
type MockKardexGateway struct {
	mock.Mock
}

func (m *MockKardexGateway) List(ctx context.Context) ([]domain.KardexEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KardexEntry), args.Error(1)
}
func (m *MockKardexGateway) Get(ctx context.Context, id int64) (*domain.KardexEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KardexEntry), args.Error(1)
}
func (m *MockKardexGateway) Filter(ctx context.Context, f domain.KardexFilter) ([]domain.KardexEntry, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KardexEntry), args.Error(1)
}

// recordingNavigator captures navigation targets
type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}
