package gateway

import (
	"context"

	"toolrental-console/internal/domain"
)

type ToolGateway interface {
	List(ctx context.Context) ([]domain.Tool, error)
	Get(ctx context.Context, id int64) (*domain.Tool, error)
	Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error)
	Update(ctx context.Context, tool *domain.Tool) (*domain.Tool, error)
}

type ClientGateway interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
}

// LoanGateway covers loan CRUD, the backend-driven transitions and the report queries.
// Fines are always computed by the backend; no method sends totalFine.
type LoanGateway interface {
	List(ctx context.Context) ([]domain.Loan, error)
	Get(ctx context.Context, id int64) (*domain.Loan, error)
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	ReturnLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	PayFine(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	// MarkOverdueLoans is an idempotent batch transition with no payload
	MarkOverdueLoans(ctx context.Context) error
	FilterByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error)
	ActiveLoans(ctx context.Context) ([]domain.Loan, error)
	ActiveLoansByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error)
	DelayedClients(ctx context.Context) ([]domain.Client, error)
	Ranking(ctx context.Context) ([]domain.RankingRow, error)
	RankingByDate(ctx context.Context, r domain.DateRange) ([]domain.RankingRow, error)
}

// KardexGateway is read-only; ledger rows are written by the backend as a side effect of tool and loan changes.
type KardexGateway interface {
	List(ctx context.Context) ([]domain.KardexEntry, error)
	Get(ctx context.Context, id int64) (*domain.KardexEntry, error)
	Filter(ctx context.Context, f domain.KardexFilter) ([]domain.KardexEntry, error)
}

// Gateway bundles the per-resource gateways handed to view-models
type Gateway struct {
	Tools   ToolGateway
	Clients ClientGateway
	Loans   LoanGateway
	Kardex  KardexGateway
}
