package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"toolrental-console/internal/domain"
)

// loanRequest is the body sent for loan mutations. It has no totalFine field.
type loanRequest struct {
	ID            int64            `json:"id,omitempty"`
	Client        domain.EntityRef `json:"client"`
	Tool          domain.EntityRef `json:"tool"`
	DeliveryDate  domain.Date      `json:"deliveryDate"`
	ReturnDate    domain.Date      `json:"returnDate"`
	Damaged       bool             `json:"damaged"`
	DailyFineRate decimal.Decimal  `json:"dailyFineRate"`
}

func newLoanRequest(loan *domain.Loan) loanRequest {
	return loanRequest{
		ID:            loan.ID,
		Client:        domain.Ref(loan.Client.ID),
		Tool:          domain.Ref(loan.Tool.ID),
		DeliveryDate:  loan.DeliveryDate,
		ReturnDate:    loan.ReturnDate,
		Damaged:       loan.Damaged,
		DailyFineRate: loan.DailyFineRate,
	}
}

type loanGateway struct {
	c *Client
}

func (g *loanGateway) List(ctx context.Context) ([]domain.Loan, error) {
	return g.list(ctx, "list", "/loans")
}

func (g *loanGateway) Get(ctx context.Context, id int64) (*domain.Loan, error) {
	var loan domain.Loan
	if err := g.c.request(ctx, "loans", "get", http.MethodGet, fmt.Sprintf("/loans/%d", id), nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (g *loanGateway) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	req := newLoanRequest(loan)
	req.ID = 0
	return g.mutate(ctx, "create", http.MethodPost, "/loans", req)
}

func (g *loanGateway) Update(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if loan.ID == 0 {
		return nil, ErrMissingID
	}
	return g.mutate(ctx, "update", http.MethodPut, fmt.Sprintf("/loans/%d", loan.ID), newLoanRequest(loan))
}

// ReturnLoan submits the return; the backend transitions the status and computes the fine
func (g *loanGateway) ReturnLoan(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if loan.ID == 0 {
		return nil, ErrMissingID
	}
	return g.mutate(ctx, "return", http.MethodPut, fmt.Sprintf("/loans/%d", loan.ID), newLoanRequest(loan))
}

func (g *loanGateway) PayFine(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if loan.ID == 0 {
		return nil, ErrMissingID
	}
	return g.mutate(ctx, "pay_fine", http.MethodPost, fmt.Sprintf("/loans/%d/pay-fine", loan.ID), newLoanRequest(loan))
}

func (g *loanGateway) MarkOverdueLoans(ctx context.Context) error {
	return g.c.request(ctx, "loans", "overdue_refresh", http.MethodPost, "/loans/overdue-refresh", nil, nil)
}

func (g *loanGateway) FilterByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error) {
	return g.list(ctx, "filter_by_date", withQuery("/loans", rangeQuery(r)))
}

func (g *loanGateway) ActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	return g.list(ctx, "active", "/loans/active")
}

func (g *loanGateway) ActiveLoansByDate(ctx context.Context, r domain.DateRange) ([]domain.Loan, error) {
	return g.list(ctx, "active_by_date", withQuery("/loans/active", rangeQuery(r)))
}

func (g *loanGateway) DelayedClients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := g.c.request(ctx, "loans", "delayed_clients", http.MethodGet, "/loans/delayed-clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (g *loanGateway) Ranking(ctx context.Context) ([]domain.RankingRow, error) {
	return g.ranking(ctx, "ranking", "/loans/ranking")
}

func (g *loanGateway) RankingByDate(ctx context.Context, r domain.DateRange) ([]domain.RankingRow, error) {
	return g.ranking(ctx, "ranking_by_date", withQuery("/loans/ranking", rangeQuery(r)))
}

func (g *loanGateway) list(ctx context.Context, operation, path string) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := g.c.request(ctx, "loans", operation, http.MethodGet, path, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

func (g *loanGateway) ranking(ctx context.Context, operation, path string) ([]domain.RankingRow, error) {
	var rows []domain.RankingRow
	if err := g.c.request(ctx, "loans", operation, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// mutate sends req and decodes the backend's reply into a fresh loan, so fields
// the reply omits stay zero instead of echoing the request.
func (g *loanGateway) mutate(ctx context.Context, operation, method, path string, req loanRequest) (*domain.Loan, error) {
	var out domain.Loan
	if err := g.c.request(ctx, "loans", operation, method, path, &req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
