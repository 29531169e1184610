package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolrental-console/internal/config"
	"toolrental-console/internal/devserver"
	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/viewmodel"
)

type env struct {
	store *devserver.Store
	gw    *gateway.Gateway
	today *domain.Date
}

func setup(t *testing.T) env {
	t.Helper()
	store := devserver.NewStore()
	today := domain.MustParseDate("2025-03-01")
	store.SetToday(func() domain.Date { return today })

	srv := httptest.NewServer(devserver.NewRouter(store))
	t.Cleanup(srv.Close)

	gw := gateway.NewHTTPGateway(config.APIConfig{BaseURL: srv.URL}, srv.Client())
	return env{store: store, gw: gw, today: &today}
}

func noNav(string) {}

func createDrill(t *testing.T, e env, stock string) domain.Tool {
	t.Helper()
	form := viewmodel.NewToolForm(e.gw.Tools, viewmodel.NavigatorFunc(noNav))
	require.NoError(t, form.Mount(context.Background(), 0))
	form.SetDraft(viewmodel.ToolDraft{
		Identifier:      "DR-100",
		Name:            "Drill",
		Category:        "Power",
		ReplacementCost: "50000",
		Price:           "2000",
		Stock:           stock,
		State:           domain.ToolStateAvailable,
	})
	require.NoError(t, form.Submit(context.Background()))

	tools, err := e.gw.Tools.List(context.Background())
	require.NoError(t, err)
	for _, tool := range tools {
		if tool.Name == "Drill" {
			return tool
		}
	}
	t.Fatal("Drill not listed after create")
	return domain.Tool{}
}

func TestToolCreateThenGet(t *testing.T) {
	e := setup(t)
	created := createDrill(t, e, "3")

	got, err := e.gw.Tools.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DR-100", got.Identifier)
	assert.Equal(t, "Drill", got.Name)
	assert.Equal(t, "Power", got.Category)
	assert.Equal(t, "50000", got.ReplacementCost.String())
	assert.Equal(t, "2000", got.Price.String())
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, domain.ToolStateAvailable, got.CurrentState)

	_, err = e.gw.Tools.Get(context.Background(), 999)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestDuplicateIdentifierShowsBackendMessage(t *testing.T) {
	e := setup(t)
	createDrill(t, e, "1")

	form := viewmodel.NewToolForm(e.gw.Tools, nil)
	require.NoError(t, form.Mount(context.Background(), 0))
	form.SetDraft(viewmodel.ToolDraft{
		Identifier: "DR-100", Name: "Other", Category: "Power",
		ReplacementCost: "1", Price: "1", Stock: "1", State: domain.ToolStateAvailable,
	})
	err := form.Submit(context.Background())
	require.ErrorIs(t, err, gateway.ErrServerValidation)
	assert.Contains(t, form.State().Error, "DR-100")
}

func TestToolListIsStaleUntilRefetched(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	drill := createDrill(t, e, "3")

	list := viewmodel.NewToolList(e.gw.Tools)
	require.NoError(t, list.Mount(ctx))
	defer list.Unmount()
	require.Len(t, list.State().Rows, 1)
	assert.Equal(t, domain.ToolStateAvailable, list.State().Rows[0].CurrentState)
	assert.Equal(t, 3, list.State().Rows[0].Stock)

	var routes []string
	form := viewmodel.NewLoanForm(e.gw, viewmodel.NavigatorFunc(func(r string) { routes = append(routes, r) }), 5000)
	require.NoError(t, form.Mount(ctx, 0))
	require.NoError(t, form.SetClient(1))
	require.NoError(t, form.SetTool(drill.ID))
	require.NoError(t, form.SetDeliveryDate("2025-03-01"))
	require.NoError(t, form.SetReturnDate("2025-03-04"))
	require.NoError(t, form.Submit(ctx))
	assert.Equal(t, []string{viewmodel.RouteLoanList}, routes)

	// No push from the backend
	assert.Equal(t, 3, list.State().Rows[0].Stock)

	require.NoError(t, list.Load(ctx))
	assert.Equal(t, 2, list.State().Rows[0].Stock)
	assert.Equal(t, domain.ToolStateAvailable, list.State().Rows[0].CurrentState)

	// The last unit goes out
	_, err := e.gw.Loans.Create(ctx, &domain.Loan{
		Client:        domain.Ref(2),
		Tool:          domain.Ref(drill.ID),
		DeliveryDate:  domain.MustParseDate("2025-03-01"),
		ReturnDate:    domain.MustParseDate("2025-03-02"),
		DailyFineRate: drill.Price,
	})
	require.NoError(t, err)
	_, err = e.gw.Loans.Create(ctx, &domain.Loan{
		Client:        domain.Ref(2),
		Tool:          domain.Ref(drill.ID),
		DeliveryDate:  domain.MustParseDate("2025-03-01"),
		ReturnDate:    domain.MustParseDate("2025-03-02"),
		DailyFineRate: drill.Price,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStateAvailable, list.State().Rows[0].CurrentState)
	require.NoError(t, list.Load(ctx))
	assert.Equal(t, domain.ToolStateLoaned, list.State().Rows[0].CurrentState)
}

func TestLoanLifecycle(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	drill := createDrill(t, e, "2")

	for _, day := range []string{"2025-03-01", "2025-03-10"} {
		d := domain.MustParseDate(day)
		_, err := e.gw.Loans.Create(ctx, &domain.Loan{
			Client:        domain.Ref(1),
			Tool:          domain.Ref(drill.ID),
			DeliveryDate:  d,
			ReturnDate:    d.AddDays(2),
			DailyFineRate: drill.Price,
		})
		require.NoError(t, err)
	}

	*e.today = domain.MustParseDate("2025-03-06")
	list := viewmodel.NewLoanList(e.gw.Loans, nil, viewmodel.RefreshSequential)
	require.NoError(t, list.Mount(ctx))
	defer list.Unmount()

	rows := list.State().Rows
	require.Len(t, rows, 2)
	assert.Equal(t, domain.LoanStatusOverdue, rows[0].Loan.CurrentState)
	assert.Equal(t, domain.LoanStatusInProcess, rows[1].Loan.CurrentState)
	assert.Equal(t, viewmodel.LoanActions{Return: true}, rows[0].Actions)

	t.Run("Filter and clear", func(t *testing.T) {
		rng, err := domain.NewDateRange("2025-03-05", "2025-03-31")
		require.NoError(t, err)
		require.NoError(t, list.Filter(ctx, rng))
		require.Len(t, list.State().Rows, 1)
		assert.Equal(t, "2025-03-10", list.State().Rows[0].Loan.DeliveryDate.String())

		require.NoError(t, list.Clear(ctx))
		assert.Len(t, list.State().Rows, 2)
		assert.True(t, list.State().Filter.IsUnbounded())
	})

	t.Run("Late return then pay fine", func(t *testing.T) {
		late := rows[0].Loan.ID
		require.NoError(t, list.ReturnLoan(ctx, late))

		returned := list.State().Rows[0]
		assert.Equal(t, domain.LoanStatusReturned, returned.Loan.CurrentState)
		require.NotNil(t, returned.Loan.TotalFine)
		assert.Equal(t, "6000", returned.Loan.TotalFine.String())
		assert.Equal(t, viewmodel.LoanActions{PayFine: true}, returned.Actions)

		require.NoError(t, list.PayFine(ctx, late))
		paid := list.State().Rows[0]
		assert.Equal(t, domain.LoanStatusCompleted, paid.Loan.CurrentState)
		assert.Equal(t, viewmodel.LoanActions{}, paid.Actions)

		assert.ErrorIs(t, list.PayFine(ctx, late), viewmodel.ErrActionUnavailable)
	})

	t.Run("Reports", func(t *testing.T) {
		report := viewmodel.NewReport(e.gw.Loans)
		require.NoError(t, report.Mount(ctx))
		defer report.Unmount()

		assert.Len(t, report.ActiveLoans.State().Rows, 1)
		assert.Empty(t, report.DelayedClients.State().Rows)
		assert.Equal(t, []domain.RankingRow{{ToolName: "Drill", TotalLoans: 2}}, report.Ranking.State().Rows)
	})

	t.Run("Kardex", func(t *testing.T) {
		kardex := viewmodel.NewKardex(e.gw.Kardex, e.gw.Tools)
		require.NoError(t, kardex.Mount(ctx))
		defer kardex.Unmount()

		types := []string{}
		for _, entry := range kardex.State().Entries {
			types = append(types, entry.Type.Name)
		}
		assert.Equal(t, []string{
			domain.MovementIncome, domain.MovementLoan, domain.MovementLoan, domain.MovementReturn,
		}, types)
		assert.Len(t, kardex.State().Tools, 1)
	})
}

func TestReturnForm(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	drill := createDrill(t, e, "1")
	loan, err := e.gw.Loans.Create(ctx, &domain.Loan{
		Client:        domain.Ref(2),
		Tool:          domain.Ref(drill.ID),
		DeliveryDate:  domain.MustParseDate("2025-03-01"),
		ReturnDate:    domain.MustParseDate("2025-03-05"),
		DailyFineRate: drill.Price,
	})
	require.NoError(t, err)

	form := viewmodel.NewLoanForm(e.gw, nil, 5000)
	require.NoError(t, form.Mount(ctx, loan.ID))
	assert.Equal(t, viewmodel.ModeReturn, form.State().Mode)
	assert.ErrorIs(t, form.SetReturnDate("2025-04-01"), viewmodel.ErrFieldLocked)
	form.SetDamaged(true)
	require.NoError(t, form.Submit(ctx))

	got, err := e.gw.Loans.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, got.Damaged)
	assert.Equal(t, domain.LoanStatusCompleted, got.CurrentState)
	assert.Equal(t, "2025-03-05", got.ReturnDate.String())

	tool, err := e.gw.Tools.Get(ctx, drill.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStateInRepair, tool.CurrentState)
}
