package viewmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
)

func sampleKardex() []domain.KardexEntry {
	return []domain.KardexEntry{
		{ID: 1, MovementDate: domain.MustParseDate("2025-01-02"), Tool: domain.EntityRef{ID: 4, Name: "Taladro"}, Type: domain.StateRef{ID: 1, Name: domain.MovementIncome}, Quantity: 3},
		{ID: 2, MovementDate: domain.MustParseDate("2025-01-10"), Tool: domain.EntityRef{ID: 4, Name: "Taladro"}, Type: domain.StateRef{ID: 2, Name: domain.MovementLoan}, Quantity: 1, Loan: &domain.EntityRef{ID: 12}},
		{ID: 3, MovementDate: domain.MustParseDate("2025-02-01"), Tool: domain.EntityRef{ID: 5, Name: "Sierra"}, Type: domain.StateRef{ID: 1, Name: domain.MovementIncome}, Quantity: 1},
	}
}

func TestKardex(t *testing.T) {
	t.Run("Mount loads ledger and tools", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		kardex.On("List", mock.Anything).Return(sampleKardex(), nil)
		tools.On("List", mock.Anything).Return([]domain.Tool{{ID: 4, Name: "Taladro"}, {ID: 5, Name: "Sierra"}}, nil)

		vm := NewKardex(kardex, tools)
		require.NoError(t, vm.Mount(context.Background()))
		st := vm.State()
		assert.Len(t, st.Entries, 3)
		assert.Len(t, st.Tools, 2)
		assert.True(t, st.Filter.IsEmpty())
	})

	t.Run("Tool list failure keeps ledger", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		kardex.On("List", mock.Anything).Return(sampleKardex(), nil)
		tools.On("List", mock.Anything).Return(nil, gateway.NewServerError(503, ""))

		vm := NewKardex(kardex, tools)
		require.NoError(t, vm.Mount(context.Background()))
		st := vm.State()
		assert.Len(t, st.Entries, 3)
		assert.Empty(t, st.Error)
		assert.Empty(t, st.Tools)
		assert.Equal(t, GenericErrorMessage, st.ToolsError)
	})

	t.Run("Ledger failure is returned", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		kardex.On("List", mock.Anything).Return(nil, gateway.NewServerError(500, "sin kardex"))
		tools.On("List", mock.Anything).Return([]domain.Tool{{ID: 4}}, nil)

		vm := NewKardex(kardex, tools)
		assert.ErrorIs(t, vm.Mount(context.Background()), gateway.ErrServer)
		st := vm.State()
		assert.Equal(t, "sin kardex", st.Error)
		assert.Len(t, st.Tools, 1)
		assert.Empty(t, st.ToolsError)
	})

	t.Run("Failed filter keeps previous filter and rows", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		toolID := int64(4)
		f := domain.KardexFilter{ToolID: &toolID}
		kardex.On("List", mock.Anything).Return(sampleKardex(), nil)
		kardex.On("Filter", mock.Anything, f).Return(nil, gateway.NewNetworkError(errors.New("connection refused")))
		tools.On("List", mock.Anything).Return([]domain.Tool{}, nil)

		vm := NewKardex(kardex, tools)
		require.NoError(t, vm.Mount(context.Background()))

		assert.ErrorIs(t, vm.Filter(context.Background(), f), gateway.ErrNetwork)
		st := vm.State()
		assert.True(t, st.Filter.IsEmpty())
		assert.Len(t, st.Entries, 3)
		assert.NotEmpty(t, st.Error)
		assert.False(t, st.Loading)
	})

	t.Run("Cancelled filter while mounted", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		toolID := int64(5)
		f := domain.KardexFilter{ToolID: &toolID}
		kardex.On("List", mock.Anything).Return(sampleKardex(), nil)
		kardex.On("Filter", mock.Anything, f).Return(nil, context.Canceled)
		tools.On("List", mock.Anything).Return([]domain.Tool{}, nil)

		vm := NewKardex(kardex, tools)
		require.NoError(t, vm.Mount(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, vm.Filter(ctx, f), context.Canceled)
		st := vm.State()
		assert.False(t, st.Loading)
		assert.True(t, st.Filter.IsEmpty())
		assert.Len(t, st.Entries, 3)
	})

	t.Run("Filter and clear", func(t *testing.T) {
		kardex := new(MockKardexGateway)
		tools := new(MockToolGateway)
		toolID := int64(4)
		r, err := domain.NewDateRange("2025-01-05", "2025-01-31")
		require.NoError(t, err)
		f := domain.KardexFilter{ToolID: &toolID, Range: r}

		var filtered []domain.KardexEntry
		for _, e := range sampleKardex() {
			if f.Matches(e) {
				filtered = append(filtered, e)
			}
		}
		kardex.On("List", mock.Anything).Return(sampleKardex(), nil)
		kardex.On("Filter", mock.Anything, f).Return(filtered, nil)
		tools.On("List", mock.Anything).Return([]domain.Tool{}, nil)

		vm := NewKardex(kardex, tools)
		require.NoError(t, vm.Mount(context.Background()))

		require.NoError(t, vm.Filter(context.Background(), f))
		st := vm.State()
		require.Len(t, st.Entries, 1)
		assert.Equal(t, int64(2), st.Entries[0].ID)
		assert.Equal(t, f, st.Filter)

		require.NoError(t, vm.Clear(context.Background()))
		st = vm.State()
		assert.Len(t, st.Entries, 3)
		assert.True(t, st.Filter.IsEmpty())
		kardex.AssertNumberOfCalls(t, "List", 2)
	})
}
