package viewmodel

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
)

func validToolDraft() ToolDraft {
	return ToolDraft{
		Identifier:      "DR-001",
		Name:            "Taladro",
		Category:        "Eléctricas",
		ReplacementCost: "80000",
		Price:           "12000",
		Stock:           "3",
		State:           domain.ToolStateAvailable,
	}
}

func TestValidateTool(t *testing.T) {
	t.Run("First failing rule wins", func(t *testing.T) {
		d := ToolDraft{Name: "", Category: "x", ReplacementCost: "10"}
		_, err := ValidateTool(d)
		require.Error(t, err)
		assert.Equal(t, MsgNameRequired, gateway.MessageOf(err))
		assert.ErrorIs(t, err, gateway.ErrValidation)
	})

	t.Run("Whitespace is empty", func(t *testing.T) {
		d := validToolDraft()
		d.Category = "   "
		_, err := ValidateTool(d)
		assert.Equal(t, MsgCategoryRequired, gateway.MessageOf(err))

		d = validToolDraft()
		d.Identifier = "\t"
		_, err = ValidateTool(d)
		assert.Equal(t, MsgIdentifierRequired, gateway.MessageOf(err))
	})

	t.Run("Replacement cost must be positive", func(t *testing.T) {
		for _, v := range []string{"-5", "0", "", "abc"} {
			d := validToolDraft()
			d.ReplacementCost = v
			_, err := ValidateTool(d)
			assert.Equal(t, MsgReplacementCost, gateway.MessageOf(err), "value %q", v)
		}
	})

	t.Run("Replacement cost checked before price and stock", func(t *testing.T) {
		d := validToolDraft()
		d.ReplacementCost = "-5"
		d.Price = "-1"
		d.Stock = "2.5"
		_, err := ValidateTool(d)
		assert.Equal(t, MsgReplacementCost, gateway.MessageOf(err))
	})

	t.Run("Price must be positive", func(t *testing.T) {
		d := validToolDraft()
		d.Price = "0"
		_, err := ValidateTool(d)
		assert.Equal(t, MsgPrice, gateway.MessageOf(err))
	})

	t.Run("Stock must be a non negative integer", func(t *testing.T) {
		for _, v := range []string{"2.5", "-1", "", "many"} {
			d := validToolDraft()
			d.Stock = v
			_, err := ValidateTool(d)
			assert.Equal(t, MsgStock, gateway.MessageOf(err), "value %q", v)
		}
	})

	t.Run("Zero stock passes", func(t *testing.T) {
		d := validToolDraft()
		d.Stock = "0"
		tool, err := ValidateTool(d)
		require.NoError(t, err)
		assert.Equal(t, 0, tool.Stock)
	})

	t.Run("Parsed values", func(t *testing.T) {
		d := validToolDraft()
		d.Name = "  Taladro  "
		d.Price = "12000.50"
		tool, err := ValidateTool(d)
		require.NoError(t, err)
		assert.Equal(t, "Taladro", tool.Name)
		assert.True(t, tool.Price.Equal(decimal.RequireFromString("12000.5")))
		assert.Equal(t, 3, tool.Stock)
		assert.Equal(t, domain.ToolStateAvailable, tool.CurrentState)
	})
}

func TestToolFormCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tools := new(MockToolGateway)
		nav := &recordingNavigator{}
		tools.On("Create", mock.Anything, mock.MatchedBy(func(tool *domain.Tool) bool {
			return tool.ID == 0 && tool.Name == "Taladro" && tool.Stock == 3 && tool.CurrentState == domain.ToolStateAvailable
		})).Return(&domain.Tool{ID: 10, Name: "Taladro"}, nil)

		vm := NewToolForm(tools, nav)
		require.NoError(t, vm.Mount(context.Background(), 0))
		assert.Equal(t, ModeCreate, vm.State().Mode)
		assert.Equal(t, domain.ToolStateAvailable, vm.State().Draft.State)

		vm.SetDraft(validToolDraft())
		require.NoError(t, vm.Submit(context.Background()))

		assert.True(t, vm.State().Saved)
		assert.Equal(t, []string{RouteToolList}, nav.routes)
		tools.AssertExpectations(t)
	})

	t.Run("Validation never reaches the gateway", func(t *testing.T) {
		tools := new(MockToolGateway)
		nav := &recordingNavigator{}
		vm := NewToolForm(tools, nav)
		require.NoError(t, vm.Mount(context.Background(), 0))

		d := validToolDraft()
		d.Stock = "-1"
		vm.SetDraft(d)
		err := vm.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, MsgStock, vm.State().Error)
		assert.Empty(t, nav.routes)
		tools.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Backend message shown verbatim", func(t *testing.T) {
		tools := new(MockToolGateway)
		tools.On("Create", mock.Anything, mock.Anything).
			Return(nil, gateway.NewServerValidationError(409, "Ya existe una herramienta con ese identificador"))

		vm := NewToolForm(tools, nil)
		require.NoError(t, vm.Mount(context.Background(), 0))
		vm.SetDraft(validToolDraft())

		require.Error(t, vm.Submit(context.Background()))
		assert.Equal(t, "Ya existe una herramienta con ese identificador", vm.State().Error)
		assert.False(t, vm.State().Saved)
	})

	t.Run("Generic fallback", func(t *testing.T) {
		tools := new(MockToolGateway)
		tools.On("Create", mock.Anything, mock.Anything).Return(nil, gateway.NewServerError(500, ""))

		vm := NewToolForm(tools, nil)
		require.NoError(t, vm.Mount(context.Background(), 0))
		vm.SetDraft(validToolDraft())

		require.Error(t, vm.Submit(context.Background()))
		assert.Equal(t, GenericErrorMessage, vm.State().Error)

		vm.DismissError()
		assert.Empty(t, vm.State().Error)
	})
}

func TestToolFormEdit(t *testing.T) {
	tools := new(MockToolGateway)
	nav := &recordingNavigator{}
	existing := &domain.Tool{
		ID:              7,
		Identifier:      "SW-7",
		Name:            "Sierra",
		Category:        "Corte",
		ReplacementCost: decimal.NewFromInt(50000),
		Price:           decimal.NewFromInt(8000),
		Stock:           2,
		CurrentState:    domain.ToolStateInRepair,
	}
	tools.On("Get", mock.Anything, int64(7)).Return(existing, nil)
	tools.On("Update", mock.Anything, mock.MatchedBy(func(tool *domain.Tool) bool {
		return tool.ID == 7 && tool.CurrentState == domain.ToolStateDecommissioned && tool.Name == "Sierra"
	})).Return(existing, nil)

	vm := NewToolForm(tools, nav)
	require.NoError(t, vm.Mount(context.Background(), 7))

	st := vm.State()
	assert.Equal(t, ModeEdit, st.Mode)
	assert.Equal(t, "SW-7", st.Draft.Identifier)
	assert.Equal(t, "50000", st.Draft.ReplacementCost)
	assert.Equal(t, "2", st.Draft.Stock)
	assert.Equal(t, domain.ToolStateInRepair, st.Draft.State)

	vm.SetState(domain.ToolStateDecommissioned)
	require.NoError(t, vm.Submit(context.Background()))
	assert.Equal(t, []string{RouteToolList}, nav.routes)
	tools.AssertExpectations(t)
}

func TestToolFormMountNotFound(t *testing.T) {
	tools := new(MockToolGateway)
	tools.On("Get", mock.Anything, int64(99)).Return(nil, gateway.NewNotFoundError("Herramienta no encontrada"))

	vm := NewToolForm(tools, nil)
	err := vm.Mount(context.Background(), 99)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.Equal(t, "Herramienta no encontrada", vm.State().Error)
}

func TestToolFormRejectsUnknownState(t *testing.T) {
	vm := NewToolForm(new(MockToolGateway), nil)
	assert.Panics(t, func() { vm.SetState(domain.ToolState(9)) })
	assert.Panics(t, func() { vm.SetDraft(ToolDraft{Name: "x"}) })
}
