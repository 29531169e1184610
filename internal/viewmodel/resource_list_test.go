package viewmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
)

func TestResourceList(t *testing.T) {
	t.Run("Tools", func(t *testing.T) {
		tools := new(MockToolGateway)
		tools.On("List", mock.Anything).Return([]domain.Tool{{ID: 1, Name: "Taladro"}}, nil)

		vm := NewToolList(tools)
		var seen []ListState[domain.Tool]
		vm.OnChange(func(s ListState[domain.Tool]) { seen = append(seen, s) })

		require.NoError(t, vm.Mount(context.Background()))
		assert.Len(t, vm.State().Rows, 1)
		require.Len(t, seen, 2)
		assert.True(t, seen[0].Loading)
		assert.False(t, seen[1].Loading)
	})

	t.Run("Clients failure", func(t *testing.T) {
		clients := new(MockClientGateway)
		clients.On("List", mock.Anything).Return([]domain.Client{{ID: 1}}, nil).Once()
		clients.On("List", mock.Anything).Return(nil, gateway.NewServerError(500, "")).Once()

		vm := NewClientList(clients)
		require.NoError(t, vm.Mount(context.Background()))
		require.Error(t, vm.Load(context.Background()))

		st := vm.State()
		assert.Equal(t, GenericErrorMessage, st.Error)
		// Rows from the last good load stay visible
		assert.Len(t, st.Rows, 1)
	})

	t.Run("Cancelled reload while mounted", func(t *testing.T) {
		tools := new(MockToolGateway)
		tools.On("List", mock.Anything).Return([]domain.Tool{{ID: 1}}, nil).Once()
		tools.On("List", mock.Anything).Return(nil, context.Canceled).Once()

		vm := NewToolList(tools)
		require.NoError(t, vm.Mount(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, vm.Load(ctx), context.Canceled)

		st := vm.State()
		assert.False(t, st.Loading)
		assert.Empty(t, st.Error)
		assert.Len(t, st.Rows, 1)
	})
}

func TestStoreDropsStaleTickets(t *testing.T) {
	s := newStore(0)
	first := s.ticket(nil)
	second := s.ticket(nil)

	assert.True(t, s.apply(second, func(v *int) { *v = 2 }))
	assert.False(t, s.apply(first, func(v *int) { *v = 1 }))
	assert.Equal(t, 2, s.get())
}

func TestStoreTicketAppliesPreRequestState(t *testing.T) {
	s := newStore(0)
	var seen []int
	s.setOnChange(func(v int) { seen = append(seen, v) })

	first := s.ticket(func(v *int) { *v = 10 })
	second := s.ticket(func(v *int) { *v = 20 })
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, []int{10, 20}, seen)
}

func TestStoreSettleOnlyLatestTicket(t *testing.T) {
	s := newStore(0)
	first := s.ticket(nil)
	second := s.ticket(nil)

	assert.False(t, s.settle(first, func(v *int) { *v = 1 }))
	assert.Equal(t, 0, s.get())

	assert.True(t, s.settle(second, func(v *int) { *v = 2 }))
	assert.Equal(t, 2, s.get())

	// a late answer for the abandoned request is dropped
	assert.False(t, s.apply(first, func(v *int) { *v = 3 }))
	assert.Equal(t, 2, s.get())
}

func TestLifecycleActive(t *testing.T) {
	var l lifecycle
	assert.True(t, l.active())

	l.mount(context.Background())
	assert.True(t, l.active())

	l.unmount()
	assert.False(t, l.active())
}
