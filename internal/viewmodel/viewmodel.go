// Package viewmodel holds the console's screen state machines. Each view-model
// receives its gateways through its constructor, exposes immutable snapshots
// through State and pushes every new snapshot to an optional OnChange callback.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"toolrental-console/internal/config"
	"toolrental-console/internal/gateway"
)

// GenericErrorMessage is shown when a failed request carries no backend message
const GenericErrorMessage = "Error processing the request."

var (
	ErrActionUnavailable = errors.New("action not available for this loan")
	ErrLoanNotListed     = errors.New("loan is not in the current list")
	ErrFieldLocked       = errors.New("field cannot be changed while returning a loan")
	ErrNotSelectable     = errors.New("option is not selectable")
	ErrFilterUnsupported = errors.New("this panel cannot be filtered")
)

// RefreshPolicy decides how the loan list orders the overdue refresh against the list fetch
type RefreshPolicy int

const (
	// RefreshSequential waits for the overdue refresh before listing
	RefreshSequential RefreshPolicy = iota
	// RefreshConcurrentStale fires both at once and shows whatever the list returns
	RefreshConcurrentStale
)

func (p RefreshPolicy) String() string {
	switch p {
	case RefreshSequential:
		return config.RefreshPolicySequential
	case RefreshConcurrentStale:
		return config.RefreshPolicyConcurrent
	default:
		return fmt.Sprintf("RefreshPolicy(%d)", int(p))
	}
}

// ParseRefreshPolicy maps the config value to a policy. Empty means sequential.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch s {
	case "", config.RefreshPolicySequential:
		return RefreshSequential, nil
	case config.RefreshPolicyConcurrent:
		return RefreshConcurrentStale, nil
	default:
		return RefreshSequential, fmt.Errorf("unknown refresh policy %q", s)
	}
}

// userMessage converts any failure into the single line shown to the user
func userMessage(err error) string {
	if msg := gateway.MessageOf(err); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// store guards a view-model snapshot. Tickets let concurrent fetches drop
// responses that arrive after a newer one was applied.
type store[S any] struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    S
	issued   uint64
	applied  uint64
	onChange func(S)
}

func newStore[S any](initial S) *store[S] {
	return &store[S]{state: initial}
}

func (s *store[S]) get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *store[S]) setOnChange(fn func(S)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// ticket issues the next request number and applies fn under the same lock,
// so the pre-request state lands in issue order
func (s *store[S]) ticket(fn func(*S)) uint64 {
	s.mu.Lock()
	s.issued++
	t := s.issued
	if fn == nil {
		s.mu.Unlock()
		return t
	}
	fn(&s.state)
	s.publishLocked()
	return t
}

func (s *store[S]) update(fn func(*S)) {
	s.mu.Lock()
	fn(&s.state)
	s.publishLocked()
}

// apply runs fn unless a newer ticket has already been applied
func (s *store[S]) apply(ticket uint64, fn func(*S)) bool {
	s.mu.Lock()
	if ticket < s.applied {
		s.mu.Unlock()
		return false
	}
	s.applied = ticket
	fn(&s.state)
	s.publishLocked()
	return true
}

// settle runs fn only when ticket is still the latest one issued. It clears
// the loading flag of a request that was abandoned.
func (s *store[S]) settle(ticket uint64, fn func(*S)) bool {
	s.mu.Lock()
	if ticket != s.issued {
		s.mu.Unlock()
		return false
	}
	s.applied = ticket
	fn(&s.state)
	s.publishLocked()
	return true
}

// publishLocked releases s.mu and delivers the snapshot in mutation order
func (s *store[S]) publishLocked() {
	snap, cb := s.state, s.onChange
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

// lifecycle scopes requests to the mounted lifetime of a view
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) mount(parent context.Context) context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	return l.ctx
}

// active reports whether the view is still mounted. A view that was never
// mounted counts as active.
func (l *lifecycle) active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx == nil || l.ctx.Err() == nil
}

func (l *lifecycle) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// bind returns a context canceled when either ctx ends or the view unmounts
func (l *lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	l.mu.Lock()
	base := l.ctx
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	if base == nil {
		return ctx, cancel
	}
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
