// Package host runs contracts against the state: one invocation at a time, all or nothing.
package host

import (
	"fmt"
	"runtime/debug"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

type Host struct {
	state  *state.State
	logger log.Logger
}

func NewHost(s *state.State, logger log.Logger) *Host {
	return &Host{state: s, logger: logger}
}

// Begin locks the state until the returned session is committed or discarded.
func (h *Host) Begin() *Session {
	h.state.Lock()
	return &Session{host: h}
}

// Invoke runs fn in its own session and commits it on success.
func (h *Host) Invoke(signers []types.Address, fn func(inv *Invocation) error) ([]abcTypes.Event, error) {
	session := h.Begin()
	defer session.Discard()

	events, err := session.Invoke(signers, fn)
	if err != nil {
		return nil, err
	}

	if _, err := session.Commit(); err != nil {
		return nil, err
	}
	return events, nil
}

// Query runs fn without signers and throws every change away.
func (h *Host) Query(fn func(inv *Invocation) error) error {
	session := h.Begin()
	defer session.Discard()

	_, err := session.Invoke(nil, fn)
	return err
}

// Session is exclusive access to the state between two commits.
type Session struct {
	host   *Host
	closed bool
}

func (s *Session) State() *state.State {
	return s.host.state
}

// Invoke runs fn as one invocation. On error or panic every change made by fn is
// rolled back and its events are dropped.
func (s *Session) Invoke(signers []types.Address, fn func(inv *Invocation) error) ([]abcTypes.Event, error) {
	if s.closed {
		panic("invoke on a closed session")
	}

	inv := newInvocation(s.host.state, s.host.logger, signers)
	if err := s.run(inv, fn); err != nil {
		s.host.state.Rollback()
		return nil, err
	}

	return inv.events, nil
}

func (s *Session) run(inv *Invocation, fn func(inv *Invocation) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.host.logger.Error("Invocation panicked", "err", r, "stack", string(debug.Stack()))
			err = code.NewError(code.InternalError, fmt.Sprintf("internal error: %v", r), nil)
		}
	}()

	return fn(inv)
}

// Commit saves the state and releases the session.
func (s *Session) Commit() ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}
	s.closed = true
	defer s.host.state.Unlock()

	return s.host.state.Commit()
}

// Discard rolls back uncommitted changes and releases the session. It is a no-op after Commit.
func (s *Session) Discard() {
	if s.closed {
		return
	}
	s.closed = true

	s.host.state.Rollback()
	s.host.state.Unlock()
}
