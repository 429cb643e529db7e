package host

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Invocation tracks signers, the call stack and emitted events of one invocation.
type Invocation struct {
	state   *state.State
	logger  log.Logger
	signers map[types.Address]struct{}
	frames  []types.Address
	events  []abcTypes.Event
}

func newInvocation(s *state.State, logger log.Logger, signers []types.Address) *Invocation {
	inv := &Invocation{
		state:   s,
		logger:  logger,
		signers: make(map[types.Address]struct{}, len(signers)),
	}
	for _, signer := range signers {
		inv.signers[signer] = struct{}{}
	}
	return inv
}

// Deploy registers a contract of the given kind at address and runs its initializer.
func (inv *Invocation) Deploy(address types.Address, kind state.ContractKind, init func(e env.Env) error) error {
	if _, exists := inv.state.ContractKind(address); exists {
		return code.NewError(code.ContractExists,
			fmt.Sprintf("contract %s already exists", address),
			code.NewContractExists(address.String()))
	}

	inv.state.RegisterContract(address, kind)
	return inv.enter(address, init)
}

// Call runs fn in the frame of the contract at address, which must be of the given kind.
func (inv *Invocation) Call(address types.Address, kind state.ContractKind, fn func(e env.Env) error) error {
	if got, ok := inv.state.ContractKind(address); !ok || got != kind {
		return code.NewError(code.ContractNotFound,
			fmt.Sprintf("%s contract %s not found", kind, address),
			code.NewContractNotFound(address.String(), kind.String()))
	}

	return inv.enter(address, fn)
}

func (inv *Invocation) enter(address types.Address, fn func(e env.Env) error) error {
	inv.frames = append(inv.frames, address)
	defer func() {
		inv.frames = inv.frames[:len(inv.frames)-1]
	}()

	return fn(&frame{inv: inv, address: address})
}

func (inv *Invocation) isAuthorized(address types.Address) bool {
	if _, ok := inv.signers[address]; ok {
		return true
	}

	// the contract one frame up is calling the current one
	if len(inv.frames) >= 2 && inv.frames[len(inv.frames)-2] == address {
		return true
	}

	return false
}

// Events returns events emitted so far.
func (inv *Invocation) Events() []abcTypes.Event {
	return inv.events
}
