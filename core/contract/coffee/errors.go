package coffee

import "github.com/MinterTeam/minter-coffee/core/code"

// Error is a failure signaled by the contract itself. Callers branch on it.
type Error uint32

const (
	ErrFailedToGetBalance = Error(code.FailedToGetBalance)
	ErrInvalidAmount      = Error(code.InvalidAmount)
	ErrNoSupporters       = Error(code.NoSupporters)
)

func (e Error) Error() string {
	switch e {
	case ErrFailedToGetBalance:
		return "failed to get balance"
	case ErrInvalidAmount:
		return "invalid amount"
	case ErrNoSupporters:
		return "no supporters"
	}
	return "unknown contract error"
}

func (e Error) Name() string {
	switch e {
	case ErrFailedToGetBalance:
		return "FailedToGetBalance"
	case ErrInvalidAmount:
		return "InvalidAmount"
	case ErrNoSupporters:
		return "NoSupporters"
	}
	return "Unknown"
}

func (e Error) ErrorCode() uint32 {
	return uint32(e)
}

// Info is the response payload of the error.
func (e Error) Info() interface{} {
	return code.NewContractError(uint32(e), e.Name())
}
