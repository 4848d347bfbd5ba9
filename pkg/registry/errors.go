package registry

import "errors"

// Every rejected call returns one of these, usually wrapped with the name or
// address that caused it. Match with errors.Is.
var (
	ErrInvalidName       = errors.New("invalid domain name")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDomainTaken       = errors.New("domain is taken")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDestroyed         = errors.New("registry has been destroyed")
	ErrAlreadyDeployed   = errors.New("registry already deployed")
	ErrNotDeployed       = errors.New("registry not deployed")
)
