package league

import "errors"

var (
	ErrAlreadyMember = errors.New("already a member of this league")
	ErrLeagueFull    = errors.New("league is full")
)
