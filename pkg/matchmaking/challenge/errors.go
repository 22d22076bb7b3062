package challenge

import "errors"

// Errors returned by broker operations, per the taxonomy in spec §7.
var (
	ErrNotFound   = errors.New("challenge: not found")
	ErrNotOpen    = errors.New("challenge: not open")
	ErrSeatTaken  = errors.New("challenge: seat already taken")
	ErrNotCreator = errors.New("challenge: requester is not the creator")
)
