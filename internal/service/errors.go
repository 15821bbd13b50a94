package service

import "errors"

// Validation failures are detected before any mutation and abort the
// transaction. Handlers translate them to HTTP statuses; the messages are the
// user-facing copy.
var (
	// ErrProfileRequired: the actor has no profile for the lobby's game.
	// Surfaced as guidance to create one, not as a generic error.
	ErrProfileRequired = errors.New("you need a profile for this game first")

	// ErrNotSearching and ErrLobbyFull: the lobby cannot take players in
	// its current state.
	ErrNotSearching = errors.New("lobby is not accepting players")
	ErrLobbyFull    = errors.New("lobby is full")

	// ErrAlreadyInLobby and ErrSlotTaken: the seat request conflicts with
	// current occupancy, including races resolved by the row lock.
	ErrAlreadyInLobby = errors.New("you are already in this lobby")
	ErrSlotTaken      = errors.New("this slot is already taken")

	// Permission failures, deliberately distinct from not-found.
	ErrNotYourSlot     = errors.New("you cannot leave a slot that isn't yours")
	ErrHostCannotLeave = errors.New("the host cannot leave; delete the lobby instead")
	ErrNotHost         = errors.New("only the host can do that")

	ErrSizeOutOfRange = errors.New("lobby size is out of range for this game")
	ErrInvalidRole    = errors.New("role does not belong to this game")
)

// IsEligibilityError reports whether err should redirect the user to profile
// creation rather than render an error.
func IsEligibilityError(err error) bool {
	return errors.Is(err, ErrProfileRequired)
}

// IsPermissionError reports whether err is a permission failure (403), as
// opposed to a state conflict (409) or a missing record (404).
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrNotYourSlot) ||
		errors.Is(err, ErrHostCannotLeave) ||
		errors.Is(err, ErrNotHost)
}

// IsConflictError reports whether err is an occupancy or lobby-state
// conflict that the user can resolve by picking another seat or lobby.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNotSearching) ||
		errors.Is(err, ErrLobbyFull) ||
		errors.Is(err, ErrAlreadyInLobby) ||
		errors.Is(err, ErrSlotTaken)
}
