// internal/game/failure.go
package game

import "errors"

// FailureKind classifies a rejected intent. Every kind is recoverable: the
// intent mutates nothing and the failure is reported only to the acting
// connection. There is no fatal class.
type FailureKind int

const (
	// KindValidation covers illegal moves by the acting player.
	KindValidation FailureKind = iota
	// KindCapacity covers room lifecycle rejections (full, missing, started).
	KindCapacity
	// KindIdentity covers reconnection to an identity the session doesn't know;
	// clients should discard any cached session on seeing one.
	KindIdentity
)

// Failure is a rejected intent. Code is the stable machine-readable token
// sent to clients; the message is the human-readable form.
type Failure struct {
	Code string
	Kind FailureKind
	msg  string
}

func (f *Failure) Error() string { return f.msg }

var (
	ErrNotYourTurn      = &Failure{"not_your_turn", KindValidation, "it's not your turn"}
	ErrInvalidMove      = &Failure{"invalid_move", KindValidation, "that card cannot be played on that pile"}
	ErrCardNotFound     = &Failure{"card_not_found", KindValidation, "card not found in the declared source"}
	ErrCardNotInHand    = &Failure{"card_not_in_hand", KindValidation, "card is not in your hand"}
	ErrInvalidPileIndex = &Failure{"invalid_pile_index", KindValidation, "pile index must be between 0 and 3"}

	ErrRoomFull         = &Failure{"room_full", KindCapacity, "room is full"}
	ErrRoomNotFound     = &Failure{"room_not_found", KindCapacity, "room not found"}
	ErrAlreadyStarted   = &Failure{"already_started", KindCapacity, "game has already started"}
	ErrNotEnoughPlayers = &Failure{"not_enough_players", KindCapacity, "need at least 2 players to start"}

	ErrPlayerNotFound = &Failure{"player_not_found", KindIdentity, "player not found in this room"}
)

// AsFailure extracts the Failure from err, if it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
