package main

import "errors"

// Errors surfaced by the game core. InvalidMove and OutOfTurn are
// recoverable: the board is left unchanged and play continues.
// CorruptState means the mark queues and the board disagree, which is a
// defect; the session is aborted with a diagnostic rather than played on.
var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfTurn    = errors.New("out of turn")
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrCorruptState = errors.New("mark queue out of sync with board")
)
