package main

import "fmt"

type GameMode int

const (
	ModeClassic GameMode = iota
	ModeNoDraw
)

func (m GameMode) String() string {
	if m == ModeNoDraw {
		return "no_draw"
	}
	return "classic"
}

// Rules is the per-variant move contract, chosen once at session start.
// Apply performs placement plus any variant side effects (eviction in
// No-Draw), runs the winner check on the resulting board, and advances
// the side to move while the game is still running.
type Rules interface {
	Mode() GameMode
	IsLegal(state GameState, move Move, player PlayerMark) (bool, string)
	LegalMoves(state GameState) []Move
	Apply(state *GameState, move Move, player PlayerMark) error
	CheckOutcome(state GameState) GameStatus
}

func NewRules(mode GameMode) Rules {
	if mode == ModeNoDraw {
		return noDrawRules{}
	}
	return classicRules{}
}

type classicRules struct{}

func (classicRules) Mode() GameMode {
	return ModeClassic
}

func (classicRules) IsLegal(state GameState, move Move, player PlayerMark) (bool, string) {
	if state.Status != StatusRunning {
		return false, "game not running"
	}
	if !move.IsValid() {
		return false, "out of bounds"
	}
	if !state.Board.IsEmpty(move.Pos) {
		return false, "occupied"
	}
	return true, ""
}

func (r classicRules) LegalMoves(state GameState) []Move {
	return emptyCellMoves(state)
}

func (r classicRules) Apply(state *GameState, move Move, player PlayerMark) error {
	if ok, reason := r.IsLegal(*state, move, player); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidMove, reason)
	}
	state.Board.Set(move.Pos, CellFromPlayer(player))
	state.LastMove = move
	state.HasLastMove = true
	state.HasEviction = false
	state.WinningLine = nil
	if winner, line, ok := state.Board.Winner(); ok {
		state.Status = statusWonBy(winner)
		state.WinningLine = line[:]
	} else if state.Board.IsFull() {
		state.Status = StatusDraw
	} else {
		state.ToMove = otherPlayer(player)
	}
	state.recomputeHash()
	return nil
}

// CheckOutcome inspects the board alone: a completed line wins, a full
// board without one is a draw, anything else is still in progress.
func (classicRules) CheckOutcome(state GameState) GameStatus {
	if winner, _, ok := state.Board.Winner(); ok {
		return statusWonBy(winner)
	}
	if state.Board.IsFull() {
		return StatusDraw
	}
	return state.Status
}

type noDrawRules struct{}

func (noDrawRules) Mode() GameMode {
	return ModeNoDraw
}

func (noDrawRules) IsLegal(state GameState, move Move, player PlayerMark) (bool, string) {
	if state.Status != StatusRunning {
		return false, "game not running"
	}
	if !move.IsValid() {
		return false, "out of bounds"
	}
	if !state.Board.IsEmpty(move.Pos) {
		return false, "occupied"
	}
	return true, ""
}

func (r noDrawRules) LegalMoves(state GameState) []Move {
	return emptyCellMoves(state)
}

// Apply evicts the acting player's oldest mark first when they already
// hold MaxMarks, then places the new mark and pushes it onto the queue.
// The winner check runs on the post-eviction, post-placement board. A
// full board is never terminal here: the game ends only on a completed
// line.
func (r noDrawRules) Apply(state *GameState, move Move, player PlayerMark) error {
	if ok, reason := r.IsLegal(*state, move, player); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidMove, reason)
	}
	queue := state.queueFor(player)
	state.HasEviction = false
	if queue.Full() {
		evicted, _ := queue.PopOldest()
		state.Board.Remove(evicted)
		state.EvictedPos = evicted
		state.HasEviction = true
	}
	state.Board.Set(move.Pos, CellFromPlayer(player))
	queue.Push(move.Pos)
	state.LastMove = move
	state.HasLastMove = true
	state.WinningLine = nil
	if err := state.checkMarkQueues(); err != nil {
		return err
	}
	if winner, line, ok := state.Board.Winner(); ok {
		state.Status = statusWonBy(winner)
		state.WinningLine = line[:]
	} else {
		state.ToMove = otherPlayer(player)
	}
	state.recomputeHash()
	return nil
}

// CheckOutcome never reports a draw: a full board stays in progress
// until someone completes a line.
func (noDrawRules) CheckOutcome(state GameState) GameStatus {
	if winner, _, ok := state.Board.Winner(); ok {
		return statusWonBy(winner)
	}
	return state.Status
}

func emptyCellMoves(state GameState) []Move {
	moves := make([]Move, 0, BoardCells)
	for pos := 0; pos < BoardCells; pos++ {
		if state.Board.IsEmpty(pos) {
			moves = append(moves, NewMove(pos))
		}
	}
	return moves
}
