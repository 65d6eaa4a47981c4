package main

import "fmt"

type PlayerMark int

type GameStatus int

const (
	PlayerX PlayerMark = iota
	PlayerO
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusXWon
	StatusOWon
	StatusDraw
)

type GameState struct {
	Board       Board
	ToMove      PlayerMark
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	XQueue      MarkQueue
	OQueue      MarkQueue
	EvictedPos  int
	HasEviction bool
	Hash        uint64
	WinningLine []int
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board.Reset()
	if settings.XStarts {
		s.ToMove = PlayerX
	} else {
		s.ToMove = PlayerO
	}
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{Pos: -1}
	s.XQueue.Clear()
	s.OQueue.Clear()
	s.EvictedPos = 0
	s.HasEviction = false
	s.WinningLine = nil
	s.recomputeHash()
}

func (s GameState) Clone() GameState {
	clone := s
	clone.XQueue = s.XQueue.Clone()
	clone.OQueue = s.OQueue.Clone()
	clone.WinningLine = append([]int(nil), s.WinningLine...)
	return clone
}

func (s *GameState) queueFor(player PlayerMark) *MarkQueue {
	if player == PlayerX {
		return &s.XQueue
	}
	return &s.OQueue
}

func (s GameState) QueueFor(player PlayerMark) MarkQueue {
	if player == PlayerX {
		return s.XQueue
	}
	return s.OQueue
}

func (s *GameState) recomputeHash() {
	s.Hash = ComputeHash(*s)
}

// checkMarkQueues verifies the No-Draw invariant: each queue holds
// exactly the cells carrying that player's marks, and never more than
// MaxMarks of them.
func (s GameState) checkMarkQueues() error {
	for _, player := range []PlayerMark{PlayerX, PlayerO} {
		queue := s.QueueFor(player)
		if queue.Len() > MaxMarks {
			return fmt.Errorf("%w: %s queue holds %d marks", ErrCorruptState, player, queue.Len())
		}
		cell := CellFromPlayer(player)
		count := 0
		for pos := 0; pos < BoardCells; pos++ {
			if s.Board.At(pos) != cell {
				continue
			}
			count++
			if !queue.Contains(pos) {
				return fmt.Errorf("%w: %s mark at cell %d missing from queue", ErrCorruptState, player, pos)
			}
		}
		if count != queue.Len() {
			return fmt.Errorf("%w: %s has %d marks on board but %d queued", ErrCorruptState, player, count, queue.Len())
		}
	}
	return nil
}

func otherPlayer(player PlayerMark) PlayerMark {
	if player == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func statusWonBy(player PlayerMark) GameStatus {
	if player == PlayerX {
		return StatusXWon
	}
	return StatusOWon
}

func (p PlayerMark) String() string {
	if p == PlayerX {
		return "X"
	}
	return "O"
}

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusXWon:
		return "x_won"
	case StatusOWon:
		return "o_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}
