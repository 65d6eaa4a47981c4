package main

import (
	"fmt"
	"time"
)

// Game owns one round: the board state, the rule set in force, the two
// seats, and the move history.
type Game struct {
	settings  GameSettings
	rules     Rules
	state     GameState
	history   MoveHistory
	xPlayer   IPlayer
	oPlayer   IPlayer
	turnStart time.Time
}

func NewGame(settings GameSettings) *Game {
	g := &Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.rules = NewRules(settings.Mode)
	g.state = DefaultGameState(settings)
	g.history.Clear()
	g.createPlayers()
}

func (g *Game) Start() {
	g.state.Status = StatusRunning
	g.turnStart = time.Now()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() []HistoryEntry {
	return g.history.All()
}

func (g *Game) TurnStart() time.Time {
	return g.turnStart
}

func (g *Game) CurrentPlayerIsHuman() bool {
	return g.playerFor(g.state.ToMove).IsHuman()
}

// TryApplyMove validates and applies a move for the side to move,
// recording it in the history. Moves for the wrong side or on a settled
// game fail with ErrOutOfTurn.
func (g *Game) TryApplyMove(move Move, player PlayerMark, isAi bool) error {
	if g.state.Status != StatusRunning {
		return fmt.Errorf("%w: game is %s", ErrOutOfTurn, g.state.Status)
	}
	if player != g.state.ToMove {
		return fmt.Errorf("%w: %s to move", ErrOutOfTurn, g.state.ToMove)
	}
	if legal, reason := g.rules.IsLegal(g.state, move, player); !legal {
		return fmt.Errorf("%w: %s", ErrInvalidMove, reason)
	}
	elapsed := time.Since(g.turnStart).Milliseconds()
	if err := g.rules.Apply(&g.state, move, player); err != nil {
		return err
	}
	entry := HistoryEntry{
		Move:      move,
		Player:    player,
		IsAi:      isAi,
		ElapsedMs: elapsed,
		Depth:     move.Depth,
	}
	if g.state.HasEviction {
		entry.Evicted = g.state.EvictedPos
		entry.HasEvicted = true
	}
	g.history.Push(entry)
	g.turnStart = time.Now()
	return nil
}

// RequestAIMove asks the seat to move for its choice and applies it.
func (g *Game) RequestAIMove() (Move, error) {
	if g.state.Status != StatusRunning {
		return Move{}, fmt.Errorf("%w: game is %s", ErrOutOfTurn, g.state.Status)
	}
	player := g.state.ToMove
	seat := g.playerFor(player)
	if seat.IsHuman() {
		return Move{}, fmt.Errorf("%w: %s seat is human", ErrOutOfTurn, player)
	}
	move, err := seat.ChooseMove(g.state.Clone(), g.rules)
	if err != nil {
		return Move{}, err
	}
	if err := g.TryApplyMove(move, player, true); err != nil {
		return Move{}, err
	}
	return move, nil
}

func (g *Game) playerFor(mark PlayerMark) IPlayer {
	if mark == PlayerX {
		return g.xPlayer
	}
	return g.oPlayer
}

func (g *Game) createPlayers() {
	g.xPlayer = newPlayerForType(g.settings.XType, g.settings.Difficulty)
	g.oPlayer = newPlayerForType(g.settings.OType, g.settings.Difficulty)
}

func newPlayerForType(t PlayerType, difficulty Difficulty) IPlayer {
	if t == PlayerHuman {
		return &HumanPlayer{}
	}
	switch difficulty {
	case DifficultyEasy:
		return NewEasyAI()
	case DifficultyMedium:
		return NewMediumAI()
	default:
		return NewHardAI()
	}
}
