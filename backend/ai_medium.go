package main

import (
	"math/rand"
	"time"
)

// MediumAI takes an immediate win when one exists, otherwise blocks the
// opponent's immediate win, otherwise falls back to a random legal move.
// Ties are broken by board scan order (position 0 first).
type MediumAI struct {
	rng *rand.Rand
}

func NewMediumAI() *MediumAI {
	return NewMediumAIWithSeed(time.Now().UnixNano())
}

func NewMediumAIWithSeed(seed int64) *MediumAI {
	return &MediumAI{rng: rand.New(rand.NewSource(seed))}
}

func (ai *MediumAI) IsHuman() bool {
	return false
}

func (ai *MediumAI) ChooseMove(state GameState, rules Rules) (Move, error) {
	moves := rules.LegalMoves(state)
	if len(moves) == 0 {
		return Move{}, ErrNoLegalMoves
	}
	me := state.ToMove
	opp := otherPlayer(me)

	if move, ok := findWinningMove(state, rules, me); ok {
		return move, nil
	}
	if move, ok := findWinningMove(state, rules, opp); ok {
		// Under classic rules a winning cell for the opponent is always
		// a legal cell for us too, so blocking is just taking it.
		return move, nil
	}
	return moves[ai.rng.Intn(len(moves))], nil
}

// findWinningMove scans cells 0..8 for a move that wins on the spot for
// player, simulating under the current rule set so that no-draw eviction
// is accounted for.
func findWinningMove(state GameState, rules Rules, player PlayerMark) (Move, bool) {
	for pos := 0; pos < BoardCells; pos++ {
		move := NewMove(pos)
		if legal, _ := rules.IsLegal(state, move, player); !legal {
			continue
		}
		if isImmediateWin(state, rules, move, player) {
			return move, true
		}
	}
	return Move{}, false
}

func isImmediateWin(state GameState, rules Rules, move Move, player PlayerMark) bool {
	next := state.Clone()
	next.ToMove = player
	if err := rules.Apply(&next, move, player); err != nil {
		return false
	}
	return next.Status == statusWonBy(player)
}
