package main

import (
	"math/rand"
	"time"
)

// EasyAI plays a uniformly random legal move.
type EasyAI struct {
	rng *rand.Rand
}

func NewEasyAI() *EasyAI {
	return NewEasyAIWithSeed(time.Now().UnixNano())
}

func NewEasyAIWithSeed(seed int64) *EasyAI {
	return &EasyAI{rng: rand.New(rand.NewSource(seed))}
}

func (ai *EasyAI) IsHuman() bool {
	return false
}

func (ai *EasyAI) ChooseMove(state GameState, rules Rules) (Move, error) {
	moves := rules.LegalMoves(state)
	if len(moves) == 0 {
		return Move{}, ErrNoLegalMoves
	}
	return moves[ai.rng.Intn(len(moves))], nil
}
