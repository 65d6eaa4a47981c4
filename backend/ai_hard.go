package main

import (
	"log"
	"math"
	"time"
)

const winScore = 10.0

// mateThreshold separates proven outcomes from heuristic evaluations.
// Terminal scores have magnitude winScore-depth >= winScore-9 = 1, while
// heuristic values are squashed strictly below 1.
const mateThreshold = 1.0

// movePriority orders candidate cells center first, then corners, then
// edges. In classic play this ordering alone makes alpha-beta prune most
// of the tree.
var movePriority = [BoardCells]int{4, 0, 2, 6, 8, 1, 3, 5, 7}

type SearchStats struct {
	Nodes          int
	TTProbes       int
	TTHits         int
	TTStores       int
	Cutoffs        int
	Start          time.Time
	CompletedDepth int
}

// HardAI searches the game tree with minimax and alpha-beta pruning.
// Classic games are solved exhaustively. No-draw games use a bounded
// depth with a transposition table and a heuristic at the horizon.
type HardAI struct {
	tt *TranspositionTable
}

func NewHardAI() *HardAI {
	config := GetConfig()
	return &HardAI{
		tt: NewTranspositionTable(uint64(config.AiTtSize), config.AiTtBuckets),
	}
}

func (ai *HardAI) IsHuman() bool {
	return false
}

func (ai *HardAI) ChooseMove(state GameState, rules Rules) (Move, error) {
	moves := rules.LegalMoves(state)
	if len(moves) == 0 {
		return Move{}, ErrNoLegalMoves
	}
	config := GetConfig()
	stats := &SearchStats{Start: time.Now()}

	var move Move
	switch rules.Mode() {
	case ModeNoDraw:
		move = ai.chooseNoDraw(state, rules, moves, config, stats)
	default:
		move = ai.chooseClassic(state, rules, moves, stats)
	}
	if config.AiLogSearchStats {
		logSearchStats(rules.Mode(), stats)
	}
	return move, nil
}

func (ai *HardAI) chooseClassic(state GameState, rules Rules, moves []Move, stats *SearchStats) Move {
	me := state.ToMove
	orderByPriority(moves)

	best := moves[0]
	bestScore := math.Inf(-1)
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	for _, move := range moves {
		next := state.Clone()
		if err := rules.Apply(&next, move, me); err != nil {
			continue
		}
		score := minimaxClassic(&next, rules, me, 1, alpha, beta, stats)
		if score > bestScore {
			bestScore = score
			best = move
		}
		if score > alpha {
			alpha = score
		}
	}
	stats.CompletedDepth = state.Board.CountEmpty()
	best.Depth = stats.CompletedDepth
	return best
}

// minimaxClassic searches to the end of the game. Scores are winScore
// minus the depth at which the win lands, so faster wins rank higher
// and slower losses rank higher.
func minimaxClassic(state *GameState, rules Rules, me PlayerMark, depth int, alpha, beta float64, stats *SearchStats) float64 {
	stats.Nodes++
	if score, done := terminalScore(state, me, depth); done {
		return score
	}

	moves := rules.LegalMoves(*state)
	orderByPriority(moves)
	maximizing := state.ToMove == me

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range moves {
		next := state.Clone()
		if err := rules.Apply(&next, move, state.ToMove); err != nil {
			continue
		}
		score := minimaxClassic(&next, rules, me, depth+1, alpha, beta, stats)
		if maximizing {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			stats.Cutoffs++
			break
		}
	}
	if math.IsInf(best, 0) {
		return 0
	}
	return best
}

func (ai *HardAI) chooseNoDraw(state GameState, rules Rules, moves []Move, config Config, stats *SearchStats) Move {
	me := state.ToMove

	// An on-the-spot win needs no search.
	if move, ok := findWinningMove(state, rules, me); ok {
		move.Depth = 1
		stats.CompletedDepth = 1
		return move
	}

	depth := dynamicDepth(state, config)
	ai.tt.NextGeneration()

	orderNoDrawMoves(state, rules, moves, me, Move{Pos: -1})

	best := moves[0]
	bestScore := math.Inf(-1)
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	for _, move := range moves {
		next := state.Clone()
		if err := rules.Apply(&next, move, me); err != nil {
			continue
		}
		score := ai.minimaxNoDraw(&next, rules, me, depth-1, 1, alpha, beta, config, stats)
		if score > bestScore {
			bestScore = score
			best = move
		}
		if score > alpha {
			alpha = score
		}
	}
	stats.CompletedDepth = depth
	best.Depth = depth
	return best
}

// dynamicDepth adapts the search horizon to how open the board is:
// wide positions get a shallower look, crowded ones a deeper one.
func dynamicDepth(state GameState, config Config) int {
	if config.AiMaxDepth > 0 {
		return config.AiMaxDepth
	}
	empty := state.Board.CountEmpty()
	switch {
	case empty >= 7:
		return 4
	case empty >= 5:
		return 5
	default:
		return 6
	}
}

func (ai *HardAI) minimaxNoDraw(state *GameState, rules Rules, me PlayerMark, depth, ply int, alpha, beta float64, config Config, stats *SearchStats) float64 {
	stats.Nodes++
	if score, done := terminalScore(state, me, ply); done {
		return score
	}
	if depth <= 0 {
		return EvaluateBoard(state, me, config)
	}

	alphaOrig := alpha
	betaOrig := beta
	pv := Move{Pos: -1}

	stats.TTProbes++
	if entry, ok := ai.tt.Probe(state.Hash); ok {
		stats.TTHits++
		pv = entry.BestMove
		if entry.Depth >= depth {
			if value, cut := applyTTEntry(entry, ply, &alpha, &beta); cut {
				return value
			}
		}
	}

	moves := rules.LegalMoves(*state)
	orderNoDrawMoves(*state, rules, moves, state.ToMove, pv)
	maximizing := state.ToMove == me

	best := math.Inf(1)
	bestMove := Move{Pos: -1}
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range moves {
		next := state.Clone()
		if err := rules.Apply(&next, move, state.ToMove); err != nil {
			continue
		}
		score := ai.minimaxNoDraw(&next, rules, me, depth-1, ply+1, alpha, beta, config, stats)
		if maximizing {
			if score > best {
				best = score
				bestMove = move
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
				bestMove = move
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			stats.Cutoffs++
			break
		}
	}
	if math.IsInf(best, 0) {
		return 0
	}

	flag := TTExact
	if best <= alphaOrig {
		flag = TTUpper
	} else if best >= betaOrig {
		flag = TTLower
	}
	ai.tt.Store(state.Hash, depth, valueToTT(best, ply), flag, bestMove)
	stats.TTStores++
	return best
}

// applyTTEntry narrows the alpha-beta window from a stored entry, or
// returns a value outright when the bound is decisive.
func applyTTEntry(entry TTEntry, ply int, alpha, beta *float64) (float64, bool) {
	value := valueFromTT(entry.Score, ply)
	switch entry.Flag {
	case TTExact:
		return value, true
	case TTLower:
		if value > *alpha {
			*alpha = value
		}
	case TTUpper:
		if value < *beta {
			*beta = value
		}
	}
	if *alpha >= *beta {
		return value, true
	}
	return 0, false
}

// Proven win/loss scores depend on the distance from the search root,
// but the table is keyed on position alone. Store them relative to the
// probing node and shift back on retrieval.
func valueToTT(value float64, ply int) float64 {
	if value >= mateThreshold {
		return value + float64(ply)
	}
	if value <= -mateThreshold {
		return value - float64(ply)
	}
	return value
}

func valueFromTT(value float64, ply int) float64 {
	if value >= mateThreshold {
		return value - float64(ply)
	}
	if value <= -mateThreshold {
		return value + float64(ply)
	}
	return value
}

// terminalScore reports whether state is settled and the score for me
// if so. depth offsets the score toward faster wins.
func terminalScore(state *GameState, me PlayerMark, depth int) (float64, bool) {
	switch state.Status {
	case statusWonBy(me):
		return winScore - float64(depth), true
	case statusWonBy(otherPlayer(me)):
		return float64(depth) - winScore, true
	case StatusDraw:
		return 0, true
	}
	return 0, false
}

func orderByPriority(moves []Move) {
	rank := func(pos int) int {
		for i, p := range movePriority {
			if p == pos {
				return i
			}
		}
		return BoardCells
	}
	insertionSortMoves(moves, func(a, b Move) bool {
		return rank(a.Pos) < rank(b.Pos)
	})
}

// orderNoDrawMoves puts the table move first, then immediate wins, then
// blocks of the opponent's immediate wins, then falls back to the static
// priority.
func orderNoDrawMoves(state GameState, rules Rules, moves []Move, player PlayerMark, pv Move) {
	opp := otherPlayer(player)
	ranks := make(map[int]int, len(moves))
	for _, m := range moves {
		ranks[m.Pos] = noDrawRank(state, rules, m, player, opp, pv)
	}
	insertionSortMoves(moves, func(a, b Move) bool {
		return ranks[a.Pos] < ranks[b.Pos]
	})
}

func noDrawRank(state GameState, rules Rules, m Move, player, opp PlayerMark, pv Move) int {
	if pv.Pos >= 0 && m.Pos == pv.Pos {
		return -2
	}
	if isImmediateWin(state, rules, m, player) {
		return -1
	}
	if isImmediateWin(state, rules, m, opp) {
		return 0
	}
	for i, p := range movePriority {
		if p == m.Pos {
			return 1 + i
		}
	}
	return 1 + BoardCells
}

func insertionSortMoves(moves []Move, less func(a, b Move) bool) {
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && less(moves[j], moves[j-1]); j-- {
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}
}

func logSearchStats(mode GameMode, stats *SearchStats) {
	elapsed := time.Since(stats.Start)
	log.Printf("[backend] search mode=%s depth=%d nodes=%d tt_probes=%d tt_hits=%d tt_stores=%d cutoffs=%d elapsed=%s",
		mode, stats.CompletedDepth, stats.Nodes, stats.TTProbes, stats.TTHits, stats.TTStores, stats.Cutoffs, elapsed)
}
