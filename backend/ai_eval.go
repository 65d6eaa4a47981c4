package main

import "math"

// EvaluateBoard scores a non-terminal position from player's point of view.
// The raw value counts open-line threats for each side and penalizes marks
// that sit on the player's oldest (soonest-evicted) cell. The result is
// squashed into (-1, 1) so heuristic values never outrank a proven win.
func EvaluateBoard(state *GameState, player PlayerMark, config Config) float64 {
	opp := otherPlayer(player)
	raw := lineThreatScore(state, player, config) - lineThreatScore(state, opp, config)
	return raw / (1 + math.Abs(raw))
}

func lineThreatScore(state *GameState, player PlayerMark, config Config) float64 {
	mine := CellFromPlayer(player)
	theirs := CellFromPlayer(otherPlayer(player))

	exposed := -1
	queue := state.QueueFor(player)
	if queue.Full() {
		if oldest, ok := queue.Oldest(); ok {
			exposed = oldest
		}
	}

	score := 0.0
	for _, line := range winningLines {
		count := 0
		blocked := false
		onExposed := false
		for _, pos := range line {
			switch state.Board.At(pos) {
			case mine:
				count++
				if pos == exposed {
					onExposed = true
				}
			case theirs:
				blocked = true
			}
		}
		if blocked || count == 0 {
			continue
		}
		switch count {
		case 2:
			score += config.Heuristics.TwoInLine
		case 1:
			score += config.Heuristics.OneInLine
		}
		// A two-in-line built on the cell about to rotate off the board
		// is weaker than it looks.
		if onExposed && count >= 2 {
			score -= config.Heuristics.EvictionExposure
		}
	}
	return score
}
