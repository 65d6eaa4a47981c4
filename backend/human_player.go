package main

// HumanPlayer is a placeholder seat: human moves arrive through the
// controller, never by asking the player object.
type HumanPlayer struct{}

func (p *HumanPlayer) IsHuman() bool {
	return true
}

func (p *HumanPlayer) ChooseMove(state GameState, rules Rules) (Move, error) {
	return Move{}, ErrOutOfTurn
}
