package main

type Move struct {
	Pos   int `json:"pos"`
	Depth int `json:"depth,omitempty"`
}

func NewMove(pos int) Move {
	return Move{Pos: pos}
}

func (m Move) IsValid() bool {
	return m.Pos >= 0 && m.Pos < BoardCells
}

func (m Move) Row() int {
	return m.Pos / 3
}

func (m Move) Col() int {
	return m.Pos % 3
}
