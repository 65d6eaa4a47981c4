package main

import (
	"fmt"
	"strings"
)

type Cell int

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

const (
	// BoardCells is the fixed 3x3 board size, indexed 0..8 row-major:
	//   0 | 1 | 2
	//   3 | 4 | 5
	//   6 | 7 | 8
	BoardCells = 9

	// MaxMarks is the per-player mark cap in No-Draw mode.
	MaxMarks = 3
)

// winningLines holds the 8 winning triples in row-major scan order:
// rows, then columns, then diagonals. Winner checks follow this order.
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type Board struct {
	cells [BoardCells]Cell
}

func NewBoard() Board {
	return Board{}
}

func (b *Board) Reset() {
	b.cells = [BoardCells]Cell{}
}

func (b Board) At(pos int) Cell {
	return b.cells[pos]
}

func (b *Board) Set(pos int, value Cell) {
	b.cells[pos] = value
}

func (b *Board) Remove(pos int) {
	b.cells[pos] = CellEmpty
}

func (b Board) InBounds(pos int) bool {
	return pos >= 0 && pos < BoardCells
}

func (b Board) IsEmpty(pos int) bool {
	return b.InBounds(pos) && b.cells[pos] == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) IsFull() bool {
	return b.CountEmpty() == 0
}

// Winner returns the owner of the first completed line in scan order,
// together with the line itself. Two lines for different players cannot
// coexist because a winner check follows every single placement.
func (b Board) Winner() (PlayerMark, [3]int, bool) {
	for _, line := range winningLines {
		cell := b.cells[line[0]]
		if cell == CellEmpty {
			continue
		}
		if b.cells[line[1]] == cell && b.cells[line[2]] == cell {
			player, _ := PlayerFromCell(cell)
			return player, line, true
		}
	}
	return PlayerX, [3]int{}, false
}

// HasWinner reports whether the given player owns a completed line.
func (b Board) HasWinner(player PlayerMark) bool {
	cell := CellFromPlayer(player)
	for _, line := range winningLines {
		if b.cells[line[0]] == cell && b.cells[line[1]] == cell && b.cells[line[2]] == cell {
			return true
		}
	}
	return false
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			switch b.cells[row*3+col] {
			case CellX:
				sb.WriteByte('X')
			case CellO:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		if row < 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (c Cell) String() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerMark) Cell {
	if player == PlayerX {
		return CellX
	}
	return CellO
}

func PlayerFromCell(cell Cell) (PlayerMark, error) {
	switch cell {
	case CellX:
		return PlayerX, nil
	case CellO:
		return PlayerO, nil
	default:
		return PlayerX, fmt.Errorf("empty cell has no player")
	}
}
