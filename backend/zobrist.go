package main

// ZobristTable holds the random keys hashed into a GameState identity:
// one key per (cell, player) mark, one key per (player, queue slot,
// cell) so that mark-queue ORDER is part of the key (two boards with
// identical cells but different eviction order evolve differently), and
// one side-to-move key.
type ZobristTable struct {
	marks [BoardCells * 2]uint64
	slots [2][MaxMarks][BoardCells]uint64
	side  uint64
}

var zobrist = newZobristTable()

func newZobristTable() *ZobristTable {
	rng := splitmix64{state: 0x9e3779b97f4a7c15}
	table := &ZobristTable{}
	for i := range table.marks {
		table.marks[i] = rng.next()
	}
	for player := 0; player < 2; player++ {
		for slot := 0; slot < MaxMarks; slot++ {
			for pos := 0; pos < BoardCells; pos++ {
				table.slots[player][slot][pos] = rng.next()
			}
		}
	}
	table.side = rng.next()
	return table
}

func (z *ZobristTable) mark(pos int, player PlayerMark) uint64 {
	idx := pos * 2
	if player == PlayerO {
		idx++
	}
	return z.marks[idx]
}

func (z *ZobristTable) queueSlot(player PlayerMark, slot, pos int) uint64 {
	return z.slots[int(player)][slot][pos]
}

func ComputeHash(state GameState) uint64 {
	var hash uint64
	for pos := 0; pos < BoardCells; pos++ {
		cell := state.Board.At(pos)
		if cell == CellEmpty {
			continue
		}
		player := PlayerX
		if cell == CellO {
			player = PlayerO
		}
		hash ^= zobrist.mark(pos, player)
	}
	for slot, pos := range state.XQueue.cells {
		hash ^= zobrist.queueSlot(PlayerX, slot, pos)
	}
	for slot, pos := range state.OQueue.cells {
		hash ^= zobrist.queueSlot(PlayerO, slot, pos)
	}
	if state.ToMove == PlayerO {
		hash ^= zobrist.side
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
