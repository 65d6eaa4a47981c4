package main

// MarkQueue tracks the board cells currently occupied by one player,
// oldest first. In No-Draw mode it never holds more than MaxMarks
// entries: placing a fourth mark evicts the oldest one.
type MarkQueue struct {
	cells []int
}

func (q MarkQueue) Len() int {
	return len(q.cells)
}

func (q MarkQueue) Full() bool {
	return len(q.cells) >= MaxMarks
}

// Oldest returns the cell holding this player's longest-lived mark.
func (q MarkQueue) Oldest() (int, bool) {
	if len(q.cells) == 0 {
		return 0, false
	}
	return q.cells[0], true
}

func (q *MarkQueue) Push(pos int) {
	q.cells = append(q.cells, pos)
}

func (q *MarkQueue) PopOldest() (int, bool) {
	if len(q.cells) == 0 {
		return 0, false
	}
	oldest := q.cells[0]
	q.cells = q.cells[1:]
	return oldest, true
}

func (q MarkQueue) Contains(pos int) bool {
	for _, cell := range q.cells {
		if cell == pos {
			return true
		}
	}
	return false
}

// Cells returns the queue contents oldest first.
func (q MarkQueue) Cells() []int {
	return append([]int(nil), q.cells...)
}

func (q MarkQueue) Clone() MarkQueue {
	return MarkQueue{cells: append([]int(nil), q.cells...)}
}

func (q *MarkQueue) Clear() {
	q.cells = nil
}
