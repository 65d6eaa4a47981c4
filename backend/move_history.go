package main

type HistoryEntry struct {
	Move       Move       `json:"move"`
	Player     PlayerMark `json:"player"`
	Evicted    int        `json:"evicted,omitempty"`
	HasEvicted bool       `json:"has_evicted,omitempty"`
	IsAi       bool       `json:"is_ai"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	Depth      int        `json:"depth,omitempty"`
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = h.entries[:0]
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h *MoveHistory) Size() int {
	return len(h.entries)
}

func (h *MoveHistory) All() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
