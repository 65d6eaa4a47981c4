package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

func (t PlayerType) String() string {
	if t == PlayerAI {
		return "ai"
	}
	return "human"
}

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "unknown"
}

type GameSettings struct {
	Mode       GameMode   `json:"mode"`
	Difficulty Difficulty `json:"difficulty"`
	XType      PlayerType `json:"x_type"`
	OType      PlayerType `json:"o_type"`
	XStarts    bool       `json:"x_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Mode:       ModeClassic,
		Difficulty: DifficultyHard,
		XType:      PlayerHuman,
		OType:      PlayerAI,
		XStarts:    true,
	}
}
