package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

type SessionPhase int

const (
	PhaseSelectingMode SessionPhase = iota
	PhaseSelectingDifficulty
	PhaseAwaitingFirstPlayer
	PhasePlayerTurn
	PhaseAITurn
	PhaseRoundOver
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseSelectingMode:
		return "selecting_mode"
	case PhaseSelectingDifficulty:
		return "selecting_difficulty"
	case PhaseAwaitingFirstPlayer:
		return "awaiting_first_player"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseAITurn:
		return "ai_turn"
	case PhaseRoundOver:
		return "round_over"
	}
	return "unknown"
}

// Scores tallies round outcomes from the X seat's point of view.
type Scores struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// GameController drives one session through its menu and play phases
// and keeps the running score across rounds.
type GameController struct {
	mu      sync.Mutex
	game    *Game
	phase   SessionPhase
	scores  Scores
	rng     *rand.Rand
	pending GameSettings
}

func NewGameController() *GameController {
	return NewGameControllerWithSeed(time.Now().UnixNano())
}

func NewGameControllerWithSeed(seed int64) *GameController {
	return &GameController{
		phase:   PhaseSelectingMode,
		rng:     rand.New(rand.NewSource(seed)),
		pending: DefaultGameSettings(),
	}
}

func (c *GameController) Phase() SessionPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *GameController) Scores() Scores {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scores
}

func (c *GameController) ResetScores() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = Scores{}
}

func (c *GameController) SelectMode(mode GameMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseSelectingMode {
		return fmt.Errorf("%w: cannot select mode in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.Mode = mode
	c.phase = PhaseSelectingDifficulty
	return nil
}

func (c *GameController) SelectDifficulty(difficulty Difficulty) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseSelectingDifficulty {
		return fmt.Errorf("%w: cannot select difficulty in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.Difficulty = difficulty
	c.phase = PhaseAwaitingFirstPlayer
	return nil
}

// RandomizeFirstPlayer flips a fair coin for who opens the round and
// starts the game.
func (c *GameController) RandomizeFirstPlayer() (PlayerMark, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseAwaitingFirstPlayer {
		return PlayerX, fmt.Errorf("%w: cannot start in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.XStarts = c.rng.Intn(2) == 0
	c.startRoundLocked()
	first := PlayerO
	if c.pending.XStarts {
		first = PlayerX
	}
	return first, nil
}

// StartGame runs the whole menu flow in one call with a random first
// player.
func (c *GameController) StartGame(mode GameMode, difficulty Difficulty) (PlayerMark, error) {
	if err := c.SelectMode(mode); err != nil {
		return PlayerX, err
	}
	if err := c.SelectDifficulty(difficulty); err != nil {
		return PlayerX, err
	}
	return c.RandomizeFirstPlayer()
}

// StartGameWithFirstPlayer skips the coin flip, for callers that decide
// the opener themselves.
func (c *GameController) StartGameWithFirstPlayer(mode GameMode, difficulty Difficulty, first PlayerMark) error {
	if err := c.SelectMode(mode); err != nil {
		return err
	}
	if err := c.SelectDifficulty(difficulty); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseAwaitingFirstPlayer {
		return fmt.Errorf("%w: cannot start in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.XStarts = first == PlayerX
	c.startRoundLocked()
	return nil
}

// SetSeats configures which seats are human before the round starts.
func (c *GameController) SetSeats(xType, oType PlayerType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseSelectingMode {
		return fmt.Errorf("%w: cannot change seats in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.XType = xType
	c.pending.OType = oType
	return nil
}

func (c *GameController) startRoundLocked() {
	if c.game == nil {
		c.game = NewGame(c.pending)
	} else {
		c.game.Reset(c.pending)
	}
	c.game.Start()
	c.phase = c.turnPhaseLocked()
}

func (c *GameController) turnPhaseLocked() SessionPhase {
	if c.game.CurrentPlayerIsHuman() {
		return PhasePlayerTurn
	}
	return PhaseAITurn
}

// PlayerMove applies a human move at pos for the side to move.
func (c *GameController) PlayerMove(pos int) (GameStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhasePlayerTurn {
		return StatusNotStarted, fmt.Errorf("%w: phase is %s", ErrOutOfTurn, c.phase)
	}
	state := c.game.State()
	if err := c.game.TryApplyMove(NewMove(pos), state.ToMove, false); err != nil {
		return state.Status, err
	}
	return c.afterMoveLocked(), nil
}

// RequestAIMove runs one synchronous AI turn.
func (c *GameController) RequestAIMove() (Move, GameStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseAITurn {
		return Move{}, StatusNotStarted, fmt.Errorf("%w: phase is %s", ErrOutOfTurn, c.phase)
	}
	move, err := c.game.RequestAIMove()
	if err != nil {
		return Move{}, c.game.State().Status, err
	}
	return move, c.afterMoveLocked(), nil
}

func (c *GameController) afterMoveLocked() GameStatus {
	status := c.game.State().Status
	switch status {
	case StatusRunning:
		c.phase = c.turnPhaseLocked()
	case StatusXWon:
		c.scores.Wins++
		c.phase = PhaseRoundOver
	case StatusOWon:
		c.scores.Losses++
		c.phase = PhaseRoundOver
	case StatusDraw:
		c.scores.Draws++
		c.phase = PhaseRoundOver
	}
	if c.phase == PhaseRoundOver {
		log.Printf("[backend] round over after %d moves: %s", c.game.history.Size(), status)
	}
	return status
}

// Restart begins a new round with the same mode and difficulty and a
// fresh coin flip, keeping the score.
func (c *GameController) Restart() (PlayerMark, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRoundOver {
		return PlayerX, fmt.Errorf("%w: cannot restart in phase %s", ErrOutOfTurn, c.phase)
	}
	c.pending.XStarts = c.rng.Intn(2) == 0
	c.startRoundLocked()
	first := PlayerO
	if c.pending.XStarts {
		first = PlayerX
	}
	return first, nil
}

// ReturnToMenu goes back to mode selection, keeping the score.
func (c *GameController) ReturnToMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseSelectingMode
	c.game = nil
}

// State returns a snapshot of the current round, or a zero state when
// no round is active.
func (c *GameController) State() GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return GameState{}
	}
	return c.game.State()
}

func (c *GameController) Settings() GameSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return c.pending
	}
	return c.game.Settings()
}

func (c *GameController) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return nil
	}
	return c.game.History()
}

func (c *GameController) TurnStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game == nil {
		return time.Time{}
	}
	return c.game.TurnStart()
}
