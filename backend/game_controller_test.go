package main

import (
	"errors"
	"testing"
)

func TestControllerMenuFlowPhases(t *testing.T) {
	c := NewGameControllerWithSeed(1)
	if c.Phase() != PhaseSelectingMode {
		t.Fatalf("new controller must start in mode selection, got %s", c.Phase())
	}
	if err := c.SelectDifficulty(DifficultyHard); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("difficulty before mode must fail, got %v", err)
	}
	if err := c.SelectMode(ModeClassic); err != nil {
		t.Fatalf("select mode: %v", err)
	}
	if c.Phase() != PhaseSelectingDifficulty {
		t.Fatalf("expected difficulty selection, got %s", c.Phase())
	}
	if err := c.SelectMode(ModeNoDraw); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("re-selecting mode must fail, got %v", err)
	}
	if err := c.SelectDifficulty(DifficultyEasy); err != nil {
		t.Fatalf("select difficulty: %v", err)
	}
	if c.Phase() != PhaseAwaitingFirstPlayer {
		t.Fatalf("expected first-player phase, got %s", c.Phase())
	}
	first, err := c.RandomizeFirstPlayer()
	if err != nil {
		t.Fatalf("randomize: %v", err)
	}
	wantPhase := PhasePlayerTurn
	if first == PlayerO {
		wantPhase = PhaseAITurn
	}
	if c.Phase() != wantPhase {
		t.Fatalf("first=%s: expected %s, got %s", first, wantPhase, c.Phase())
	}
}

func TestControllerCoinFlipCoversBothSides(t *testing.T) {
	seenX, seenO := false, false
	for seed := int64(0); seed < 64 && !(seenX && seenO); seed++ {
		c := NewGameControllerWithSeed(seed)
		first, err := c.StartGame(ModeClassic, DifficultyEasy)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if first == PlayerX {
			seenX = true
		} else {
			seenO = true
		}
	}
	if !seenX || !seenO {
		t.Fatalf("coin flip never chose both sides: x=%v o=%v", seenX, seenO)
	}
}

func TestControllerRejectsMoveOutOfPhase(t *testing.T) {
	c := NewGameControllerWithSeed(1)
	if _, err := c.PlayerMove(4); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("move before start must fail, got %v", err)
	}
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyEasy, PlayerO); err != nil {
		t.Fatalf("start: %v", err)
	}
	// O is the AI seat and moves first; a human move now is out of turn.
	if _, err := c.PlayerMove(4); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("human move during AI turn must fail, got %v", err)
	}
	if c.Phase() != PhaseAITurn {
		t.Fatalf("rejected move must not change phase, got %s", c.Phase())
	}
}

func TestControllerInvalidMoveLeavesBoardUntouched(t *testing.T) {
	c := NewGameControllerWithSeed(1)
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyEasy, PlayerX); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.PlayerMove(4); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, _, err := c.RequestAIMove(); err != nil {
		t.Fatalf("ai move: %v", err)
	}
	before := c.State()
	if _, err := c.PlayerMove(4); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("occupied cell must be invalid, got %v", err)
	}
	after := c.State()
	if before.Board != after.Board || before.ToMove != after.ToMove {
		t.Fatalf("failed move must leave the state untouched")
	}
	if c.Phase() != PhasePlayerTurn {
		t.Fatalf("phase must remain player_turn, got %s", c.Phase())
	}
}

func playRoundToEnd(t *testing.T, c *GameController) GameStatus {
	t.Helper()
	for i := 0; i < 100; i++ {
		switch c.Phase() {
		case PhaseAITurn:
			if _, status, err := c.RequestAIMove(); err != nil {
				t.Fatalf("ai move: %v", err)
			} else if status != StatusRunning {
				return status
			}
		case PhasePlayerTurn:
			state := c.State()
			moves := NewRules(c.Settings().Mode).LegalMoves(state)
			if len(moves) == 0 {
				t.Fatalf("no legal moves during player turn")
			}
			if status, err := c.PlayerMove(moves[0].Pos); err != nil {
				t.Fatalf("player move: %v", err)
			} else if status != StatusRunning {
				return status
			}
		case PhaseRoundOver:
			return c.State().Status
		default:
			t.Fatalf("unexpected phase %s", c.Phase())
		}
	}
	t.Fatalf("round did not finish")
	return StatusNotStarted
}

func TestControllerScoresAccumulateAcrossRounds(t *testing.T) {
	c := NewGameControllerWithSeed(3)
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyEasy, PlayerX); err != nil {
		t.Fatalf("start: %v", err)
	}

	total := 0
	for round := 0; round < 5; round++ {
		playRoundToEnd(t, c)
		total++
		scores := c.Scores()
		if scores.Wins+scores.Losses+scores.Draws != total {
			t.Fatalf("after %d rounds scores sum to %d", total, scores.Wins+scores.Losses+scores.Draws)
		}
		if c.Phase() != PhaseRoundOver {
			t.Fatalf("expected round_over, got %s", c.Phase())
		}
		if round < 4 {
			if _, err := c.Restart(); err != nil {
				t.Fatalf("restart: %v", err)
			}
		}
	}

	c.ResetScores()
	if s := c.Scores(); s.Wins != 0 || s.Losses != 0 || s.Draws != 0 {
		t.Fatalf("scores must reset to zero, got %+v", s)
	}
}

func TestControllerRestartOnlyAfterRoundOver(t *testing.T) {
	c := NewGameControllerWithSeed(1)
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyEasy, PlayerX); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.Restart(); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("restart mid-round must fail, got %v", err)
	}
}

func TestControllerReturnToMenuKeepsScores(t *testing.T) {
	c := NewGameControllerWithSeed(5)
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyEasy, PlayerX); err != nil {
		t.Fatalf("start: %v", err)
	}
	playRoundToEnd(t, c)
	before := c.Scores()

	c.ReturnToMenu()
	if c.Phase() != PhaseSelectingMode {
		t.Fatalf("expected mode selection, got %s", c.Phase())
	}
	if c.Scores() != before {
		t.Fatalf("returning to menu must keep scores")
	}

	// A fresh flow with a different mode works from here.
	if err := c.StartGameWithFirstPlayer(ModeNoDraw, DifficultyMedium, PlayerO); err != nil {
		t.Fatalf("restart flow: %v", err)
	}
	if c.Settings().Mode != ModeNoDraw {
		t.Fatalf("expected no_draw mode, got %s", c.Settings().Mode)
	}
}

func TestControllerAIvsAIRunsToCompletion(t *testing.T) {
	c := NewGameControllerWithSeed(9)
	if err := c.SetSeats(PlayerAI, PlayerAI); err != nil {
		t.Fatalf("seats: %v", err)
	}
	if err := c.StartGameWithFirstPlayer(ModeClassic, DifficultyMedium, PlayerX); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 20 && c.Phase() == PhaseAITurn; i++ {
		if _, _, err := c.RequestAIMove(); err != nil {
			t.Fatalf("ai move: %v", err)
		}
	}
	if c.Phase() != PhaseRoundOver {
		t.Fatalf("ai-vs-ai classic round must finish, got %s", c.Phase())
	}
}
