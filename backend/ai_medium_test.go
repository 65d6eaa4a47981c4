package main

import "testing"

func TestMediumAITakesImmediateWin(t *testing.T) {
	state, rules := newRunningState(ModeClassic)
	mustApply(t, rules, &state, 0, PlayerX)
	mustApply(t, rules, &state, 3, PlayerO)
	mustApply(t, rules, &state, 1, PlayerX)
	mustApply(t, rules, &state, 4, PlayerO)
	// X to move; cell 2 completes the top row.
	ai := NewMediumAIWithSeed(1)
	move, err := ai.ChooseMove(state, rules)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move.Pos != 2 {
		t.Fatalf("expected winning move 2, got %d", move.Pos)
	}
}

func TestMediumAIPrefersWinOverBlock(t *testing.T) {
	state, rules := newRunningState(ModeClassic)
	// X threatens 0-1-2 at cell 2; O threatens 3-4-5 at cell 5.
	state.Board.Set(0, CellX)
	state.Board.Set(1, CellX)
	state.Board.Set(3, CellO)
	state.Board.Set(4, CellO)
	state.ToMove = PlayerX

	ai := NewMediumAIWithSeed(1)
	move, err := ai.ChooseMove(state, rules)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move.Pos != 2 {
		t.Fatalf("expected win at 2 over block at 5, got %d", move.Pos)
	}
}

func TestMediumAIBlocksOpponentWin(t *testing.T) {
	state, rules := newRunningState(ModeClassic)
	state.Board.Set(0, CellO)
	state.Board.Set(4, CellO)
	state.Board.Set(2, CellX)
	state.ToMove = PlayerX
	// O threatens 0-4-8; X must take cell 8.
	ai := NewMediumAIWithSeed(1)
	for i := 0; i < 50; i++ {
		move, err := ai.ChooseMove(state, rules)
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		if move.Pos != 8 {
			t.Fatalf("expected block at 8, got %d", move.Pos)
		}
	}
}

func TestMediumAIBlockTieBreaksByScanOrder(t *testing.T) {
	state, rules := newRunningState(ModeClassic)
	// O threatens at cells 2, 5, 6 and 7; X has no win of its own. The
	// block lands on the lowest-numbered winning cell.
	state.Board.Set(0, CellO)
	state.Board.Set(1, CellO)
	state.Board.Set(3, CellO)
	state.Board.Set(4, CellO)
	state.Board.Set(8, CellX)
	state.ToMove = PlayerX

	ai := NewMediumAIWithSeed(1)
	move, err := ai.ChooseMove(state, rules)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move.Pos != 2 {
		t.Fatalf("expected first block in scan order at 2, got %d", move.Pos)
	}
}

func TestMediumAIRespectsNoDrawEviction(t *testing.T) {
	state, rules := newRunningState(ModeNoDraw)
	// X: 0,1,3 in queue order 0,1,3. Placing at 2 evicts cell 0, so
	// 0-1-2 does not complete and medium must not treat it as a win.
	mustApply(t, rules, &state, 0, PlayerX)
	mustApply(t, rules, &state, 5, PlayerO)
	mustApply(t, rules, &state, 1, PlayerX)
	mustApply(t, rules, &state, 6, PlayerO)
	mustApply(t, rules, &state, 3, PlayerX)
	mustApply(t, rules, &state, 7, PlayerO)

	if _, ok := findWinningMove(state, rules, PlayerX); ok {
		t.Fatalf("no immediate win exists for X once eviction is accounted for")
	}
	// O's queue is 5,6,7: playing 8 evicts 5 and still completes
	// 6-7-8, so X must block cell 8.
	ai := NewMediumAIWithSeed(1)
	move, err := ai.ChooseMove(state, rules)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if move.Pos != 8 {
		t.Fatalf("expected block at 8, got %d", move.Pos)
	}
}
