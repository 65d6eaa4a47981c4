package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mgr := NewSessionManager()
	hub := NewHub()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go hub.Run(done)
	server := httptest.NewServer(newRouter(mgr, hub))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, payload any, out any) int {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestAPIPing(t *testing.T) {
	server := newTestServer(t)
	var pong map[string]bool
	if code := doJSON(t, http.MethodGet, server.URL+"/api/ping", nil, &pong); code != http.StatusOK {
		t.Fatalf("ping returned %d", code)
	}
	if !pong["ok"] {
		t.Fatalf("expected ok=true")
	}
}

func TestAPISessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	var status StatusResponse
	code := doJSON(t, http.MethodPost, server.URL+"/api/sessions", createSessionRequest{
		Mode:       "classic",
		Difficulty: "easy",
		Seats:      "human_vs_ai",
		First:      "x",
	}, &status)
	if code != http.StatusCreated {
		t.Fatalf("create returned %d", code)
	}
	if status.SessionID == "" {
		t.Fatalf("missing session id")
	}
	if status.Phase != "player_turn" {
		t.Fatalf("X starts as human, expected player_turn, got %s", status.Phase)
	}
	if len(status.Board) != BoardCells {
		t.Fatalf("board must have %d cells, got %d", BoardCells, len(status.Board))
	}

	base := server.URL + "/api/sessions/" + status.SessionID
	if code := doJSON(t, http.MethodGet, base+"/status", nil, &status); code != http.StatusOK {
		t.Fatalf("status returned %d", code)
	}

	if code := doJSON(t, http.MethodPost, base+"/move", apiMove{Pos: 4}, &status); code != http.StatusOK {
		t.Fatalf("move returned %d", code)
	}
	if status.Board[4] != 1 {
		t.Fatalf("expected X at center, board=%v", status.Board)
	}
	if status.Phase != "ai_turn" {
		t.Fatalf("expected ai_turn after human move, got %s", status.Phase)
	}

	if code := doJSON(t, http.MethodPost, base+"/ai-move", nil, &status); code != http.StatusOK {
		t.Fatalf("ai-move returned %d", code)
	}
	if status.Phase != "player_turn" {
		t.Fatalf("expected player_turn after AI move, got %s", status.Phase)
	}
	if len(status.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(status.History))
	}
	if !status.History[1].IsAi {
		t.Fatalf("second move must be flagged as AI")
	}

	if code := doJSON(t, http.MethodDelete, base, nil, nil); code != http.StatusOK {
		t.Fatalf("delete returned %d", code)
	}
	if code := doJSON(t, http.MethodGet, base+"/status", nil, nil); code != http.StatusNotFound {
		t.Fatalf("status after delete returned %d", code)
	}
}

func TestAPIMoveValidation(t *testing.T) {
	server := newTestServer(t)

	var status StatusResponse
	doJSON(t, http.MethodPost, server.URL+"/api/sessions", createSessionRequest{
		Mode: "classic", Difficulty: "easy", Seats: "human_vs_ai", First: "x",
	}, &status)
	base := server.URL + "/api/sessions/" + status.SessionID

	var fail map[string]string
	if code := doJSON(t, http.MethodPost, base+"/move", apiMove{Pos: 9}, &fail); code != http.StatusBadRequest {
		t.Fatalf("out-of-bounds move returned %d", code)
	}
	doJSON(t, http.MethodPost, base+"/move", apiMove{Pos: 4}, nil)
	if code := doJSON(t, http.MethodPost, base+"/move", apiMove{Pos: 0}, &fail); code != http.StatusConflict {
		t.Fatalf("move during AI turn returned %d", code)
	}
	if code := doJSON(t, http.MethodPost, base+"/restart", nil, &fail); code != http.StatusConflict {
		t.Fatalf("restart mid-round returned %d", code)
	}
}

func TestAPIRejectsBadSessionSettings(t *testing.T) {
	server := newTestServer(t)
	var fail map[string]string
	if code := doJSON(t, http.MethodPost, server.URL+"/api/sessions", createSessionRequest{
		Mode: "bogus",
	}, &fail); code != http.StatusBadRequest {
		t.Fatalf("bogus mode returned %d", code)
	}
	if code := doJSON(t, http.MethodPost, server.URL+"/api/sessions", createSessionRequest{
		Mode: "classic", Difficulty: "impossible",
	}, &fail); code != http.StatusBadRequest {
		t.Fatalf("bogus difficulty returned %d", code)
	}
}

func TestAPIUnknownSession(t *testing.T) {
	server := newTestServer(t)
	var fail map[string]string
	if code := doJSON(t, http.MethodGet, server.URL+"/api/sessions/nope/status", nil, &fail); code != http.StatusNotFound {
		t.Fatalf("unknown session returned %d", code)
	}
}

func TestAPIAIvsAISessionFinishes(t *testing.T) {
	server := newTestServer(t)

	var status StatusResponse
	code := doJSON(t, http.MethodPost, server.URL+"/api/sessions", createSessionRequest{
		Mode: "classic", Difficulty: "medium", Seats: "ai_vs_ai", First: "x",
	}, &status)
	if code != http.StatusCreated {
		t.Fatalf("create returned %d", code)
	}
	base := server.URL + "/api/sessions/" + status.SessionID

	for i := 0; i < 12 && status.Phase == "ai_turn"; i++ {
		if code := doJSON(t, http.MethodPost, base+"/ai-move", nil, &status); code != http.StatusOK {
			t.Fatalf("ai-move %d returned %d", i, code)
		}
	}
	if status.Phase != "round_over" {
		t.Fatalf("expected round_over, got %s", status.Phase)
	}
	sum := status.Scores.Wins + status.Scores.Losses + status.Scores.Draws
	if sum != 1 {
		t.Fatalf("one finished round must be scored once, got %+v", status.Scores)
	}

	if code := doJSON(t, http.MethodPost, base+"/restart", nil, &status); code != http.StatusOK {
		t.Fatalf("restart returned %d", code)
	}
	if status.Phase != "ai_turn" {
		t.Fatalf("ai-vs-ai restart must enter ai_turn, got %s", status.Phase)
	}

	if code := doJSON(t, http.MethodPost, base+"/scores/reset", nil, &status); code != http.StatusOK {
		t.Fatalf("scores reset returned %d", code)
	}
	if status.Scores.Wins+status.Scores.Losses+status.Scores.Draws != 0 {
		t.Fatalf("scores must be cleared, got %+v", status.Scores)
	}
}

func TestAPIConfigRoundtrip(t *testing.T) {
	server := newTestServer(t)
	prev := GetConfig()
	defer configStore.Update(prev)

	var config Config
	if code := doJSON(t, http.MethodGet, server.URL+"/api/config", nil, &config); code != http.StatusOK {
		t.Fatalf("get config returned %d", code)
	}
	config.AiMaxDepth = 3
	if code := doJSON(t, http.MethodPost, server.URL+"/api/config", config, &config); code != http.StatusOK {
		t.Fatalf("post config returned %d", code)
	}
	if config.AiMaxDepth != 3 {
		t.Fatalf("config update not applied, got %+v", config)
	}
	if GetConfig().AiMaxDepth != 3 {
		t.Fatalf("config store not updated")
	}
}

func TestHistoryDTOCarriesRowAndCol(t *testing.T) {
	entries := []HistoryEntry{
		{Move: NewMove(5), Player: PlayerX},
		{Move: NewMove(6), Player: PlayerO},
	}
	dto := historyToDTO(entries)
	if dto[0].Row != 1 || dto[0].Col != 2 {
		t.Fatalf("pos 5 mapped to row %d col %d", dto[0].Row, dto[0].Col)
	}
	if dto[1].Row != 2 || dto[1].Col != 0 {
		t.Fatalf("pos 6 mapped to row %d col %d", dto[1].Row, dto[1].Col)
	}
}
