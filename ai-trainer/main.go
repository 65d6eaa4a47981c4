package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"
)

// arena drives AI-vs-AI matches against the backend API and tallies
// outcomes per mode and difficulty pairing.
type arena struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       *log.Logger
	games        int
	modes        []string
	difficulties []string
	maxPlies     int
}

type statusResponse struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
	Status    string `json:"status"`
	Winner    int    `json:"winner"`
	Scores    struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
		Draws  int `json:"draws"`
	} `json:"scores"`
	History []json.RawMessage `json:"history"`
}

type tally struct {
	XWins int
	OWins int
	Draws int
	Plies int
	Stuck int
}

func main() {
	logger := log.New(os.Stdout, "[arena] ", log.LstdFlags)

	baseURL := getenv("BACKEND_URL", "http://localhost:8080")
	games := getenvInt("ARENA_GAMES", 20)
	if games < 1 {
		games = 1
	}
	pollMs := getenvInt("POLL_INTERVAL_MS", 10)
	modes := splitList(getenv("ARENA_MODES", "classic,no_draw"))
	difficulties := splitList(getenv("ARENA_DIFFICULTIES", "easy,medium,hard"))
	maxPlies := getenvInt("ARENA_MAX_PLIES", 200)

	a := &arena{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      baseURL,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
		logger:       logger,
		games:        games,
		modes:        modes,
		difficulties: difficulties,
		maxPlies:     maxPlies,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.waitForBackend(ctx); err != nil {
		logger.Fatalf("backend not reachable at %s: %v", baseURL, err)
	}

	results := make(map[string]*tally)
	for _, mode := range a.modes {
		for _, difficulty := range a.difficulties {
			key := mode + "/" + difficulty
			t := &tally{}
			results[key] = t
			for i := 0; i < a.games; i++ {
				if ctx.Err() != nil {
					a.printSummary(results)
					return
				}
				if err := a.playGame(ctx, mode, difficulty, t); err != nil {
					logger.Printf("game %d (%s) failed: %v", i+1, key, err)
				}
			}
			logger.Printf("%s: x=%d o=%d draws=%d avg_plies=%.1f",
				key, t.XWins, t.OWins, t.Draws, t.avgPlies())
		}
	}
	a.printSummary(results)
}

func (a *arena) waitForBackend(ctx context.Context) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		var pong map[string]bool
		err := a.getJSON("/api/ping", &pong)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		if !sleepWithContext(ctx, 500*time.Millisecond) {
			return ctx.Err()
		}
	}
}

// playGame runs one AI-vs-AI round to completion, requesting moves one
// at a time so every ply goes through the public API.
func (a *arena) playGame(ctx context.Context, mode, difficulty string, t *tally) error {
	var status statusResponse
	err := a.postJSON("/api/sessions", map[string]any{
		"mode":       mode,
		"difficulty": difficulty,
		"seats":      "ai_vs_ai",
	}, &status)
	if err != nil {
		return err
	}
	sessionID := status.SessionID
	defer a.deleteSession(sessionID)

	plies := 0
	for status.Phase == "ai_turn" {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if plies >= a.maxPlies {
			t.Stuck++
			return nil
		}
		if err := a.postJSON("/api/sessions/"+sessionID+"/ai-move", map[string]any{}, &status); err != nil {
			return err
		}
		plies++
		if a.pollInterval > 0 && !sleepWithContext(ctx, a.pollInterval) {
			return ctx.Err()
		}
	}

	t.Plies += plies
	switch status.Status {
	case "x_won":
		t.XWins++
	case "o_won":
		t.OWins++
	case "draw":
		t.Draws++
	}
	return nil
}

func (a *arena) deleteSession(id string) {
	req, err := http.NewRequest(http.MethodDelete, a.baseURL+"/api/sessions/"+id, nil)
	if err != nil {
		return
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (a *arena) printSummary(results map[string]*tally) {
	out := termenv.NewOutput(os.Stdout)
	fmt.Println()
	fmt.Println(out.String("=== arena results ===").Bold())
	for _, mode := range a.modes {
		for _, difficulty := range a.difficulties {
			key := mode + "/" + difficulty
			t, ok := results[key]
			if !ok {
				continue
			}
			label := out.String(fmt.Sprintf("%-18s", key)).Foreground(termenv.ANSICyan)
			x := out.String(fmt.Sprintf("x=%d", t.XWins)).Foreground(termenv.ANSIGreen)
			o := out.String(fmt.Sprintf("o=%d", t.OWins)).Foreground(termenv.ANSIRed)
			d := out.String(fmt.Sprintf("draws=%d", t.Draws)).Foreground(termenv.ANSIYellow)
			fmt.Printf("%s %s %s %s avg_plies=%.1f", label, x, o, d, t.avgPlies())
			if t.Stuck > 0 {
				fmt.Printf(" %s", out.String(fmt.Sprintf("stuck=%d", t.Stuck)).Foreground(termenv.ANSIMagenta))
			}
			fmt.Println()
		}
	}
}

func (t *tally) avgPlies() float64 {
	finished := t.XWins + t.OWins + t.Draws
	if finished == 0 {
		return 0
	}
	return float64(t.Plies) / float64(finished)
}

func (a *arena) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *arena) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
