package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	SessionID       string            `json:"session_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Phase           string            `json:"phase"`
	Board           []int             `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	WinningLine     []int             `json:"winning_line"`
	Scores          Scores            `json:"scores"`
	History         []historyEntryDTO `json:"history"`
	OldestX         int               `json:"oldest_x"`
	OldestO         int               `json:"oldest_o"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Seats      string `json:"seats"`
}

type apiMove struct {
	Pos int `json:"pos"`
}

type historyEntryDTO struct {
	Pos       int   `json:"pos"`
	Row       int   `json:"row"`
	Col       int   `json:"col"`
	Player    int   `json:"player"`
	Evicted   int   `json:"evicted"`
	IsAi      bool  `json:"is_ai"`
	ElapsedMs int64 `json:"elapsed_ms"`
	Depth     int   `json:"depth"`
}

type createSessionRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Seats      string `json:"seats"`
	First      string `json:"first,omitempty"`
}

func main() {
	mgr := NewSessionManager()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())

	server := &http.Server{
		Addr:    ":8080",
		Handler: newRouter(mgr, hub),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func newRouter(mgr *SessionManager, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Post("/api/config", func(w http.ResponseWriter, r *http.Request) {
		var config Config
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		configStore.Update(config)
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Post("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		var payload createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		mode, ok := parseMode(payload.Mode)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid mode"})
			return
		}
		difficulty, ok := parseDifficulty(payload.Difficulty)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid difficulty"})
			return
		}
		xType, oType, ok := parseSeats(payload.Seats)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid seats"})
			return
		}

		id, controller := mgr.Create()
		if err := controller.SetSeats(xType, oType); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		var err error
		switch payload.First {
		case "x":
			err = controller.StartGameWithFirstPlayer(mode, difficulty, PlayerX)
		case "o":
			err = controller.StartGameWithFirstPlayer(mode, difficulty, PlayerO)
		default:
			_, err = controller.StartGame(mode, difficulty)
		}
		if err != nil {
			_ = mgr.Remove(id)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, controllerStatus(id, controller))
	})

	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			id, controller, ok := lookupSession(mgr, w, r)
			if !ok {
				return
			}
			writeJSON(w, http.StatusOK, controllerStatus(id, controller))
		})

		r.Post("/move", func(w http.ResponseWriter, r *http.Request) {
			id, controller, ok := lookupSession(mgr, w, r)
			if !ok {
				return
			}
			var payload apiMove
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
				return
			}
			if _, err := controller.PlayerMove(payload.Pos); err != nil {
				writeJSON(w, moveErrorStatus(err), map[string]string{"error": err.Error()})
				return
			}
			status := controllerStatus(id, controller)
			hub.BroadcastStatus(status)
			writeJSON(w, http.StatusOK, status)
		})

		r.Post("/ai-move", func(w http.ResponseWriter, r *http.Request) {
			id, controller, ok := lookupSession(mgr, w, r)
			if !ok {
				return
			}
			if _, _, err := controller.RequestAIMove(); err != nil {
				writeJSON(w, moveErrorStatus(err), map[string]string{"error": err.Error()})
				return
			}
			status := controllerStatus(id, controller)
			hub.BroadcastStatus(status)
			writeJSON(w, http.StatusOK, status)
		})

		r.Post("/restart", func(w http.ResponseWriter, r *http.Request) {
			id, controller, ok := lookupSession(mgr, w, r)
			if !ok {
				return
			}
			if _, err := controller.Restart(); err != nil {
				writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
			status := controllerStatus(id, controller)
			hub.BroadcastStatus(status)
			writeJSON(w, http.StatusOK, status)
		})

		r.Post("/scores/reset", func(w http.ResponseWriter, r *http.Request) {
			id, controller, ok := lookupSession(mgr, w, r)
			if !ok {
				return
			}
			controller.ResetScores()
			hub.BroadcastScores(id, controller.Scores())
			writeJSON(w, http.StatusOK, controllerStatus(id, controller))
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if err := mgr.Remove(id); err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		})
	})

	r.Get("/ws/{id}", func(w http.ResponseWriter, r *http.Request) {
		serveWS(mgr, hub, w, r)
	})

	return r
}

func lookupSession(mgr *SessionManager, w http.ResponseWriter, r *http.Request) (string, *GameController, bool) {
	id := chi.URLParam(r, "id")
	controller, err := mgr.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return "", nil, false
	}
	return id, controller, true
}

func moveErrorStatus(err error) int {
	if errors.Is(err, ErrOutOfTurn) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func serveWS(mgr *SessionManager, hub *Hub, w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	controller, err := mgr.Get(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, sessionID: id, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(id, controller))})

	go func() {
		defer conn.Close()
		if err := client.writeLoop(conn); err != nil {
			log.Printf("[backend] ws write for session %s: %v", id, err)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(id, controller))})
		}
	}
}

func controllerStatus(id string, controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		SessionID:       id,
		Settings:        settingsToDTO(controller.Settings()),
		Phase:           controller.Phase().String(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          state.Status.String(),
		WinningLine:     append([]int(nil), state.WinningLine...),
		Scores:          controller.Scores(),
		History:         historyToDTO(controller.History()),
		OldestX:         oldestOrMinusOne(state, PlayerX),
		OldestO:         oldestOrMinusOne(state, PlayerO),
		TurnStartedAtMs: controller.TurnStart().UnixMilli(),
	}
}

func oldestOrMinusOne(state GameState, player PlayerMark) int {
	queue := state.QueueFor(player)
	if !queue.Full() {
		return -1
	}
	oldest, ok := queue.Oldest()
	if !ok {
		return -1
	}
	return oldest
}

func parseMode(raw string) (GameMode, bool) {
	switch raw {
	case "classic", "":
		return ModeClassic, true
	case "no_draw":
		return ModeNoDraw, true
	}
	return ModeClassic, false
}

func parseDifficulty(raw string) (Difficulty, bool) {
	switch raw {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard", "":
		return DifficultyHard, true
	}
	return DifficultyHard, false
}

func parseSeats(raw string) (xType, oType PlayerType, ok bool) {
	switch raw {
	case "human_vs_ai", "":
		return PlayerHuman, PlayerAI, true
	case "ai_vs_human":
		return PlayerAI, PlayerHuman, true
	case "human_vs_human":
		return PlayerHuman, PlayerHuman, true
	case "ai_vs_ai":
		return PlayerAI, PlayerAI, true
	}
	return PlayerHuman, PlayerAI, false
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	seats := "human_vs_ai"
	switch {
	case settings.XType == PlayerAI && settings.OType == PlayerAI:
		seats = "ai_vs_ai"
	case settings.XType == PlayerHuman && settings.OType == PlayerHuman:
		seats = "human_vs_human"
	case settings.XType == PlayerAI:
		seats = "ai_vs_human"
	}
	return GameSettingsDTO{
		Mode:       settings.Mode.String(),
		Difficulty: settings.Difficulty.String(),
		Seats:      seats,
	}
}

func boardToSlice(board Board) []int {
	cells := make([]int, BoardCells)
	for pos := 0; pos < BoardCells; pos++ {
		cells[pos] = cellToInt(board.At(pos))
	}
	return cells
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellX:
		return 1
	case CellO:
		return 2
	default:
		return 0
	}
}

func playerToInt(player PlayerMark) int {
	if player == PlayerX {
		return 1
	}
	return 2
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusXWon:
		return 1
	case StatusOWon:
		return 2
	default:
		return 0
	}
}

func historyToDTO(history []HistoryEntry) []historyEntryDTO {
	result := make([]historyEntryDTO, 0, len(history))
	for _, entry := range history {
		evicted := -1
		if entry.HasEvicted {
			evicted = entry.Evicted
		}
		result = append(result, historyEntryDTO{
			Pos:       entry.Move.Pos,
			Row:       entry.Move.Row(),
			Col:       entry.Move.Col(),
			Player:    playerToInt(entry.Player),
			Evicted:   evicted,
			IsAi:      entry.IsAi,
			ElapsedMs: entry.ElapsedMs,
			Depth:     entry.Depth,
		})
	}
	return result
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
