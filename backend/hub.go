package main

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu              sync.Mutex
	clients         map[*Client]struct{}
	broadcastStatus chan StatusResponse
	broadcastScores chan scoresPayload
}

type Client struct {
	hub       *Hub
	sessionID string
	send      chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type scoresPayload struct {
	SessionID string `json:"session_id"`
	Scores    Scores `json:"scores"`
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[*Client]struct{}),
		broadcastStatus: make(chan StatusResponse, 32),
		broadcastScores: make(chan scoresPayload, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastStatus:
			h.mu.Lock()
			for client := range h.clients {
				if client.sessionID != payload.SessionID {
					continue
				}
				client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		case payload := <-h.broadcastScores:
			h.mu.Lock()
			for client := range h.clients {
				if client.sessionID != payload.SessionID {
					continue
				}
				client.sendJSON(wsMessage{Type: "scores", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (h *Hub) BroadcastStatus(status StatusResponse) {
	if !h.HasClients() {
		return
	}
	select {
	case h.broadcastStatus <- status:
	default:
	}
}

func (h *Hub) BroadcastScores(sessionID string, scores Scores) {
	if !h.HasClients() {
		return
	}
	select {
	case h.broadcastScores <- scoresPayload{SessionID: sessionID, Scores: scores}:
	default:
	}
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
