package main

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager maps session IDs to controllers.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*GameController
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*GameController)}
}

func (m *SessionManager) Create() (string, *GameController) {
	id := uuid.NewString()
	controller := NewGameController()
	m.mu.Lock()
	m.sessions[id] = controller
	m.mu.Unlock()
	return id, controller
}

func (m *SessionManager) Get(id string) (*GameController, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	controller, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return controller, nil
}

func (m *SessionManager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
