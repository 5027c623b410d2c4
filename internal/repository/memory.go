package repository

import (
	"context"
	"slices"
	"sync"

	"wordchain/internal/domain"
)

// Memory is an in-process store for local runs and tests. State is lost when
// the process exits.
type Memory struct {
	mu      sync.RWMutex
	games   map[string]domain.GameState
	history map[string][]domain.HistoryRecord
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		games:   make(map[string]domain.GameState),
		history: make(map[string][]domain.HistoryRecord),
	}
}

func (m *Memory) LoadGame(_ context.Context, userID string) (domain.GameState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[userID]
	if !ok {
		return domain.GameState{}, false, nil
	}
	g.UsedWords = slices.Clone(g.UsedWords)
	return g, true, nil
}

func (m *Memory) SaveGame(_ context.Context, userID string, state domain.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.UsedWords = slices.Clone(state.UsedWords)
	m.games[userID] = state
	return nil
}

func (m *Memory) ClearGame(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, userID)
	return nil
}

func (m *Memory) GetHistory(_ context.Context, userID string) ([]domain.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneHistory(m.history[userID]), nil
}

func (m *Memory) AppendHistory(_ context.Context, userID string, record domain.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.Words = slices.Clone(record.Words)
	m.history[userID], _ = prependHistory(m.history[userID], record)
	return nil
}

func (m *Memory) DeleteHistory(_ context.Context, userID string, index int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.history[userID]
	if index < 0 || index >= len(records) {
		return false, nil
	}
	m.history[userID] = slices.Delete(slices.Clone(records), index, index+1)
	return true, nil
}

// cloneHistory copies records, Words included. The result is never nil.
func cloneHistory(records []domain.HistoryRecord) []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, 0, len(records))
	for _, r := range records {
		r.Words = slices.Clone(r.Words)
		out = append(out, r)
	}
	return out
}
