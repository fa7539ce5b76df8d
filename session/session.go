// Package session keeps per-browser working state: the uploaded pallet
// table, the committed pallet IDs and the order cache. Sessions live in
// memory and mirror their table to SQLite so a page reload can pick up
// where it left off.
package session

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sprintbox/database"
	"sprintbox/model"
)

// Session is the working state of one client. All access goes through
// the methods, which hold the session lock.
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastAccess time.Time

	mu sync.Mutex

	table       *model.PalletTable
	removedPIDs map[string]bool

	orderFilesKey string
	orderLines    map[string][]model.OrderLine
	orderErrors   []model.OrderParseError
	manualLines   []model.OrderLine
}

// persistedState is the gob payload stored in SQLite. Everything else is
// rebuilt from it on restore.
type persistedState struct {
	Table       *model.PalletTable
	RemovedPIDs []string
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		CreatedAt:   now,
		LastAccess:  now,
		removedPIDs: make(map[string]bool),
		orderLines:  make(map[string][]model.OrderLine),
	}
}

// Table returns the loaded pallet table, or nil when nothing was
// uploaded yet.
func (s *Session) Table() *model.PalletTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// SetTable installs a freshly parsed table. When its signature differs
// from the current one the removal state is reset, so a new upload of a
// different file never inherits committed pallets.
func (s *Session) SetTable(table *model.PalletTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sameShape := s.table != nil && table != nil && s.table.Signature == table.Signature
	s.table = table
	if !sameShape {
		s.removedPIDs = make(map[string]bool)
	}
}

// CommitRemoval records the given pallet IDs as removed. Returns how many
// were not already committed.
func (s *Session) CommitRemoval(pids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, id := range pids {
		if id == "" || s.removedPIDs[id] {
			continue
		}
		s.removedPIDs[id] = true
		added++
	}
	return added
}

// RemovedPIDs returns the committed pallet IDs, sorted for stable output.
func (s *Session) RemovedPIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.removedPIDs))
	for id := range s.removedPIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ResetRemoval clears the committed set, restoring the full working stock.
func (s *Session) ResetRemoval() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedPIDs = make(map[string]bool)
}

// SetOrders replaces the cached order lines for an uploaded file set.
// filesKey identifies the set; a different key clears stale entries.
func (s *Session) SetOrders(filesKey string, byFile map[string][]model.OrderLine, errs []model.OrderParseError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderFilesKey = filesKey
	s.orderLines = byFile
	s.orderErrors = errs
}

// Orders returns the cached per-file order lines, parse errors and the
// manual additions.
func (s *Session) Orders() (map[string][]model.OrderLine, []model.OrderParseError, []model.OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byFile := make(map[string][]model.OrderLine, len(s.orderLines))
	for k, v := range s.orderLines {
		byFile[k] = v
	}
	errs := append([]model.OrderParseError(nil), s.orderErrors...)
	manual := append([]model.OrderLine(nil), s.manualLines...)
	return byFile, errs, manual
}

// OrdersKey returns the identifier of the cached upload set.
func (s *Session) OrdersKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderFilesKey
}

// AddManualOrder appends a hand-entered order line.
func (s *Session) AddManualOrder(line model.OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line.SourceFile = "manual"
	s.manualLines = append(s.manualLines, line)
}

// ClearManualOrders drops all hand-entered lines.
func (s *Session) ClearManualOrders() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualLines = nil
}

// ClearOrders drops the whole order cache, manual lines included.
func (s *Session) ClearOrders() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderFilesKey = ""
	s.orderLines = make(map[string][]model.OrderLine)
	s.orderErrors = nil
	s.manualLines = nil
}

func (s *Session) encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, nil
	}
	state := persistedState{Table: s.table, RemovedPIDs: make([]string, 0, len(s.removedPIDs))}
	for id := range s.removedPIDs {
		state.RemovedPIDs = append(state.RemovedPIDs, id)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	return buf.Bytes(), nil
}

func (s *Session) restore(payload []byte) error {
	var state persistedState
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&state); err != nil {
		return fmt.Errorf("failed to decode session %s: %w", s.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = state.Table
	s.removedPIDs = make(map[string]bool, len(state.RemovedPIDs))
	for _, id := range state.RemovedPIDs {
		s.removedPIDs[id] = true
	}
	return nil
}

// Manager owns all live sessions and their SQLite mirror.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	db       *sqlx.DB
}

func NewManager(db *sqlx.DB) *Manager {
	return &Manager{sessions: make(map[string]*Session), db: db}
}

// NewID mints a session identifier for a client that has none.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, restoring it from SQLite when the
// process restarted, or creating an empty one.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.mu.Lock()
		s.LastAccess = time.Now()
		s.mu.Unlock()
		return s
	}

	s := newSession(id)
	if m.db != nil {
		payload, err := database.LoadSessionSnapshot(m.db, id)
		if err != nil {
			log.Printf("WARN: session %s snapshot load failed: %v", id, err)
		} else if payload != nil {
			if err := s.restore(payload); err != nil {
				log.Printf("WARN: session %s snapshot unreadable, starting empty: %v", id, err)
			}
		}
	}
	m.sessions[id] = s
	return s
}

// Persist writes the session's table snapshot to SQLite.
func (m *Manager) Persist(s *Session) {
	if m.db == nil {
		return
	}
	payload, err := s.encode()
	if err != nil {
		log.Printf("WARN: %v", err)
		return
	}
	if payload == nil {
		return
	}
	if err := database.SaveSessionSnapshot(m.db, s.ID, payload); err != nil {
		log.Printf("WARN: %v", err)
	}
}

// Cleanup drops sessions idle for longer than maxAge, in memory and on
// disk. Returns the number of in-memory sessions removed.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.LastAccess.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	m.mu.Unlock()

	if m.db != nil {
		if n, err := database.CleanupSessionSnapshots(m.db, cutoff); err != nil {
			log.Printf("WARN: session snapshot cleanup failed: %v", err)
		} else if n > 0 {
			log.Printf("cleaned up %d stale session snapshots", n)
		}
	}
	return removed
}

// StartCleanupLoop runs Cleanup periodically until the process exits.
func (m *Manager) StartCleanupLoop(maxAge, interval time.Duration) {
	go func() {
		for range time.Tick(interval) {
			if n := m.Cleanup(maxAge); n > 0 {
				log.Printf("cleaned up %d idle sessions", n)
			}
		}
	}()
}
