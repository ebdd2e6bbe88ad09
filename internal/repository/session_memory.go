package repository

import (
	"fmt"
	"sync"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// Transcript window: once the transcript exceeds maxTranscriptLen
	// entries it is cut to the leading system turns plus the most recent
	// recentTurnsKept entries. Dropped turns are gone for good.
	maxTranscriptLen = 10
	systemTurnsKept  = 2
	recentTurnsKept  = 6
)

// sessionEntry serializes all mutations of one session so rapid
// double-submits for the same id cannot interleave, while unrelated sessions
// proceed independently.
type sessionEntry struct {
	mu           sync.Mutex
	session      *entity.Session
	queryCounter int
}

// SessionMemory is the process-wide session store. Sessions are created
// lazily, cleared only by reset, and live until process exit; loss across
// restarts is accepted.
type SessionMemory struct {
	sessions *cache.Cache
	logger   *zap.Logger
}

func NewSessionMemory(logger *zap.Logger) *SessionMemory {
	return &SessionMemory{
		sessions: cache.New(cache.NoExpiration, 0),
		logger:   logger,
	}
}

// GetOrCreate returns the session for the id, creating it when absent. On
// creation or reset the transcript is seeded with the given system turns and
// the query log is cleared.
func (s *SessionMemory) GetOrCreate(sessionID string, reset bool, systemTurns []entity.ChatMessage) *entity.Session {
	entry := s.entry(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil || reset {
		if reset && entry.session != nil {
			s.logger.Info("session reset", zap.String("session_id", sessionID))
		}
		entry.session = &entity.Session{
			ID:         sessionID,
			Transcript: append([]entity.ChatMessage(nil), systemTurns...),
			QueryLog:   make(map[string]*entity.QueryDescriptor),
		}
		entry.queryCounter = 0
	}

	return s.snapshotLocked(entry)
}

// AppendTurn appends one conversation turn and trims the transcript when it
// grows past the window: the leading system turns stay, older
// mid-conversation turns are discarded.
func (s *SessionMemory) AppendTurn(sessionID string, role entity.ChatRole, content string) error {
	entry := s.entry(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		return entity.ErrSessionNotFound
	}

	sess := entry.session
	sess.Transcript = append(sess.Transcript, entity.ChatMessage{Role: role, Content: content})

	if len(sess.Transcript) > maxTranscriptLen {
		trimmed := make([]entity.ChatMessage, 0, systemTurnsKept+recentTurnsKept)
		trimmed = append(trimmed, sess.Transcript[:systemTurnsKept]...)
		trimmed = append(trimmed, sess.Transcript[len(sess.Transcript)-recentTurnsKept:]...)
		sess.Transcript = trimmed
	}

	return nil
}

// RecordQuery stores a descriptor under a session-scoped monotonically
// increasing key. Keys are never reused, even after transcript trims.
func (s *SessionMemory) RecordQuery(sessionID string, desc *entity.QueryDescriptor) error {
	entry := s.entry(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		return entity.ErrSessionNotFound
	}

	entry.queryCounter++
	key := fmt.Sprintf("query_%d", entry.queryCounter)
	entry.session.QueryKeys = append(entry.session.QueryKeys, key)
	entry.session.QueryLog[key] = desc

	s.logger.Debug("query recorded",
		zap.String("session_id", sessionID),
		zap.String("key", key),
	)
	return nil
}

// TrimmedTranscript returns a copy of the session's conversation window.
func (s *SessionMemory) TrimmedTranscript(sessionID string) ([]entity.ChatMessage, error) {
	entry := s.entry(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		return nil, entity.ErrSessionNotFound
	}
	return append([]entity.ChatMessage(nil), entry.session.Transcript...), nil
}

// QueryHistory returns the session's descriptors in recording order.
func (s *SessionMemory) QueryHistory(sessionID string) []*entity.QueryDescriptor {
	entry := s.entry(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		return nil
	}
	out := make([]*entity.QueryDescriptor, 0, len(entry.session.QueryKeys))
	for _, key := range entry.session.QueryKeys {
		out = append(out, entry.session.QueryLog[key])
	}
	return out
}

// entry fetches or atomically creates the serialization entry for an id.
func (s *SessionMemory) entry(sessionID string) *sessionEntry {
	if v, ok := s.sessions.Get(sessionID); ok {
		return v.(*sessionEntry)
	}
	fresh := &sessionEntry{}
	if err := s.sessions.Add(sessionID, fresh, cache.NoExpiration); err != nil {
		// Lost the creation race; the stored entry wins.
		v, _ := s.sessions.Get(sessionID)
		return v.(*sessionEntry)
	}
	return fresh
}

func (s *SessionMemory) snapshotLocked(entry *sessionEntry) *entity.Session {
	sess := entry.session
	out := &entity.Session{
		ID:         sess.ID,
		Transcript: append([]entity.ChatMessage(nil), sess.Transcript...),
		QueryKeys:  append([]string(nil), sess.QueryKeys...),
		QueryLog:   make(map[string]*entity.QueryDescriptor, len(sess.QueryLog)),
	}
	for k, v := range sess.QueryLog {
		out.QueryLog[k] = v
	}
	return out
}
