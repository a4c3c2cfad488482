package main

import (
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/sheet_analyzer/explorer"
)

// session is the sheet a chat is currently exploring.
type session struct {
	token    string
	explorer *explorer.Explorer
}

// sessions maps chats to their sheets and upload links to chats.
type sessions struct {
	mu      sync.Mutex
	byChat  map[int64]*session
	byToken map[string]int64
	uploads map[string]pendingUpload
}

type pendingUpload struct {
	chatID  int64
	created time.Time
}

func newSessions() *sessions {
	return &sessions{
		byChat:  map[int64]*session{},
		byToken: map[string]int64{},
		uploads: map[string]pendingUpload{},
	}
}

// set starts a new session for chatID, replacing the previous one.
func (s *sessions) set(chatID int64, e *explorer.Explorer) *session {
	sess := &session{token: uuid.NewV4().String(), explorer: e}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byChat[chatID]; ok {
		delete(s.byToken, old.token)
	}
	s.byChat[chatID] = sess
	s.byToken[sess.token] = chatID
	return sess
}

func (s *sessions) get(chatID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byChat[chatID]
	return sess, ok
}

func (s *sessions) byShareToken(token string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chatID, ok := s.byToken[token]
	if !ok {
		return nil, false
	}
	sess, ok := s.byChat[chatID]
	return sess, ok
}

// newUpload returns the id of a web upload link for chatID.
func (s *sessions) newUpload(chatID int64) string {
	id := uuid.NewV4().String()
	s.mu.Lock()
	s.uploads[id] = pendingUpload{chatID: chatID, created: time.Now()}
	s.mu.Unlock()
	return id
}

func (s *sessions) uploadChat(id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[id]
	return u.chatID, ok
}

// expireUploads forgets upload links created before deadline.
func (s *sessions) expireUploads(deadline time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, u := range s.uploads {
		if u.created.Before(deadline) {
			delete(s.uploads, id)
			n++
		}
	}
	return n
}
