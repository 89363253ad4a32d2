// Package memory is an in-process Store used for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store"
)

// Store keeps users, tasks and sessions in maps guarded by a mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	tasks    []models.Task // insertion order
	sessions map[string]models.Session
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return store.ErrDuplicateEmail
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.Email] = *user
	return nil
}

func (s *Store) FindTasksByOwner(ctx context.Context, ownerEmail string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].OwnerEmail == ownerEmail {
			tasks = append(tasks, s.tasks[i])
		}
	}
	return tasks, nil
}

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *Store) UpdateTaskDone(ctx context.Context, ownerEmail, taskID string, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(ownerEmail, taskID); i >= 0 {
		s.tasks[i].Done = done
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerEmail, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(ownerEmail, taskID); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	return nil
}

// indexOf must be called with mu held.
func (s *Store) indexOf(ownerEmail, taskID string) int {
	for i, t := range s.tasks {
		if t.ID == taskID && t.OwnerEmail == ownerEmail {
			return i
		}
	}
	return -1
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	s.sessions[session.Token] = *session
	return nil
}

func (s *Store) FindSession(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// CountUsers reports how many users are stored
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}
