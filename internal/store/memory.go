package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vaughan-dsouza/IdGo/internal/models"
)

// Memory is an in-memory UserStore with the same contract as Postgres,
// including email uniqueness and safe projections. It backs handler tests.
type Memory struct {
	mu     sync.Mutex
	users  map[int64]models.User
	nextID int64
}

var _ UserStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{users: make(map[int64]models.User), nextID: 1}
}

func (s *Memory) emailTaken(email string, excludeID int64) bool {
	for _, u := range s.users {
		if u.Email == email && u.ID != excludeID {
			return true
		}
	}
	return false
}

// safe strips the password hash, matching the Postgres projections.
func safe(u models.User) *models.User {
	u.PasswordHash = ""
	return &u
}

func (s *Memory) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(u.Email, 0) {
		return nil, ErrEmailTaken
	}

	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now()
	s.users[u.ID] = *u

	return u, nil
}

func (s *Memory) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return safe(u), nil
}

func (s *Memory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []models.User{}
	for _, u := range s.users {
		users = append(users, *safe(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (s *Memory) Update(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return nil, ErrEmailTaken
	}

	u.CreatedAt = existing.CreatedAt
	s.users[u.ID] = *u

	return u, nil
}

func (s *Memory) Delete(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.users, id)

	return safe(u), nil
}

func (s *Memory) Metrics(_ context.Context) (*Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &Metrics{}
	for _, u := range s.users {
		m.TotalUsers++
		switch u.Role {
		case models.RoleAdmin:
			m.Admins++
		case models.RoleUser:
			m.Users++
		}
	}
	return m, nil
}
