// Package memory is an in-process User Store. It enforces the same unique
// email rule as the PostgreSQL schema and is used for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"signup/internal/domain/entity"
	"signup/internal/domain/repository"
	"signup/internal/errors"
)

// Store holds users keyed by ID with a unique index on email.
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*entity.User
	byEmail     map[string]uuid.UUID
	nextPhoneID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

func (s *Store) exists(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[email]

	return ok
}

func (s *Store) find(email string) (*entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}

	return cloneUser(s.users[id]), true
}

// insert applies a batch of users atomically: either all are stored or none.
func (s *Store) insert(users []*entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := s.byEmail[u.Email]; ok {
			return errors.WithStack(repository.ErrDuplicateEmail)
		}
		if _, ok := seen[u.Email]; ok {
			return errors.WithStack(repository.ErrDuplicateEmail)
		}
		if _, ok := s.users[u.ID]; ok {
			return errors.Errorf("user %s already stored", u.ID)
		}
		seen[u.Email] = struct{}{}
	}

	for _, u := range users {
		for _, p := range u.Phones {
			s.nextPhoneID++
			p.ID = s.nextPhoneID
			p.UserID = u.ID
		}
		s.users[u.ID] = cloneUser(u)
		s.byEmail[u.Email] = u.ID
	}

	return nil
}

// cloneUser copies u so callers never share mutable state with the store.
func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}

	c := *u
	c.Phones = make([]*entity.Phone, 0, len(u.Phones))
	for _, p := range u.Phones {
		phone := *p
		c.Phones = append(c.Phones, &phone)
	}

	return &c
}

// userRepository reads through to the store and writes immediately.
type userRepository struct {
	store *Store
}

// NewUserRepository returns a UserRepository over store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.store.exists(email), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := r.store.find(email)
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	return r.store.insert([]*entity.User{user})
}
