package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/AnTengye/legalintel/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserRepository stores accounts keyed by normalized email. Implementations
// must be safe for concurrent use.
type UserRepository interface {
	Create(u model.User) error
	Get(email string) (model.User, error)
	// Update applies fn to the stored account atomically. An error from fn
	// aborts the update.
	Update(email string, fn func(u *model.User) error) (model.User, error)
	Delete(email string) error
	List() []model.User
}

// MemoryUserRepository is the in-process UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Email]; ok {
		return ErrUserExists
	}
	r.users[u.Email] = &u
	return nil
}

func (r *MemoryUserRepository) Get(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return *u, nil
}

func (r *MemoryUserRepository) Update(email string, fn func(u *model.User) error) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	next := *u
	if err := fn(&next); err != nil {
		return model.User{}, err
	}
	*u = next
	return next, nil
}

func (r *MemoryUserRepository) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, email)
	return nil
}

// List returns every account ordered by creation time, then email.
func (r *MemoryUserRepository) List() []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Email < out[j].Email
	})
	return out
}

// UserService implements registration and login on top of a UserRepository,
// checking passwords with bcrypt.
type UserService struct {
	repo UserRepository
	cost int
	now  func() time.Time
}

// NewUserService returns a service over an empty in-memory repository. A
// cost outside the bcrypt range selects bcrypt.DefaultCost.
func NewUserService(cost int) *UserService {
	return NewUserServiceWithRepository(NewMemoryUserRepository(), cost)
}

func NewUserServiceWithRepository(repo UserRepository, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{
		repo: repo,
		cost: cost,
		now:  time.Now,
	}
}

// Seed registers the configured accounts, skipping emails that already exist.
func (s *UserService) Seed(seeds []config.User) error {
	for _, u := range seeds {
		_, err := s.Register(u.Email, u.Password, u.FullName, model.Role(u.Role))
		if errors.Is(err, ErrUserExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		slog.Info("seeded user", "email", u.Email, "role", u.Role)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an account. Unknown roles become RoleUser.
func (s *UserService) Register(email, password, fullName string, role model.Role) (model.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("invalid email %q", email)
	}
	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate checks the credentials and stamps LastLogin on success.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (model.User, error) {
	u, err := s.repo.Update(normalizeEmail(email), func(u *model.User) error {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		if !u.IsActive {
			return ErrInactiveUser
		}
		now := s.now()
		u.LastLogin = &now
		return nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, err
}

func (s *UserService) Get(email string) (model.User, error) {
	return s.repo.Get(normalizeEmail(email))
}

// UserUpdate carries the optional profile changes. Nil fields are left alone.
type UserUpdate struct {
	FullName *string
	Role     *model.Role
}

// Update applies upd to the account. Role changes are only honored when
// allowRole is set.
func (s *UserService) Update(email string, upd UserUpdate, allowRole bool) (model.User, error) {
	return s.repo.Update(normalizeEmail(email), func(u *model.User) error {
		if upd.FullName != nil {
			u.FullName = strings.TrimSpace(*upd.FullName)
		}
		if upd.Role != nil && allowRole {
			switch *upd.Role {
			case model.RoleAdmin, model.RoleUser:
				u.Role = *upd.Role
			}
		}
		return nil
	})
}

// SetActive enables or disables login for an account.
func (s *UserService) SetActive(email string, active bool) (model.User, error) {
	return s.repo.Update(normalizeEmail(email), func(u *model.User) error {
		u.IsActive = active
		return nil
	})
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(email, current, next string) error {
	hash, err := HashPassword(next, s.cost)
	if err != nil {
		return err
	}

	_, err = s.repo.Update(normalizeEmail(email), func(u *model.User) error {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
		u.PasswordHash = hash
		return nil
	})
	return err
}

// Delete removes an account.
func (s *UserService) Delete(email string) error {
	return s.repo.Delete(normalizeEmail(email))
}

func (s *UserService) List() []model.User {
	return s.repo.List()
}
