package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/logintest/accounts-api/internal/core/domain"
	"github.com/logintest/accounts-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

const testCost = bcrypt.MinCost

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	order   []string
	nextID  int
	findErr error // if set, FindByEmail/FindByID return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.AccessList != nil {
		clone.AccessList = append([]string(nil), u.AccessList...)
	}
	if u.Recovery != nil {
		rc := *u.Recovery
		clone.Recovery = &rc
	}
	return &clone
}

func (r *stubUserRepo) byEmail(email string) *domain.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byEmail(user.Email) != nil {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	if u := r.byEmail(email); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Email != nil {
		if other := r.byEmail(*p.Email); other != nil && other.ID != id {
			return nil, domain.ErrUserExists
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.BirthDate != nil {
		u.BirthDate = *p.BirthDate
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.AccessList != nil {
		u.AccessList = append([]string(nil), (*p.AccessList)...)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) SetRecoveryCode(_ context.Context, email string, code domain.RecoveryCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byEmail(email)
	if u == nil {
		return domain.ErrUserNotFound
	}
	rc := code
	u.Recovery = &rc
	return nil
}

func (r *stubUserRepo) CompleteRecovery(_ context.Context, id, code, hash string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Recovery == nil || u.Recovery.Code != code {
		return 0, domain.ErrRecoveryCodeMismatch
	}
	u.PasswordHash = hash
	u.Recovery = nil
	u.CredentialVersion++
	u.UpdatedAt = now
	return u.CredentialVersion, nil
}

// ---------------------------------------------------------------------------
// Mailer and credential cache
// ---------------------------------------------------------------------------

type sentMail struct {
	to   string
	code string
	ttl  time.Duration
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) SendRecoveryCode(_ context.Context, to, code string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, code: code, ttl: ttl})
	return nil
}

func (m *stubMailer) last() sentMail {
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type stubCredCache struct {
	versions map[string]int64
	getErr   error
	setErr   error
	deleted  []string
}

func newStubCredCache() *stubCredCache {
	return &stubCredCache{versions: make(map[string]int64)}
}

func (c *stubCredCache) Get(_ context.Context, userID string) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	v, ok := c.versions[userID]
	return v, ok, nil
}

func (c *stubCredCache) Set(_ context.Context, userID string, version int64) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.versions[userID] = version
	return nil
}

func (c *stubCredCache) Fill(_ context.Context, userID string, version int64) (bool, error) {
	if c.setErr != nil {
		return false, c.setErr
	}
	if _, ok := c.versions[userID]; ok {
		return false, nil
	}
	c.versions[userID] = version
	return true, nil
}

func (c *stubCredCache) Delete(_ context.Context, userID string) error {
	delete(c.versions, userID)
	c.deleted = append(c.deleted, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validRegisterInput(email, password string) ports.RegisterInput {
	return ports.RegisterInput{
		Name:         "Ana Souza",
		Email:        email,
		Phone:        "11999990000",
		BirthDate:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Role:         "analyst",
		AccessList:   []string{"reports", "dashboard"},
		Password:     password,
		Confirmation: password,
	}
}

func seedUser(repo *stubUserRepo, email, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), testCost)
	if err != nil {
		panic(err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Name:         "Seeded",
		Email:        email,
		Phone:        "11988887777",
		BirthDate:    time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC),
		Role:         "admin",
		AccessList:   []string{"all"},
		PasswordHash: string(hash),
	})
	if err != nil {
		panic(err)
	}
	return u
}
