package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront/internal/mail"
	"storefront/internal/model"
)

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to string, msg mail.Message) error {
	args := m.Called(ctx, to, msg)
	return args.Error(0)
}

// lastCode extracts the code from the most recent verification email.
func (m *MockMailer) lastCode() string {
	calls := m.Calls
	if len(calls) == 0 {
		return ""
	}
	msg := calls[len(calls)-1].Arguments.Get(2).(mail.Message)
	return msg.Text[strings.LastIndex(msg.Text, " ")+1:]
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]model.User
	err     error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byEmail {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUserRepo) SetVerificationCode(ctx context.Context, email, code string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || u.Verified {
		return gorm.ErrRecordNotFound
	}
	u.VerificationCode = &code
	u.CodeIssuedAt = &issuedAt
	r.byEmail[email] = u
	return nil
}

func (r *memUserRepo) MarkVerified(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Verified = true
	u.VerificationCode = nil
	u.CodeIssuedAt = nil
	r.byEmail[email] = u
	return nil
}

func (r *memUserRepo) get(email string) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email]
}

// memAttempts is an in-memory attempt store without expiry.
type memAttempts struct {
	mu     sync.Mutex
	max    int64
	counts map[string]int64
}

func newMemAttempts(max int64) *memAttempts {
	return &memAttempts{max: max, counts: make(map[string]int64)}
}

func (a *memAttempts) RecordFailure(ctx context.Context, email string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[email]++
	return a.counts[email], nil
}

func (a *memAttempts) Locked(ctx context.Context, email string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.max > 0 && a.counts[email] >= a.max, nil
}

func (a *memAttempts) Reset(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.counts, email)
	return nil
}

// memCategoryRepo is an in-memory CategoryRepository kept sorted by name.
type memCategoryRepo struct {
	mu         sync.Mutex
	categories []model.Category
	err        error
}

func newMemCategoryRepo(names ...string) *memCategoryRepo {
	r := &memCategoryRepo{}
	for _, n := range names {
		r.categories = append(r.categories, model.Category{ID: uuid.New(), Name: n})
	}
	sort.Slice(r.categories, func(i, j int) bool { return r.categories[i].Name < r.categories[j].Name })
	return r
}

func (r *memCategoryRepo) List(ctx context.Context, offset, limit int) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if offset >= len(r.categories) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.categories) {
		end = len(r.categories)
	}
	return append([]model.Category(nil), r.categories[offset:end]...), nil
}

func (r *memCategoryRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.categories)), nil
}

func (r *memCategoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *memCategoryRepo) CreateMissing(ctx context.Context, categories []model.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var created int64
	for _, c := range categories {
		exists := false
		for _, existing := range r.categories {
			if existing.Name == c.Name {
				exists = true
				break
			}
		}
		if !exists {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			r.categories = append(r.categories, c)
			created++
		}
	}
	sort.Slice(r.categories, func(i, j int) bool { return r.categories[i].Name < r.categories[j].Name })
	return created, nil
}

func (r *memCategoryRepo) at(i int) model.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories[i]
}

// memInterestRepo stores interest sets per user.
type memInterestRepo struct {
	mu         sync.Mutex
	categories *memCategoryRepo
	sets       map[uuid.UUID][]uuid.UUID
	calls      int
}

func newMemInterestRepo(categories *memCategoryRepo) *memInterestRepo {
	return &memInterestRepo{categories: categories, sets: make(map[uuid.UUID][]uuid.UUID)}
}

func (r *memInterestRepo) ReplaceForUser(ctx context.Context, userID uuid.UUID, categoryIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.sets[userID] = append([]uuid.UUID(nil), categoryIDs...)
	return nil
}

func (r *memInterestRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	ids := append([]uuid.UUID(nil), r.sets[userID]...)
	r.mu.Unlock()

	out, err := r.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
