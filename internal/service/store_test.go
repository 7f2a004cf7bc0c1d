package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bloghub/bloghub-go/internal/model"
	"github.com/bloghub/bloghub-go/internal/repository"
)

// memUserStore is an in-memory UserStore for tests. It reports the
// repository sentinel errors the way the MySQL store does.
type memUserStore struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*model.User
	creates int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[int64]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	for _, u := range s.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	s.nextID++
	user.ID = s.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	cp := *user
	s.byID[user.ID] = &cp
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// memPostStore is an in-memory PostStore mirroring the MySQL store's
// filter semantics: any-of tags, case-insensitive substring search,
// newest-first ordering, author join from a memUserStore.
type memPostStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Post
	users  *memUserStore
	clock  time.Time
}

func newMemPostStore(users *memUserStore) *memPostStore {
	return &memPostStore{byID: make(map[int64]*model.Post), users: users}
}

// tick returns strictly increasing timestamps so newest-first ordering
// is deterministic even within one test.
func (s *memPostStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	if s.clock.Before(time.Unix(1, 0)) {
		s.clock = time.Now().UTC()
	}
	return s.clock
}

func (s *memPostStore) Create(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	post.ID = s.nextID
	now := s.tick()
	cp := *post
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.byID[post.ID] = &cp
	return nil
}

func (s *memPostStore) GetByID(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *memPostStore) get(id int64) (*model.Post, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	if s.users != nil {
		if u, ok := s.users.byID[cp.AuthorID]; ok {
			cp.Author = model.PostAuthor{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return &cp, nil
}

func (s *memPostStore) List(_ context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Post
	for id := range s.byID {
		p, _ := s.get(id)
		if matchesFilter(p, filter) {
			matched = append(matched, *p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func matchesFilter(p *model.Post, filter model.PostFilter) bool {
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
		return false
	}
	if len(filter.Tags) > 0 {
		any := false
		for _, want := range filter.Tags {
			for _, have := range p.Tags {
				if have == want {
					any = true
				}
			}
		}
		if !any {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			return false
		}
	}
	return true
}

func (s *memPostStore) Update(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[post.ID]
	if !ok {
		return repository.ErrPostNotFound
	}
	cp := *post
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = s.tick()
	s.byID[post.ID] = &cp
	return nil
}

func (s *memPostStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.byID, id)
	return nil
}
