package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
	"github.com/oksasatya/user-cache-api/internal/domain/event"
	repo "github.com/oksasatya/user-cache-api/internal/domain/repository"
	"github.com/oksasatya/user-cache-api/internal/metrics"
	"github.com/oksasatya/user-cache-api/pkg/helpers"
)

// DefaultCacheTTL applies to single users and list pages alike.
const DefaultCacheTTL = 300 * time.Second

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// ErrInternal marks backing-store failures on list reads.
var ErrInternal = errors.New("error fetching users")

type Service struct {
	Repo   repo.UserRepository
	Cache  CacheStore
	Lists  ListCachePolicy
	Index  UserIndexer
	Events EventPublisher
	Logger *logrus.Logger
	TTL    time.Duration
	Now    func() time.Time
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option { return func(s *Service) { s.TTL = ttl } }

func WithListPolicy(p ListCachePolicy) Option { return func(s *Service) { s.Lists = p } }

func WithIndexer(ix UserIndexer) Option { return func(s *Service) { s.Index = ix } }

func WithEvents(p EventPublisher) Option { return func(s *Service) { s.Events = p } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.Now = now } }

func NewService(repo repo.UserRepository, cache CacheStore, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		Repo:   repo,
		Cache:  cache,
		Logger: logger,
		TTL:    DefaultCacheTTL,
		Now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Lists == nil {
		s.Lists = NewSweepPolicy(cache)
	}
	if s.Logger == nil {
		s.Logger = logrus.StandardLogger()
	}
	if s.TTL <= 0 {
		s.TTL = DefaultCacheTTL
	}
	return s
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput holds a partial patch; nil or empty fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserList is one page of users (or all of them) plus the full collection size.
type UserList struct {
	Users []*entity.User `json:"users"`
	Total int            `json:"total"`
}

func userKey(id string) string {
	return "user:" + id
}

// Create rejects duplicate emails, hashes the password and persists the user.
// Two concurrent creates with the same email can both pass the lookup; the
// unique index then fails the second insert with ErrEmailAlreadyExists.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, entity.ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, entity.ErrUserNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.Repo.Create(ctx, entity.NewUser(in.Name, in.Email, hash, s.Now()))
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	s.index(ctx, created)
	s.publish(ctx, event.UserCreated, created)
	return created, nil
}

// FindAll returns every user when page or limit is not positive. Otherwise it
// serves the [(page-1)*limit, page*limit) slice, cached for TTL under the key
// chosen by the list policy.
func (s *Service) FindAll(ctx context.Context, page, limit int) (*UserList, error) {
	if page <= 0 || limit <= 0 {
		all, err := s.Repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return &UserList{Users: all, Total: len(all)}, nil
	}

	key, err := s.Lists.Key(ctx, page, limit)
	if err != nil {
		s.Logger.WithError(err).Warn("list cache key failed; serving uncached")
	}
	if key != "" {
		var cached UserList
		hit, err := s.Cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		metrics.CacheLookup(metrics.KindList, hit)
		if hit {
			return &cached, nil
		}
	}

	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	result := &UserList{Users: pageOf(all, page, limit), Total: len(all)}

	if key != "" {
		if err := s.Cache.SetJSON(ctx, key, result, s.TTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("cache set failed")
		}
	}
	return result, nil
}

// FindByID serves the cached user when present and caches it after a miss.
func (s *Service) FindByID(ctx context.Context, id string) (*entity.User, error) {
	key := userKey(id)

	var cached entity.User
	hit, err := s.Cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	metrics.CacheLookup(metrics.KindUser, hit)
	if hit {
		return &cached, nil
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	if err := s.Cache.SetJSON(ctx, key, u, s.TTL); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
	return u, nil
}

// Update applies the fields present in the patch one by one, each stamping
// UpdatedAt, then persists and evicts the user and list caches.
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		u.Rename(*in.Name, s.Now())
	}
	if in.Email != nil && *in.Email != "" {
		u.ChangeEmail(*in.Email, s.Now())
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.ChangePassword(hash, s.Now())
	}

	updated, err := s.Repo.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}

	s.invalidateUser(ctx, id)
	s.invalidateLists(ctx)
	s.index(ctx, updated)
	s.publish(ctx, event.UserUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateUser(ctx, id)
	s.invalidateLists(ctx)
	s.unindex(ctx, id)
	s.publish(ctx, event.UserDeleted, u)
	return nil
}

// Search matches q against name and email. It asks the search index when one
// is configured and falls back to a case-insensitive scan of all users.
// An empty query returns the first size users.
func (s *Service) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	q = strings.TrimSpace(q)

	if q != "" && s.Index != nil {
		users, err := s.Index.Search(ctx, q, size)
		if err == nil {
			return users, nil
		}
		s.Logger.WithError(err).WithField("q", q).Warn("search index failed; scanning users")
	}

	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	out := filterUsers(all, q)
	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}

func filterUsers(users []*entity.User, q string) []*entity.User {
	if q == "" {
		return users
	}
	needle := strings.ToLower(q)
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out
}

// pageOf slices users for a 1-based page; pages past the end are empty.
func pageOf(users []*entity.User, page, limit int) []*entity.User {
	total := len(users)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)
	return users[start:end]
}

func (s *Service) invalidateUser(ctx context.Context, id string) {
	key := userKey(id)
	if err := s.Cache.Delete(ctx, key); err != nil {
		metrics.CacheInvalidationErrorsTotal.Inc()
		s.Logger.WithError(err).WithField("key", key).Warn("cache invalidation failed")
	}
}

func (s *Service) invalidateLists(ctx context.Context) {
	if err := s.Lists.Invalidate(ctx); err != nil {
		metrics.CacheInvalidationErrorsTotal.Inc()
		s.Logger.WithError(err).Warn("list cache invalidation failed")
	}
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}

func (s *Service) unindex(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("search unindex failed")
	}
}

func (s *Service) publish(ctx context.Context, t event.Type, u *entity.User) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, event.NewUserEvent(t, u, s.Now())); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": t}).Warn("publish user event failed")
	}
}
