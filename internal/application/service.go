// Package application holds the shared ledger engine: every backend and
// the HTTP server route through the same Service, so authorization
// decisions, pagination slices and monetary sums are reproducible
// bit-for-bit regardless of which side executes them.
package application

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"starbook/internal/domain/entity"
	"starbook/internal/domain/repository"
	"starbook/pkg/helpers"
	"starbook/pkg/mailer"
	"starbook/pkg/pagination"
)

// DefaultAvatarPath is served when no asset bucket is configured.
const DefaultAvatarPath = "/assets/user_avatar.png"

// Service implements every ledger operation over a Store. The acting user
// is passed explicitly; resolving a credential to a user id is the job of
// the surrounding backend or transport.
//
// ES, Pub and GCS are optional side-effect sinks: user search indexing,
// welcome mail publishing and avatar asset resolution degrade silently
// when unset.
type Service struct {
	Store        repository.Store
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	GCSBucket    string
}

func NewService(store repository.Store, logger *logrus.Logger) *Service {
	return &Service{Store: store, Logger: logger}
}

// ResolveUser maps an already-authenticated identifier back to its user.
// Identity resolvers call this; a missing user means the credential is
// stale and should be purged by the caller.
func (s *Service) ResolveUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Authenticate checks an email/password pair without issuing a credential.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !helpers.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser registers a user. Email uniqueness is enforced here, at
// creation time only.
func (s *Service) CreateUser(ctx context.Context, name, email, password string) error {
	existing, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("email %q taken: %w", email, ErrConflict)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u := &entity.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.Store.Users().Create(ctx, u); err != nil {
		return err
	}

	s.indexUser(ctx, u)
	s.publishWelcome(ctx, u)
	return nil
}

func (s *Service) UpdateUserName(ctx context.Context, actorID int64, name string) error {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	u.Name = name
	if err := s.Store.Users().Update(ctx, u); err != nil {
		return err
	}
	s.indexUser(ctx, u)
	return nil
}

func (s *Service) UpdateUserEmail(ctx context.Context, actorID int64, email string) error {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	u.Email = email
	if err := s.Store.Users().Update(ctx, u); err != nil {
		return err
	}
	s.indexUser(ctx, u)
	return nil
}

func (s *Service) UpdateUserPassword(ctx context.Context, actorID int64, password string) error {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.Store.Users().Update(ctx, u)
}

// CheckUserPassword compares a candidate against the caller's own stored
// credential.
func (s *Service) CheckUserPassword(ctx context.Context, actorID int64, password string) (bool, error) {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return false, err
	}
	return helpers.VerifyPassword(u.PasswordHash, password), nil
}

// GetUser returns any user by id. Reads require an authenticated caller
// but no role: user search is deliberately open to all members.
func (s *Service) GetUser(ctx context.Context, actorID, id int64) (*entity.User, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, actorID int64, email string) (*entity.User, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// GetUserAvatar resolves the avatar asset for a user: a public object URL
// when a bucket is configured, the built-in default path otherwise.
func (s *Service) GetUserAvatar(ctx context.Context, actorID, id int64) (string, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return "", err
	}
	if s.GCS != nil && s.GCSBucket != "" {
		return helpers.PublicURL(s.GCSBucket, fmt.Sprintf("avatars/%d.png", id)), nil
	}
	return DefaultAvatarPath, nil
}

func (s *Service) GetUsersByName(ctx context.Context, actorID int64, name string, pageSize, pageID int) ([]entity.User, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	users, err := s.Store.Users().ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return pagination.Page(users, pageSize, pageID), nil
}

// GetUsersByAccountRole lists the users holding exactly the given role on
// an account. The caller needs at least Member on the account; without it
// the result degrades to empty.
func (s *Service) GetUsersByAccountRole(ctx context.Context, actorID, accountID int64, role entity.Role, pageSize, pageID int) ([]entity.User, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	ok, err := s.HasRole(ctx, actorID, accountID, entity.RoleMember)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.User{}, nil
	}

	rules, err := s.Store.AccessRules().ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	users := []entity.User{}
	for _, rule := range rules {
		if rule.Role != role {
			continue
		}
		u, err := s.Store.Users().GetByID(ctx, rule.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			s.logWarn("access rule references a missing user", logrus.Fields{"rule_id": rule.ID, "user_id": rule.UserID})
			continue
		}
		users = append(users, *u)
	}
	pagination.SortByID(users, func(u entity.User) int64 { return u.ID })
	return pagination.Page(users, pageSize, pageID), nil
}

func (s *Service) CountUsersByAccountRole(ctx context.Context, actorID, accountID int64, role entity.Role) (int64, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return 0, err
	}
	ok, err := s.HasRole(ctx, actorID, accountID, entity.RoleMember)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	rules, err := s.Store.AccessRules().ListByAccountID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, rule := range rules {
		if rule.Role == role {
			n++
		}
	}
	return n, nil
}

// actor loads the acting user, mapping a zero id or a vanished user to
// ErrUnauthenticated so the transport can signal a stale credential.
func (s *Service) actor(ctx context.Context, actorID int64) (*entity.User, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	u, err := s.Store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

func (s *Service) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.NewWelcomeJob(u.Email, u.Name)
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.logWarn("welcome mail publish failed", logrus.Fields{"user_id": u.ID, "error": err.Error()})
	}
}

func (s *Service) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
