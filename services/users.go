package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const UsersCollection = "users"

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = bcrypt.DefaultCost

const minPasswordLength = 8

type UserService struct {
	*Resource[models.User, *models.User]
}

func NewUserService(s store.Store, log *logrus.Logger) *UserService {
	return &UserService{NewResource[models.User](s, ResourceConfig[models.User]{
		Name:       "User",
		Collection: UsersCollection,
		Ops: Ops{
			List:   access.UserList,
			Get:    access.UserGet,
			Create: access.UserCreate,
			Update: access.UserUpdate,
			Delete: access.UserDelete,
		},
		Unique: []string{"email"},
		Sort:   []store.SortField{{Field: "name"}},
		Hooks: Hooks[models.User]{
			Defaults: func(v *models.User) {
				v.Role = models.RoleViewer
			},
			Sanitize: sanitizeUser,
			DeleteGuard: func(v *models.User) error {
				if v.IsMainAdmin {
					return models.NewForbiddenError("the main admin cannot be deleted")
				}
				return nil
			},
		},
	}, log)}
}

func sanitizeUser(before, after *models.User) error {
	after.Email = strings.ToLower(strings.TrimSpace(after.Email))
	after.IsMainAdmin = before != nil && before.IsMainAdmin
	if after.Password == "" {
		return nil
	}
	hash, err := HashPassword(after.Password)
	after.Password = ""
	if err != nil {
		return err
	}
	after.PasswordHash = hash
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", models.NewValidationError("invalid password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", models.NewValidationError("invalid password", err.Error())
	}
	return string(hash), nil
}

// ByEmail looks a user up by email, case-insensitively.
func (s *UserService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.FindOne(ctx, store.Query{Filter: store.Where(store.Eq("email", email))}, email)
}

// MarkLogin records a successful sign-in.
func (s *UserService) MarkLogin(ctx context.Context, u *models.User) error {
	now := s.now().UTC().Truncate(time.Millisecond)
	u.LastLoginAt = &now
	if err := s.coll.Set(ctx, u.ID, bson.M{"lastLoginAt": now}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// EnsureMainAdmin makes the user with email the main admin. An existing user is
// promoted; otherwise one is created with the given name and password.
// It reports whether anything changed.
func (s *UserService) EnsureMainAdmin(ctx context.Context, email, name, password string) (bool, error) {
	u, err := s.ByEmail(ctx, email)
	switch {
	case err == nil:
		if u.IsMainAdmin && u.Role == models.RoleAdmin {
			return false, nil
		}
		err := s.coll.Set(ctx, u.ID, bson.M{
			"role":        models.RoleAdmin,
			"isMainAdmin": true,
			"updatedAt":   s.now().UTC().Truncate(time.Millisecond),
		})
		if err != nil {
			return false, models.NewInternalError(err)
		}
		s.log.WithField("email", u.Email).Info("promoted main admin")
		return true, nil
	case models.KindOf(err) != models.KindNotFound:
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	u = &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsMainAdmin:  true,
	}
	u.Stamp(s.now().UTC().Truncate(time.Millisecond))
	if err := models.Validate(u); err != nil {
		return false, err
	}
	if err := s.coll.Insert(ctx, u); err != nil {
		return false, s.writeError(err)
	}
	s.log.WithField("email", u.Email).Info("created main admin")
	return true, nil
}
