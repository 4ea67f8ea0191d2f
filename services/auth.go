package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"churchcms/access"
	"churchcms/models"
)

// SessionClaims are carried by the signed session token.
type SessionClaims struct {
	Role        string `json:"role"`
	IsMainAdmin bool   `json:"isMainAdmin"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// AuthService turns credentials into session tokens and tokens back into principals.
type AuthService struct {
	users  *UserService
	secret []byte
	ttl    time.Duration
	log    *logrus.Logger
	now    func() time.Time
}

func NewAuthService(users *UserService, secret string, ttl time.Duration, log *logrus.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, log: log, now: time.Now}
}

var errInvalidCredentials = models.NewUnauthenticatedError("invalid credentials")

// Login checks email and password and issues a session token.
func (a *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("email and password are required")
	}
	u, err := a.users.ByEmail(ctx, email)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		a.log.WithField("email", u.Email).Warn("login failed")
		return nil, errInvalidCredentials
	}
	if err := a.users.MarkLogin(ctx, u); err != nil {
		a.log.WithError(err).Warn("record login time")
	}
	token, expires, err := a.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// Issue signs a session token for u.
func (a *AuthService) Issue(u *models.User) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := SessionClaims{
		Role:        u.Role,
		IsMainAdmin: u.IsMainAdmin,
		Name:        u.Name,
		Email:       u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, models.NewInternalError(err)
	}
	return token, expires, nil
}

// Parse verifies a session token and returns its principal.
func (a *AuthService) Parse(token string) (*access.Principal, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, models.NewUnauthenticatedError("invalid session")
	}
	role, err := access.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return nil, models.NewUnauthenticatedError("invalid session")
	}
	return &access.Principal{
		UserID:      claims.Subject,
		Role:        role,
		IsMainAdmin: claims.IsMainAdmin,
		Name:        claims.Name,
		Email:       claims.Email,
	}, nil
}
