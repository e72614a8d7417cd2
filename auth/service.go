package auth

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/store"
	"golang.org/x/crypto/bcrypt"
)

const Issuer = "caption-serve"

const (
	tokenDuration  = 24 * time.Hour
	cookieDuration = 7 * 24 * time.Hour
)

// Service wraps go-pkgz/auth with a direct credential provider backed by the
// users table. The rest of the app only sees token issue/parse.
type Service struct {
	svc   *auth.Service
	store store.Store
}

func NewService(jwtSecret string, st store.Store) *Service {
	options := auth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return jwtSecret, nil
		}),
		TokenDuration:  tokenDuration,
		CookieDuration: cookieDuration,
		Issuer:         Issuer,
		URL:            "http://localhost:3000",
		AvatarStore:    avatar.NewLocalFS("/tmp/avatars"),
	}

	service := auth.NewService(options)
	s := &Service{svc: service, store: st}

	// Direct authentication provider that checks against the users table
	service.AddDirectProvider("local", provider.CredCheckerFunc(func(identity, password string) (bool, error) {
		user, err := s.ValidateCredentials(context.Background(), identity, password)
		if err != nil {
			return false, err
		}
		return user != nil, nil
	}))

	return s
}

// TokenService exposes the token parser used by the auth middleware.
func (s *Service) TokenService() *token.Service {
	return s.svc.TokenService()
}

// ValidateCredentials returns the matching user, or nil when the email is
// unknown or the password does not match.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}

// IssueToken creates a signed JWT whose subject is the user id.
func (s *Service) IssueToken(user models.User) (string, error) {
	tokenUser := token.User{
		ID:   user.ID,
		Name: user.FullName(),
	}
	if user.Email != nil {
		tokenUser.Email = *user.Email
	}
	if user.ProfileImageURL != nil {
		tokenUser.Picture = *user.ProfileImageURL
	}

	claims := token.Claims{
		User: &tokenUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			Audience:  []string{Issuer},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	return s.svc.TokenService().Token(claims)
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
