package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub/apperror"
	"learnhub/config"
	"learnhub/models"
	"learnhub/store"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 10 * time.Minute

type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type UpdateDetailsInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Session is an issued token together with the user it belongs to
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// ResetTicket is the outcome of a forgot-password request. Token is the
// plain reset token; only its hash is stored.
type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	store *store.Store
	cfg   *config.Config
	log   *logrus.Entry
	now   func() time.Time
}

func NewAuthService(st *store.Store, cfg *config.Config, log *logrus.Logger) *AuthService {
	return &AuthService{
		store: st,
		cfg:   cfg,
		log:   log.WithField("service", "AuthService"),
		now:   time.Now,
	}
}

func (s *AuthService) hash(password string) (string, error) {
	cost := s.cfg.SaltRound
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperror.Internal("Server Error", err)
	}
	return string(b), nil
}

func passwordMatches(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// IssueToken signs an HS256 token carrying the user's id and role
func (s *AuthService) IssueToken(u *models.User) (*Session, error) {
	issued := s.now()
	expires := issued.Add(time.Duration(s.cfg.JWTExpireHours) * time.Hour)
	claims := jwt.MapClaims{
		"id":   u.ID,
		"role": string(u.Role),
		"iat":  issued.Unix(),
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTKey))
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return &Session{Token: signed, ExpiresAt: expires, User: u}, nil
}

// Register creates a user account. Only user and instructor may be chosen at
// sign-up; admins are appointed through SetRole.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin || !role.Valid() {
		return nil, apperror.Validation(map[string]string{"role": "Role must be one of user, instructor"})
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:              in.Name,
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Password:          hashed,
		Role:              role,
		EnrolledCourses:   []models.Enrollment{},
		Certificates:      []models.Certificate{},
		Wishlist:          []string{},
		BlacklistedTokens: []models.BlacklistedToken{},
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, storeError(err, "User not found")
	}
	s.log.WithFields(logrus.Fields{"userId": u.ID, "role": u.Role}).Info("user registered")
	return s.IssueToken(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Please provide an email and password")
	}
	u, err := s.store.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	if !passwordMatches(u.Password, password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	return s.IssueToken(u)
}

// Authenticate verifies a bearer token and loads its user. Tokens revoked by
// logout are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	denied := apperror.Unauthorized("Not authorized to access this route")
	if token == "" {
		return nil, denied
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTKey), nil
	})
	if err != nil || !parsed.Valid {
		return nil, denied
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, denied
	}
	userID, _ := claims["id"].(string)
	if userID == "" {
		return nil, denied
	}

	if revoked, err := s.store.TokenBlacklist.Contains(ctx, token); err != nil {
		s.log.WithError(err).Warn("token blacklist lookup failed")
	} else if revoked {
		return nil, apperror.Unauthorized("Token is no longer valid")
	}

	u, err := s.store.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthorized("No user found with this id")
	}
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	if u.IsTokenBlacklisted(token, s.now()) {
		return nil, apperror.Unauthorized("Token is no longer valid")
	}
	return u, nil
}

// Logout revokes token for the rest of its blacklist lifetime
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.IsTokenBlacklisted(token, s.now()) {
			return nil
		}
		u.BlacklistedTokens = append(u.BlacklistedTokens, models.BlacklistedToken{Token: token, CreatedAt: s.now()})
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return storeError(err, "User not found")
	}
	if err := s.store.TokenBlacklist.Add(ctx, token, models.TokenBlacklistTTL); err != nil {
		s.log.WithError(err).WithField("userId", userID).Warn("token not cached in blacklist")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return u, nil
}

func (s *AuthService) UpdateDetails(ctx context.Context, userID string, in UpdateDetailsInput) (*models.User, error) {
	var out *models.User
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		out = u
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return out, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*Session, error) {
	var out *models.User
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !passwordMatches(u.Password, current) {
			return apperror.Unauthorized("Password is incorrect")
		}
		hashed, err := s.hash(next)
		if err != nil {
			return err
		}
		u.Password = hashed
		out = u
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return s.IssueToken(out)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword stores a hashed single-use reset token valid for ten minutes
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ResetTicket, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	token := hex.EncodeToString(raw)
	expires := s.now().Add(resetTokenTTL)

	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NotFound("There is no user with that email")
		}
		if err != nil {
			return err
		}
		u.ResetPasswordToken = hashResetToken(token)
		u.ResetPasswordExpire = &expires
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, "There is no user with that email")
	}
	return &ResetTicket{Token: token, ExpiresAt: expires}, nil
}

// ResetPassword consumes a reset token and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	hashed := hashResetToken(token)
	var out *models.User
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByResetToken(ctx, hashed, s.now())
		if errors.Is(err, store.ErrNotFound) {
			return apperror.BadRequest("Invalid token")
		}
		if err != nil {
			return err
		}
		pw, err := s.hash(password)
		if err != nil {
			return err
		}
		u.Password = pw
		u.ResetPasswordToken = ""
		u.ResetPasswordExpire = nil
		out = u
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, "Invalid token")
	}
	return s.IssueToken(out)
}

func (s *AuthService) Wishlist(ctx context.Context, userID string) ([]*models.Course, error) {
	u, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	courses, err := s.store.Courses.FindByIDs(ctx, u.Wishlist)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

// AddToWishlist keeps the wishlist a set; adding twice is a no-op
func (s *AuthService) AddToWishlist(ctx context.Context, userID, courseID string) ([]string, error) {
	if _, err := s.store.Courses.FindByID(ctx, courseID); err != nil {
		return nil, storeError(err, courseNotFound(courseID))
	}
	return s.editWishlist(ctx, userID, func(u *models.User) bool {
		if u.InWishlist(courseID) {
			return false
		}
		u.Wishlist = append(u.Wishlist, courseID)
		return true
	})
}

func (s *AuthService) RemoveFromWishlist(ctx context.Context, userID, courseID string) ([]string, error) {
	return s.editWishlist(ctx, userID, func(u *models.User) bool {
		kept := make([]string, 0, len(u.Wishlist))
		for _, id := range u.Wishlist {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		changed := len(kept) != len(u.Wishlist)
		u.Wishlist = kept
		return changed
	})
}

func (s *AuthService) editWishlist(ctx context.Context, userID string, fn func(u *models.User) bool) ([]string, error) {
	var out []string
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		changed := fn(u)
		out = append([]string{}, u.Wishlist...)
		if !changed {
			return nil
		}
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return out, nil
}

// SetRole changes a user's role; admin only
func (s *AuthService) SetRole(ctx context.Context, actor Actor, userID string, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden(fmt.Sprintf("Role %s is not authorized to access this route", actor.Role))
	}
	if !role.Valid() {
		return nil, apperror.Validation(map[string]string{"role": "Role must be one of user, instructor, admin"})
	}
	var out *models.User
	err := withRetry(ctx, func() error {
		u, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		u.Role = role
		out = u
		return s.store.Users.Save(ctx, u)
	})
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("User not found with id of %s", userID))
	}
	s.log.WithFields(logrus.Fields{"userId": userID, "role": role, "by": actor.ID}).Info("role changed")
	return out, nil
}

// PurgeExpiredTokens drops blacklist entries older than their lifetime and
// returns how many users were rewritten
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int, error) {
	now := s.now()
	changed := 0
	err := s.store.Users.Each(ctx, 100, func(u *models.User) error {
		if !u.PruneBlacklist(now) {
			return nil
		}
		if err := s.store.Users.Save(ctx, u); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil
			}
			return err
		}
		changed++
		return nil
	})
	return changed, err
}
