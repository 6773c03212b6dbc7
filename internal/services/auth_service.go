package services

import (
	"errors"
	"fmt"
	"time"

	"handmadehub/internal/models"
	"handmadehub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Login lanes. The same User record may hold any role, but each entry point
// only accepts its own set; a valid password with an out-of-lane role is
// rejected so a customer token can never reach artisan or admin surfaces.
var (
	CustomerLane = []models.Role{models.RoleCustomer}
	ArtisanLane  = []models.Role{models.RoleArtisan}
	AdminLane    = []models.Role{models.RoleAdmin}
)

// AuthService handles credential issuance and identity-record mutations.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. Tokens are valid for 7 days;
// there is no revocation list, so expiry is the only mitigation for a
// compromised token.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  7 * 24 * time.Hour,
	}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with role-appropriate defaults: customers
// are usable immediately, artisans start unapproved and unverified.
func (s *AuthService) Register(input RegisterInput, role models.Role) (*models.User, error) {
	email := models.CanonicalEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	approved := !role.RequiresApproval()
	user := &models.User{
		Name:       input.Name,
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		IsApproved: approved,
		IsVerified: approved,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates an email/password pair against one lane and returns a
// signed token plus the user record. Unknown email and wrong password fail
// identically; an out-of-lane role fails distinctly, and unapproved
// artisan/admin accounts are rejected after the password check.
func (s *AuthService) Login(lane []models.Role, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(models.CanonicalEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up account: %w", err)
	}

	role, err := models.ParseRole(string(user.Role))
	if err != nil || !role.In(lane...) {
		return "", nil, ErrWrongAccountType
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if role.RequiresApproval() && !user.IsApproved {
		return "", nil, ErrNotApproved
	}

	token, err := s.issueToken(user.ID, role, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// TokenForUser issues a session token for an already-authenticated user,
// used right after registration so the customer flow logs in directly.
func (s *AuthService) TokenForUser(user *models.User) (string, error) {
	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		return "", fmt.Errorf("cannot issue token: %w", err)
	}
	return s.issueToken(user.ID, role, user.Email)
}

func (s *AuthService) issueToken(userID string, role models.Role, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    userID,
		"role":  role.String(),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a bearer token and resolves it to a live user.
// Signature and expiry failures are indistinguishable here, and a subject
// deleted after issuance is rejected the same way.
func (s *AuthService) Authenticate(tokenString string) (*models.User, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", ErrInvalidToken
	}
	subject, _ := claims["id"].(string)
	rawRole, _ := claims["role"].(string)
	if subject == "" {
		return nil, "", ErrInvalidToken
	}

	// The role comes from the token claim, so a role change only takes
	// effect on next login. The user re-fetch catches deleted accounts.
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return nil, "", ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return user, role, nil
}

// GetUser fetches a user by id for profile reads.
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdate carries optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateProfile applies the non-nil fields to the user's own record.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	if update.Name == nil && update.Phone == nil && update.Address == nil {
		return nil, ErrNothingToUpdate
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before re-hashing and
// persisting the new one.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(user)
}
