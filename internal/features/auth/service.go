package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/sharebox/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// Store is the persistence the auth service needs
type Store interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*User, error)
}

type Service struct {
	store     Store
	tokens    *jwt.Config
	adminCode string
	verifiers map[string]IdentityVerifier
}

func NewService(store Store, tokens *jwt.Config, adminCode string) *Service {
	return &Service{
		store:     store,
		tokens:    tokens,
		adminCode: adminCode,
		verifiers: make(map[string]IdentityVerifier),
	}
}

// WithVerifier enables sign-in through an external identity provider
func (s *Service) WithVerifier(provider string, v IdentityVerifier) *Service {
	s.verifiers[provider] = v
	return s
}

// Register creates an email/password account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := ValidateRegister(req); err != nil {
		return nil, err
	}

	if req.UserType == UserTypeAdmin {
		if s.adminCode == "" || subtle.ConstantTimeCompare([]byte(req.AdminCode), []byte(s.adminCode)) != 1 {
			return nil, apperrors.Wrap(apperrors.ErrForbidden, "invalid admin signup code")
		}
	}

	if _, err := s.store.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Wrap(apperrors.ErrDuplicate, "email already registered")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		UserType:  req.UserType,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login checks email/password credentials
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid email or password")
	}
	if user.Banned {
		return nil, apperrors.Wrap(apperrors.ErrBanned, "account is banned")
	}

	return s.issue(user)
}

// FederatedLogin verifies a provider ID token and finds or creates the
// matching user. An existing non-admin account with the same email gets
// linked, but only when the provider verified that email.
func (s *Service) FederatedLogin(ctx context.Context, provider string, req *FederatedAuthRequest) (*AuthResponse, error) {
	verifier, ok := s.verifiers[provider]
	if !ok || verifier == nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s sign-in is not configured", provider)
	}

	identity, err := verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}
	if identity.UID == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token has no subject")
	}

	field := "firebaseUid"
	find := s.store.FindByFirebaseUID
	if provider == ProviderGoogle {
		field = "googleId"
		find = s.store.FindByGoogleID
	}

	user, err := find(ctx, identity.UID)
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.ErrNotFound):
		user, err = s.linkOrCreate(ctx, identity, field, req.UserType)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if user.Banned {
		return nil, apperrors.Wrap(apperrors.ErrBanned, "account is banned")
	}

	return s.issue(user)
}

func (s *Service) linkOrCreate(ctx context.Context, identity *FederatedIdentity, field, userType string) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "identity provider did not return an email")
	}

	if !identity.EmailVerified {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "identity provider has not verified this email")
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		if existing.IsAdmin() {
			return nil, apperrors.Wrap(apperrors.ErrForbidden, "admin accounts sign in with email and password")
		}
		return s.store.Update(ctx, existing.ID, bson.M{field: identity.UID})
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if userType == "" {
		userType = UserTypeReceiver
	}
	if userType == UserTypeAdmin {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "admin accounts must register with an admin code")
	}

	first, last := splitName(identity.Name)
	user := &User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		UserType:  userType,
		AvatarURL: identity.Picture,
	}
	if field == "googleId" {
		user.GoogleID = identity.UID
	} else {
		user.FirebaseUID = identity.UID
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves an access token to an active user
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := jwt.ValidateToken(token, s.tokens.Secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid or expired token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token subject")
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "user not found")
		}
		return nil, err
	}
	if user.Banned {
		return nil, apperrors.Wrap(apperrors.ErrBanned, "account is banned")
	}
	return user, nil
}

// UpdateProfile changes the editable profile fields
func (s *Service) UpdateProfile(ctx context.Context, user *User, req *UpdateProfileRequest) (*User, error) {
	if err := ValidateProfileUpdate(req); err != nil {
		return nil, err
	}

	updates := bson.M{}
	if req.FirstName != nil {
		updates["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["lastName"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		updates["avatarUrl"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return user, nil
	}

	return s.store.Update(ctx, user.ID, updates)
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID.Hex(), user.Email, user.UserType, s.tokens)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
