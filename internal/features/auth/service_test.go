package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type memStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[primitive.ObjectID]*User)}
}

func (m *memStore) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.Wrap(apperrors.ErrDuplicate, "email already registered")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) find(match func(*User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
}

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *memStore) FindByFirebaseUID(_ context.Context, uid string) (*User, error) {
	return m.find(func(u *User) bool { return u.FirebaseUID != "" && u.FirebaseUID == uid })
}

func (m *memStore) FindByGoogleID(_ context.Context, id string) (*User, error) {
	return m.find(func(u *User) bool { return u.GoogleID != "" && u.GoogleID == id })
}

func (m *memStore) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
	}
	for k, v := range updates {
		switch k {
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "avatarUrl":
			u.AvatarURL = v.(string)
		case "banned":
			u.Banned = v.(bool)
		case "firebaseUid":
			u.FirebaseUID = v.(string)
		case "googleId":
			u.GoogleID = v.(string)
		}
	}
	cp := *u
	return &cp, nil
}

type stubVerifier struct {
	identity *FederatedIdentity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (*FederatedIdentity, error) {
	return s.identity, s.err
}

func newTestService(store Store) *Service {
	return NewService(store, jwt.DefaultConfig("test-secret"), "let-me-in")
}

func donorRequest(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:     email,
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+1 555 123 4567",
		UserType:  UserTypeDonor,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	res, err := svc.Register(ctx, donorRequest("Ada@Example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "ada@example.com", res.User.Email)
	require.Equal(t, "+15551234567", res.User.Phone)
	require.NotEqual(t, "secret123", res.User.Password)

	claims, err := jwt.ValidateToken(res.AccessToken, "test-secret")
	require.NoError(t, err)
	require.Equal(t, res.User.ID.Hex(), claims.UserID)
	require.Equal(t, UserTypeDonor, claims.Role)

	login, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Register(ctx, donorRequest("ada@example.com"))
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMemStore())

	req := donorRequest("bob@example.com")
	req.Phone = "abc"
	_, err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	req = donorRequest("bob@example.com")
	req.FirstName = "   "
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegisterAdminNeedsCode(t *testing.T) {
	svc := newTestService(newMemStore())

	req := donorRequest("admin@example.com")
	req.UserType = UserTypeAdmin
	req.AdminCode = "nope"
	_, err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	req.AdminCode = "let-me-in"
	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.User.IsAdmin())
}

func TestBannedUserCannotSignIn(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	res, err := svc.Register(ctx, donorRequest("eve@example.com"))
	require.NoError(t, err)

	_, err = store.Update(ctx, res.User.ID, bson.M{"banned": true})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "eve@example.com", Password: "secret123"})
	require.ErrorIs(t, err, apperrors.ErrBanned)

	_, err = svc.Authenticate(ctx, res.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrBanned)
}

func TestFederatedLoginCreatesThenLinks(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	svc.WithVerifier(ProviderFirebase, stubVerifier{identity: &FederatedIdentity{
		Provider: ProviderFirebase,
		UID:           "fb-1",
		Email:         "grace@example.com",
		EmailVerified: true,
		Name:          "Grace Brewster Hopper",
	}})

	res, err := svc.FederatedLogin(ctx, ProviderFirebase, &FederatedAuthRequest{IDToken: "x", UserType: UserTypeDonor})
	require.NoError(t, err)
	require.Equal(t, "Grace", res.User.FirstName)
	require.Equal(t, "Brewster Hopper", res.User.LastName)
	require.Equal(t, UserTypeDonor, res.User.UserType)

	again, err := svc.FederatedLogin(ctx, ProviderFirebase, &FederatedAuthRequest{IDToken: "x"})
	require.NoError(t, err)
	require.Equal(t, res.User.ID, again.User.ID)

	svc.WithVerifier(ProviderGoogle, stubVerifier{identity: &FederatedIdentity{
		Provider:      ProviderGoogle,
		UID:           "g-1",
		Email:         "grace@example.com",
		EmailVerified: true,
	}})
	linked, err := svc.FederatedLogin(ctx, ProviderGoogle, &FederatedAuthRequest{IDToken: "y"})
	require.NoError(t, err)
	require.Equal(t, res.User.ID, linked.User.ID)
	require.Equal(t, "g-1", linked.User.GoogleID)
}

func TestFederatedLoginRefusesUnsafeLinks(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	req := donorRequest("boss@example.com")
	req.UserType = UserTypeAdmin
	req.AdminCode = "let-me-in"
	admin, err := svc.Register(ctx, req)
	require.NoError(t, err)

	victim, err := svc.Register(ctx, donorRequest("victim@example.com"))
	require.NoError(t, err)

	svc.WithVerifier(ProviderFirebase, stubVerifier{identity: &FederatedIdentity{
		Provider: ProviderFirebase,
		UID:      "intruder",
		Email:    "victim@example.com",
	}})
	_, err = svc.FederatedLogin(ctx, ProviderFirebase, &FederatedAuthRequest{IDToken: "x"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	stored, err := store.FindByID(ctx, victim.User.ID)
	require.NoError(t, err)
	require.Empty(t, stored.FirebaseUID)

	svc.WithVerifier(ProviderFirebase, stubVerifier{identity: &FederatedIdentity{
		Provider:      ProviderFirebase,
		UID:           "intruder",
		Email:         "boss@example.com",
		EmailVerified: true,
	}})
	_, err = svc.FederatedLogin(ctx, ProviderFirebase, &FederatedAuthRequest{IDToken: "x"})
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	stored, err = store.FindByID(ctx, admin.User.ID)
	require.NoError(t, err)
	require.Empty(t, stored.FirebaseUID)

	svc.WithVerifier(ProviderGoogle, stubVerifier{identity: &FederatedIdentity{
		Provider: ProviderGoogle,
		UID:      "g-new",
		Email:    "fresh@example.com",
	}})
	_, err = svc.FederatedLogin(ctx, ProviderGoogle, &FederatedAuthRequest{IDToken: "y"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestFederatedLoginNotConfigured(t *testing.T) {
	svc := newTestService(newMemStore())
	_, err := svc.FederatedLogin(context.Background(), ProviderGoogle, &FederatedAuthRequest{IDToken: "x"})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	res, err := svc.Register(ctx, donorRequest("lin@example.com"))
	require.NoError(t, err)

	name := " Linus "
	updated, err := svc.UpdateProfile(ctx, res.User, &UpdateProfileRequest{FirstName: &name})
	require.NoError(t, err)
	require.Equal(t, "Linus", updated.FirstName)
	require.Equal(t, "Lovelace", updated.LastName)

	bad := "12"
	_, err = svc.UpdateProfile(ctx, res.User, &UpdateProfileRequest{Phone: &bad})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
