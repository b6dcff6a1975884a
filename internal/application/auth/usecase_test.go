package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobcards-api/internal/application/auth"
	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/memory"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/session"
	"github.com/jhoicas/jobcards-api/pkg/logger"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "jobcards-test"}

type fixture struct {
	uc       *auth.AuthUseCase
	store    *memory.Store
	sessions *session.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	sessions := session.NewMemoryStore()
	return &fixture{
		uc:       auth.NewAuthUseCase(store.Users(), sessions, testJWT, logger.Nop()),
		store:    store,
		sessions: sessions,
	}
}

// seedUser crea un usuario con password "password123".
func (f *fixture) seedUser(t *testing.T, id, username string, role entity.Role) entity.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{ID: id, Username: username, PasswordHash: string(hash), Role: role, CreatedAt: time.Now()}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.Identity()
}

// ─────────────────────────────────────────────────────────────────────────────
// Login / CurrentSession / Logout
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_YSesionActual(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "u1", "ana", entity.RoleAdmin)

	res, err := f.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Role)
	assert.Equal(t, 1, f.sessions.Len())

	id, err := f.uc.CurrentSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.Identity{ID: "u1", Username: "ana", Role: entity.RoleAdmin}, *id)
}

func TestLogin_CredencialesInvalidasIndistinguibles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "u1", "ana", entity.RoleStaff)

	_, errWrongPass := f.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "otra-clave"})
	_, errNoUser := f.uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "password123"})

	assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
	assert.Zero(t, f.sessions.Len())
}

func TestCurrentSession_SinTokenOInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CurrentSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.uc.CurrentSession(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogout_EsIdempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "u1", "ana", entity.RoleStaff)
	res, err := f.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, res.Token))
	require.NoError(t, f.uc.Logout(ctx, res.Token), "un segundo logout no es error")
	require.NoError(t, f.uc.Logout(ctx, ""), "sin sesión tampoco")

	_, err = f.uc.CurrentSession(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "el token ya no identifica una sesión")
}

func TestCurrentSession_UsuarioEliminado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "u1", "ana", entity.RoleStaff)
	res, err := f.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.store.Users().Delete(ctx, "u1"))

	_, err = f.uc.CurrentSession(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, f.sessions.Len(), "la sesión del usuario eliminado se descarta")
}

// ─────────────────────────────────────────────────────────────────────────────
// SessionStore con mock
// ─────────────────────────────────────────────────────────────────────────────

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	return m.Called(ctx, s, ttl).Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestLogin_FallaAlGuardarSesion(t *testing.T) {
	store := memory.NewStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{ID: "u1", Username: "ana", PasswordHash: string(hash), Role: entity.RoleStaff}))

	sessions := new(mockSessionStore)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("*entity.Session"), 60*time.Minute).Return(errors.New("redis caído"))
	uc := auth.NewAuthUseCase(store.Users(), sessions, testJWT, logger.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "password123"})
	assert.Error(t, err)
	sessions.AssertExpectations(t)
}

func TestCurrentSession_SesionVencida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "u1", "ana", entity.RoleStaff)
	res, err := f.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password123"})
	require.NoError(t, err)

	sessions := new(mockSessionStore)
	sessions.On("Get", mock.Anything, mock.Anything).Return(&entity.Session{
		ID:        "s",
		Identity:  entity.Identity{ID: "u1", Username: "ana", Role: entity.RoleStaff},
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	uc := auth.NewAuthUseCase(f.store.Users(), sessions, testJWT, logger.Nop())

	_, err = uc.CurrentSession(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	sessions.AssertExpectations(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Gestión de usuarios
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_ReglasDeRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sys := f.seedUser(t, "sys", "root", entity.RoleSystemAdmin)
	admin := f.seedUser(t, "adm", "ana", entity.RoleAdmin)
	staff := f.seedUser(t, "stf", "luis", entity.RoleStaff)

	_, err := f.uc.RegisterUser(ctx, staff, dto.RegisterRequest{Username: "x", Password: "password123", Role: "staff"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "staff no registra usuarios")

	_, err = f.uc.RegisterUser(ctx, admin, dto.RegisterRequest{Username: "x", Password: "password123", Role: "systemAdmin"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "admin no crea systemAdmin")

	u, err := f.uc.RegisterUser(ctx, admin, dto.RegisterRequest{Username: "nuevo", Password: "password123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	u, err = f.uc.RegisterUser(ctx, sys, dto.RegisterRequest{Username: "otro-root", Password: "password123", Role: "systemAdmin"})
	require.NoError(t, err)
	assert.Equal(t, "systemAdmin", u.Role)

	res, err := f.uc.Login(ctx, dto.LoginRequest{Username: "nuevo", Password: "password123"})
	require.NoError(t, err, "el usuario registrado puede iniciar sesión")
	assert.Equal(t, "nuevo", res.User.Username)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.seedUser(t, "adm", "ana", entity.RoleAdmin)

	cases := []struct {
		name string
		in   dto.RegisterRequest
		want error
	}{
		{"sin username", dto.RegisterRequest{Username: "  ", Password: "password123", Role: "staff"}, domain.ErrInvalidInput},
		{"password corta", dto.RegisterRequest{Username: "b", Password: "corta", Role: "staff"}, domain.ErrInvalidInput},
		{"rol desconocido", dto.RegisterRequest{Username: "b", Password: "password123", Role: "root"}, domain.ErrInvalidInput},
		{"username repetido", dto.RegisterRequest{Username: "ana", Password: "password123", Role: "staff"}, domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterUser(ctx, admin, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.seedUser(t, "adm", "carla", entity.RoleAdmin)
	staff := f.seedUser(t, "stf", "beto", entity.RoleStaff)
	f.seedUser(t, "sys", "ana", entity.RoleSystemAdmin)

	list, err := f.uc.ListUsers(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"ana", "beto", "carla"}, []string{list[0].Username, list[1].Username, list[2].Username})

	_, err = f.uc.ListUsers(ctx, staff)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sys := f.seedUser(t, "sys", "root", entity.RoleSystemAdmin)
	admin := f.seedUser(t, "adm", "ana", entity.RoleAdmin)
	f.seedUser(t, "stf", "luis", entity.RoleStaff)

	err := f.uc.DeleteUser(ctx, admin, admin.ID)
	assert.ErrorIs(t, err, domain.ErrSelfDeletion)
	u, _ := f.store.Users().GetByID(ctx, admin.ID)
	assert.NotNil(t, u, "no se elimina nada")

	assert.ErrorIs(t, f.uc.DeleteUser(ctx, admin, sys.ID), domain.ErrForbidden, "admin no elimina systemAdmin")
	assert.ErrorIs(t, f.uc.DeleteUser(ctx, admin, "no-existe"), domain.ErrNotFound)

	require.NoError(t, f.uc.DeleteUser(ctx, admin, "stf"))
	u, _ = f.store.Users().GetByID(ctx, "stf")
	assert.Nil(t, u)

	require.NoError(t, f.uc.DeleteUser(ctx, sys, admin.ID), "systemAdmin puede eliminar admin")
}
