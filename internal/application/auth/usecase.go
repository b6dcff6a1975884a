package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
	"github.com/jhoicas/jobcards-api/pkg/jwt"
	"github.com/jhoicas/jobcards-api/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña al registrar usuarios.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

func (c JWTConfig) ttl() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// AuthUseCase casos de uso de sesión y cuentas: login, sesión actual, logout y gestión de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionStore
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions repository.SessionStore, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		now:      time.Now,
	}
}

// Login verifica username/password, abre una sesión y firma el token que la identifica.
// Usuario inexistente y contraseña incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Warn().Str("username", username).Msg("login fallido: usuario inexistente")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("username", username).Msg("login fallido: contraseña incorrecta")
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &entity.Session{
		ID:        uuid.New().String(),
		Identity:  user.Identity(),
		CreatedAt: now,
		ExpiresAt: now.Add(uc.jwtCfg.ttl()),
	}
	if err := uc.sessions.Save(ctx, session, uc.jwtCfg.ttl()); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		SessionID: session.ID,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role.String(),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("inicio de sesión")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      *toUserResponse(user),
	}, nil
}

// CurrentSession resuelve el token a la identidad vigente.
// Token inválido, sesión revocada o vencida, o usuario eliminado: ErrUnauthenticated.
// El rol devuelto es el almacenado en el usuario, no el que viaja en el token.
func (uc *AuthUseCase) CurrentSession(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	session, err := uc.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(uc.now()) {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.userRepo.GetByID(ctx, session.Identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		uc.log.Info().Str("user_id", session.Identity.ID).Msg("sesión descartada: usuario eliminado")
		return nil, domain.ErrUnauthenticated
	}
	id := user.Identity()
	return &id, nil
}

// Logout revoca la sesión del token. Es idempotente: token vacío, malformado o ya revocado no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil
	}
	if err := uc.sessions.Delete(ctx, claims.SessionID()); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", claims.UserID).Msg("cierre de sesión")
	return nil
}

// RegisterUser crea una cuenta. admin puede crear staff y admin; systemAdmin cualquier rol.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, actor entity.Identity, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !canManageUsers(actor) {
		return nil, domain.ErrForbidden
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username es requerido", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if !canManageRole(actor, role) {
		return nil, fmt.Errorf("%w: solo systemAdmin puede crear cuentas systemAdmin", domain.ErrForbidden)
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el usuario %q ya existe", domain.ErrDuplicate, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor_id", actor.ID).Str("user_id", user.ID).Str("role", role.String()).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// ListUsers lista las cuentas ordenadas por username.
func (uc *AuthUseCase) ListUsers(ctx context.Context, actor entity.Identity) ([]dto.UserResponse, error) {
	if !canManageUsers(actor) {
		return nil, domain.ErrForbidden
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// DeleteUser elimina una cuenta. Nadie puede eliminar su propia cuenta (ErrSelfDeletion)
// y solo systemAdmin puede eliminar cuentas systemAdmin.
func (uc *AuthUseCase) DeleteUser(ctx context.Context, actor entity.Identity, id string) error {
	if !canManageUsers(actor) {
		return domain.ErrForbidden
	}
	if id == actor.ID {
		return domain.ErrSelfDeletion
	}
	target, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrNotFound
	}
	if !canManageRole(actor, target.Role) {
		return fmt.Errorf("%w: solo systemAdmin puede eliminar cuentas systemAdmin", domain.ErrForbidden)
	}
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	uc.log.Info().Str("actor_id", actor.ID).Str("user_id", id).Msg("usuario eliminado")
	return nil
}

func canManageUsers(actor entity.Identity) bool {
	return actor.Role == entity.RoleAdmin || actor.Role == entity.RoleSystemAdmin
}

func canManageRole(actor entity.Identity, target entity.Role) bool {
	if target == entity.RoleSystemAdmin {
		return actor.Role == entity.RoleSystemAdmin
	}
	return canManageUsers(actor)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}
