package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/pkg/jwt"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login, logout y resolución de sesiones de servidor.
// El token del cliente solo lleva el ID de sesión; roles y local se leen del almacenamiento.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	locationRepo repository.LocationRepository
	signer       jwt.Signer
	log          *logger.Logger
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	locationRepo repository.LocationRepository,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	signer := jwt.Signer{
		Secret: jwtCfg.Secret,
		Issuer: jwtCfg.Issuer,
		TTL:    time.Duration(jwtCfg.ExpMinutes) * time.Minute,
	}
	return &AuthUseCase{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		locationRepo: locationRepo,
		signer:       signer,
		log:          log,
		now:          time.Now,
	}
}

// Login verifica login/password (login exacto, sensible a mayúsculas), abre una sesión y
// devuelve su token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Login == "" || in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByLogin(ctx, in.Login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Warn().Str("login", in.Login).Msg("login: usuario inexistente")
		return nil, domain.ErrUserNotFound
	}
	ok, err := CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.log.Warn().Str("login", in.Login).Msg("login: clave incorrecta")
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	sess := &entity.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Login:      user.Login,
		Name:       user.Name,
		Roles:      user.Roles,
		LocationID: user.LocationID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(uc.signer.TTL),
	}
	if err := uc.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	token, err := uc.signer.Sign(sess.ID, user.ID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("login", user.Login).Str("session_id", sess.ID).Msg("sesión abierta")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Session:   uc.describe(ctx, sess),
	}, nil
}

// ResolveSession valida el token y carga la sesión guardada.
// Token inválido -> ErrUnauthorized; sesión cerrada o vencida -> ErrSessionExpired.
func (uc *AuthUseCase) ResolveSession(ctx context.Context, token string) (*entity.Session, error) {
	sessionID, err := uc.signer.SessionID(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	sess, err := uc.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionExpired
	}
	if sess.Expired(uc.now()) {
		_ = uc.sessionRepo.Delete(ctx, sess.ID)
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

// Logout cierra la sesión; el token deja de servir aunque no haya vencido.
func (uc *AuthUseCase) Logout(ctx context.Context, sess *entity.Session) error {
	if err := uc.sessionRepo.Delete(ctx, sess.ID); err != nil {
		return err
	}
	uc.log.Info().Str("login", sess.Login).Str("session_id", sess.ID).Msg("sesión cerrada")
	return nil
}

// Me describe la sesión actual.
func (uc *AuthUseCase) Me(ctx context.Context, sess *entity.Session) dto.SessionResponse {
	return uc.describe(ctx, sess)
}

// SwitchLocation cambia el local activo de la sesión (solo admin).
func (uc *AuthUseCase) SwitchLocation(ctx context.Context, sess *entity.Session, locationID string) (*dto.SessionResponse, error) {
	if !sess.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if len(sess.Cart) > 0 && sess.LocationID != locationID {
		return nil, domain.NewValidationError("location_id", "finalice o cancele el carro antes de cambiar de local")
	}
	sess.LocationID = loc.ID
	if err := uc.sessionRepo.Save(ctx, sess); err != nil {
		return nil, err
	}
	out := uc.describe(ctx, sess)
	return &out, nil
}

// EnsureAdmin aprovisiona la cuenta administrativa inicial con clave hasheada si el login no existe.
// Devuelve true si la creó.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, login, password, name string) (bool, error) {
	if login == "" || password == "" {
		return false, nil
	}
	existing, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = login
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Login:        login,
		Name:         name,
		PasswordHash: hash,
		Roles:        []string{entity.RoleAdmin},
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	uc.log.Info().Str("login", login).Msg("administrador inicial creado")
	return true, nil
}

func (uc *AuthUseCase) describe(ctx context.Context, sess *entity.Session) dto.SessionResponse {
	out := dto.SessionResponse{
		UserID:     sess.UserID,
		Login:      sess.Login,
		Name:       sess.Name,
		Roles:      sess.Roles,
		LocationID: sess.LocationID,
		CartItems:  len(sess.Cart),
		ExpiresAt:  sess.ExpiresAt,
	}
	if sess.LocationID != "" {
		if loc, err := uc.locationRepo.GetByID(ctx, sess.LocationID); err == nil && loc != nil {
			out.LocationName = loc.Name
		}
	}
	return out
}
