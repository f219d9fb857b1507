package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/aleman-inventario/internal/application/auth"
	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo         repository.UserRepository
	sessionRepo  repository.SessionRepository
	locationRepo repository.LocationRepository
	log          *logger.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(
	repo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	locationRepo repository.LocationRepository,
	log *logger.Logger,
) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, sessionRepo: sessionRepo, locationRepo: locationRepo, log: log}
}

// Upsert crea o actualiza por login. Al actualizar se cierran las sesiones abiertas del usuario
// para que roles, local y clave nuevos apliquen desde el próximo login.
func (uc *UserUseCase) Upsert(ctx context.Context, in dto.UpsertUserRequest) (*dto.UserResponse, bool, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || strings.ContainsAny(login, " \t") {
		return nil, false, domain.NewValidationError("login", "requerido y sin espacios")
	}
	if err := validateRoles(in.Roles); err != nil {
		return nil, false, err
	}
	// staff opera solo en su local.
	if slices.Contains(in.Roles, entity.RoleStaff) && !slices.Contains(in.Roles, entity.RoleAdmin) && in.LocationID == "" {
		return nil, false, domain.NewValidationError("location_id", "requerido para staff")
	}
	status := in.Status
	if status == "" {
		status = entity.UserStatusActive
	}
	if status != entity.UserStatusActive && status != entity.UserStatusInactive {
		return nil, false, domain.NewValidationError("status", "debe ser active o inactive")
	}
	if in.LocationID != "" {
		loc, err := uc.locationRepo.GetByID(ctx, in.LocationID)
		if err != nil {
			return nil, false, err
		}
		if loc == nil {
			return nil, false, domain.NewValidationError("location_id", "local inexistente")
		}
	}
	if in.Password != "" && len(in.Password) < auth.MinPasswordLength {
		return nil, false, domain.NewValidationError("password", "demasiado corta")
	}

	existing, err := uc.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	if existing == nil {
		if in.Password == "" {
			return nil, false, domain.NewValidationError("password", "requerida para un usuario nuevo")
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, false, err
		}
		user := &entity.User{
			ID:           uuid.New().String(),
			Login:        login,
			Name:         orDefault(in.Name, login),
			PasswordHash: hash,
			Roles:        in.Roles,
			LocationID:   in.LocationID,
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.repo.Create(ctx, user); err != nil {
			return nil, false, err
		}
		uc.log.Info().Str("login", login).Strs("roles", user.Roles).Msg("usuario creado")
		return toUserResponse(user), true, nil
	}

	if strings.TrimSpace(in.Name) != "" {
		existing.Name = strings.TrimSpace(in.Name)
	}
	if in.Password != "" {
		if existing.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return nil, false, err
		}
	}
	existing.Roles = in.Roles
	existing.LocationID = in.LocationID
	existing.Status = status
	existing.UpdatedAt = now
	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	if err := uc.sessionRepo.DeleteByUser(ctx, existing.ID); err != nil {
		return nil, false, err
	}
	uc.log.Info().Str("login", login).Strs("roles", existing.Roles).Msg("usuario actualizado")
	return toUserResponse(existing), false, nil
}

// List lista todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	if locs, err := uc.locationRepo.List(ctx); err == nil {
		for _, l := range locs {
			names[l.ID] = l.Name
		}
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		resp := toUserResponse(u)
		resp.LocationName = names[u.LocationID]
		out = append(out, *resp)
	}
	return out, nil
}

// Delete elimina un usuario por login. Un admin no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, sess *entity.Session, login string) error {
	if login == sess.Login {
		return domain.NewValidationError("login", "no puede eliminar su propio usuario")
	}
	if err := uc.repo.DeleteByLogin(ctx, login); err != nil {
		return err
	}
	uc.log.Info().Str("login", login).Str("by", sess.Login).Msg("usuario eliminado")
	return nil
}

func validateRoles(roles []string) error {
	if len(roles) == 0 {
		return domain.NewValidationError("roles", "al menos un rol")
	}
	for _, r := range roles {
		if !slices.Contains(entity.KnownRoles, r) {
			return domain.NewValidationError("roles", "rol desconocido: "+r)
		}
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Login:      u.Login,
		Name:       u.Name,
		Roles:      u.Roles,
		LocationID: u.LocationID,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
