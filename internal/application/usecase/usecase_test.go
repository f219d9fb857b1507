package usecase_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestProductUseCase_CreateDeducePack(t *testing.T) {
	uc := usecase.NewProductUseCase(sqlite.NewProductRepository(openDB(t)))
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: " Bebida ", Format: "Pack 24"})
	require.NoError(t, err)
	assert.Equal(t, "Bebida", p.Name)
	assert.Equal(t, 24, p.PackSize)
	assert.Equal(t, "unidades", p.BaseUnit)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Bebida"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "BEBIDA"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el nombre no distingue mayúsculas")

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUseCase_UpdateRecalculaFactor(t *testing.T) {
	uc := usecase.NewProductUseCase(sqlite.NewProductRepository(openDB(t)))
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Leche", Format: "Pack 6", BaseUnit: "cc"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Format: strPtr("Caja 12")})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.PackSize)

	updated, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Format: strPtr("Caja 12 x 2"), PackSize: intPtr(24)})
	require.NoError(t, err)
	assert.Equal(t, 24, updated.PackSize)
	assert.Equal(t, "cc", updated.BaseUnit)

	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{PackSize: intPtr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	none, err := uc.Update(ctx, uuid.New().String(), dto.UpdateProductRequest{Name: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, none)

	list, err := uc.List(ctx, "lec", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Leche", list.Items[0].Name)
}

func TestLocationUseCase_EnsureEsIdempotente(t *testing.T) {
	uc := usecase.NewLocationUseCase(sqlite.NewLocationRepository(openDB(t)))
	ctx := context.Background()

	first, created, err := uc.Ensure(ctx, "Providencia")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := uc.Ensure(ctx, " Providencia ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = uc.Ensure(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_Upsert(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	locRepo := sqlite.NewLocationRepository(db)
	sessRepo := sqlite.NewSessionRepository(db)
	uc := usecase.NewUserUseCase(sqlite.NewUserRepository(db), sessRepo, locRepo, nil)

	loc := &entity.Location{ID: uuid.New().String(), Name: "Ñuñoa", CreatedAt: time.Now()}
	require.NoError(t, locRepo.Create(ctx, loc))

	u, created, err := uc.Upsert(ctx, dto.UpsertUserRequest{
		Login: "carla", Password: "secreto1", Roles: []string{entity.RoleStaff}, LocationID: loc.ID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.UserStatusActive, u.Status)

	sess := &entity.Session{
		ID: uuid.New().String(), UserID: u.ID, Login: "carla", Roles: u.Roles,
		LocationID: loc.ID, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessRepo.Create(ctx, sess))

	u, created, err = uc.Upsert(ctx, dto.UpsertUserRequest{
		Login: "carla", Roles: []string{entity.RoleStaff, entity.RoleReportes}, LocationID: loc.ID,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, u.Roles, 2)

	stored, err := sessRepo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, stored, "actualizar un usuario cierra sus sesiones")

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ñuñoa", list[0].LocationName)
}

func TestUserUseCase_UpsertValidaciones(t *testing.T) {
	db := openDB(t)
	uc := usecase.NewUserUseCase(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), sqlite.NewLocationRepository(db), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.UpsertUserRequest
	}{
		{"sin login", dto.UpsertUserRequest{Password: "secreto1", Roles: []string{entity.RoleStaff}}},
		{"login con espacios", dto.UpsertUserRequest{Login: "a b", Password: "secreto1", Roles: []string{entity.RoleStaff}}},
		{"rol desconocido", dto.UpsertUserRequest{Login: "x", Password: "secreto1", Roles: []string{"root"}}},
		{"sin roles", dto.UpsertUserRequest{Login: "x", Password: "secreto1"}},
		{"clave corta", dto.UpsertUserRequest{Login: "x", Password: "123", Roles: []string{entity.RoleStaff}}},
		{"nuevo sin clave", dto.UpsertUserRequest{Login: "x", Roles: []string{entity.RoleStaff}}},
		{"estado inválido", dto.UpsertUserRequest{Login: "x", Password: "secreto1", Roles: []string{entity.RoleStaff}, Status: "borrado"}},
		{"staff sin local", dto.UpsertUserRequest{Login: "x", Password: "secreto1", Roles: []string{entity.RoleStaff}}},
		{"local inexistente", dto.UpsertUserRequest{Login: "x", Password: "secreto1", Roles: []string{entity.RoleStaff}, LocationID: uuid.New().String()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := uc.Upsert(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUserUseCase_Delete(t *testing.T) {
	db := openDB(t)
	uc := usecase.NewUserUseCase(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), sqlite.NewLocationRepository(db), nil)
	ctx := context.Background()

	_, _, err := uc.Upsert(ctx, dto.UpsertUserRequest{Login: "temporal", Password: "secreto1", Roles: []string{entity.RoleReportes}})
	require.NoError(t, err)

	admin := &entity.Session{Login: "admin", Roles: []string{entity.RoleAdmin}}
	assert.ErrorIs(t, uc.Delete(ctx, admin, "admin"), domain.ErrInvalidInput)
	require.NoError(t, uc.Delete(ctx, admin, "temporal"))
	assert.ErrorIs(t, uc.Delete(ctx, admin, "temporal"), domain.ErrUserNotFound)
}
