package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandlimart/mandlimart-backend/pkg/db"
	"github.com/mandlimart/mandlimart-backend/pkg/db/sqlitetest"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
)

func TestRepositoryCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(sqlitetest.Open(t))

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Asha@Example.com ",
		PasswordHash: "hash",
		FullName:     " Asha Rao ",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "Asha Rao", user.FullName)
	assert.Equal(t, enums.UserRoleCustomer, user.Role)

	byEmail, err := repo.FindByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(sqlitetest.Open(t))

	_, err := repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", PasswordHash: "h", FullName: "A"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "DUP@example.com", PasswordHash: "h", FullName: "B"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(sqlitetest.Open(t))

	user, err := repo.Create(ctx, CreateUserDTO{Email: "login@example.com", PasswordHash: "h", FullName: "L"})
	require.NoError(t, err)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
}
