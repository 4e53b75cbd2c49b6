//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/testhelpers"
)

func TestServiceCredentialRepository_GetActive(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	testhelpers.TruncateTables(t, engineDB.DB, "engine_service_credentials")

	ctx := context.Background()
	repo := NewServiceCredentialRepository(engineDB.DB)

	_, err := repo.GetActive(ctx, models.ServiceVideo, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	old := &models.ServiceCredential{
		Service:      models.ServiceVideo,
		EncryptedKey: "aa:bb:old",
		Active:       true,
	}
	require.NoError(t, repo.Insert(ctx, old))

	// Ensure distinct timestamps for the ordering check.
	time.Sleep(10 * time.Millisecond)

	newer := &models.ServiceCredential{
		Service:      models.ServiceVideo,
		EncryptedKey: "aa:bb:new",
		Active:       true,
	}
	require.NoError(t, repo.Insert(ctx, newer))

	got, err := repo.GetActive(ctx, models.ServiceVideo, "")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:new", got.EncryptedKey, "newest active row wins")
}

func TestServiceCredentialRepository_Deactivate(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	testhelpers.TruncateTables(t, engineDB.DB, "engine_service_credentials")

	ctx := context.Background()
	repo := NewServiceCredentialRepository(engineDB.DB)

	require.NoError(t, repo.Insert(ctx, &models.ServiceCredential{
		Service:      models.ServiceRecipe,
		EncryptedKey: "aa:bb:cc",
		Active:       true,
	}))

	count, err := repo.Deactivate(ctx, models.ServiceRecipe, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.GetActive(ctx, models.ServiceRecipe, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestServiceCredentialRepository_List(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	testhelpers.TruncateTables(t, engineDB.DB, "engine_service_credentials")

	ctx := context.Background()
	repo := NewServiceCredentialRepository(engineDB.DB)

	require.NoError(t, repo.Insert(ctx, &models.ServiceCredential{Service: models.ServiceVideo, EncryptedKey: "a:a:a", Active: true}))
	require.NoError(t, repo.Insert(ctx, &models.ServiceCredential{Service: models.ServiceRecipe, EncryptedKey: "b:b:b", Active: true}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	videos, err := repo.List(ctx, models.ServiceVideo)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, models.ServiceVideo, videos[0].Service)
}
