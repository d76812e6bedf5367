package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/internal/garage/domain"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMotoRepository_CreateAndGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMotoRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO motos`).
		WithArgs(sqlmock.AnyArg(), "rider-1", "Yamaha", "YZ250F", 2022, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	m := &domain.Moto{OwnerUID: "rider-1", Brand: "Yamaha", Model: "YZ250F", Year: 2022}
	require.NoError(t, repo.Create(ctx, m))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, now, m.CreatedAt)

	mock.ExpectQuery(`SELECT (.+) FROM motos WHERE id = \$1`).
		WithArgs(m.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_uid", "brand", "model", "year", "nickname", "created_at", "updated_at"}).
			AddRow(m.ID, "rider-1", "Yamaha", "YZ250F", nil, "Bleue", now, now))

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Year)
	require.NotNil(t, got.Nickname)
	assert.Equal(t, "Bleue", *got.Nickname)

	mock.ExpectQuery(`SELECT (.+) FROM motos`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMotoRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMotoRepository(db)

	mock.ExpectExec(`DELETE FROM motos WHERE id = \$1`).
		WithArgs("m-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "m-1"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

var kitRowColumns = []string{"id", "moto_id", "owner_uid", "name", "fork_model", "shock_model", "ranges", "base_settings", "created_at", "updated_at"}

func TestKitRepository_ScanDecodesJSON(t *testing.T) {
	db, mock := newMock(t)
	repo := NewKitRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM kits WHERE id = \$1`).
		WithArgs("k-1").
		WillReturnRows(sqlmock.NewRows(kitRowColumns).AddRow(
			"k-1", "m-1", "rider-1", "WP XACT", nil, "WP", nil,
			[]byte(`{"fork_compression":14}`), now, now))

	k, err := repo.Get(context.Background(), "k-1")
	require.NoError(t, err)
	assert.Equal(t, susp.DefaultRanges, k.Ranges)
	assert.Equal(t, "WP", k.ShockModel)
	require.NotNil(t, k.BaseSettings.ForkCompression)
	assert.Equal(t, 14, *k.BaseSettings.ForkCompression)
	assert.Nil(t, k.BaseSettings.ForkRebound)
	assert.Equal(t, 10, k.EffectiveBase().ForkRebound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKitRepository_CreateNormalizesRanges(t *testing.T) {
	db, mock := newMock(t)
	repo := NewKitRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO kits`).
		WithArgs(sqlmock.AnyArg(), "m-1", "rider-1", "Stock", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	k := &domain.Kit{MotoID: "m-1", OwnerUID: "rider-1", Name: "Stock"}
	require.NoError(t, repo.Create(context.Background(), k))
	assert.Equal(t, susp.NewRanges(1, 1, 1, 1, 1), k.Ranges)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKitRepository_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewKitRepository(db)

	mock.ExpectQuery(`UPDATE kits`).WillReturnError(sql.ErrNoRows)

	err := repo.UpdateSettings(context.Background(), &domain.Kit{ID: "k-9", Name: "x", Ranges: susp.DefaultRanges})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

var configRowColumns = []string{"id", "kit_id", "owner_uid", "name", "terrain", "notes", "settings", "is_public", "created_at", "updated_at"}

func TestConfigRepository_ListPublicBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConfigRepository(db)
	now := time.Now()

	t.Run("owners terrain and name sort", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs WHERE is_public = TRUE AND owner_uid = ANY\(\$1\) AND terrain = \$2 ORDER BY name ASC, created_at DESC LIMIT \$3`).
			WithArgs(sqlmock.AnyArg(), "sand", 10).
			WillReturnRows(sqlmock.NewRows(configRowColumns).
				AddRow("c-1", "k-1", "rider-2", "Sable", "sand", nil, []byte(`{"shock_rebound":8}`), true, now, now))

		items, err := repo.ListPublic(context.Background(), domain.PublicQuery{
			OwnerUIDs: []string{"rider-2", "rider-3"},
			Terrain:   "sand",
			Sort:      domain.SortName,
			Limit:     10,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "", items[0].Notes)
		require.NotNil(t, items[0].Settings.ShockRebound)
		assert.Equal(t, 8, *items[0].Settings.ShockRebound)
	})

	t.Run("defaults", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs WHERE is_public = TRUE ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(domain.MaxListLimit).
			WillReturnRows(sqlmock.NewRows(configRowColumns))

		items, err := repo.ListPublic(context.Background(), domain.PublicQuery{Limit: 5000})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_SetVisibility(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConfigRepository(db)

	mock.ExpectExec(`UPDATE configs SET is_public = \$2`).
		WithArgs("c-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE configs SET is_public = \$2`).
		WithArgs("c-2", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetVisibility(context.Background(), "c-1", true))
	assert.ErrorIs(t, repo.SetVisibility(context.Background(), "c-2", false), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
