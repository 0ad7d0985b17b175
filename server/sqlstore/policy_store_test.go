package sqlstore_test

import (
	"io"
	"log"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodelete/autodelete/server/bot"
	"github.com/melodelete/autodelete/server/sqlstore"
)

func quietLogger() bot.Logger {
	return bot.NewLogger(log.New(io.Discard, "", 0), false)
}

// expectMigrations queues the schema statements every SQLStore runs at
// startup. settingsCount controls whether the defaults get seeded.
func expectMigrations(mock sqlmock.Sqlmock, settingsCount int) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS autodelete_channels").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS autodelete_settings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS autodelete_roles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM autodelete_settings WHERE id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(settingsCount))
}

func newStoreEnv(t *testing.T) (*sqlstore.PolicyStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	expectMigrations(mock, 1)

	store, err := sqlstore.New(sqlx.NewDb(db, "sqlmock"), quietLogger())
	require.NoError(t, err)

	return sqlstore.NewPolicyStore(store), mock
}

func TestNewSeedsDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	expectMigrations(mock, 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO autodelete_settings (id,bulk_delete_min,scan_interval) VALUES (?,?,?)")).
		WithArgs(1, 100, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err = sqlstore.New(sqlx.NewDb(db, "sqlmock"), quietLogger())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannels(t *testing.T) {
	store, mock := newStoreEnv(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT channel_id FROM autodelete_channels ORDER BY channel_id")).
		WillReturnRows(sqlmock.NewRows([]string{"channel_id"}).AddRow(7).AddRow(42))

	ids, err := store.Channels()
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 42}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelPolicy(t *testing.T) {
	t.Run("both columns set", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT time_threshold, max_messages FROM autodelete_channels WHERE channel_id = ?")).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"time_threshold", "max_messages"}).AddRow(120, 50))

		policy, err := store.ChannelPolicy(42)
		require.NoError(t, err)
		require.NotNil(t, policy)
		require.NotNil(t, policy.TimeThreshold)
		require.NotNil(t, policy.MaxMessages)
		assert.Equal(t, 120, *policy.TimeThreshold)
		assert.Equal(t, 50, *policy.MaxMessages)
	})

	t.Run("null columns stay unset", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT time_threshold, max_messages FROM autodelete_channels WHERE channel_id = ?")).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"time_threshold", "max_messages"}).AddRow(nil, 50))

		policy, err := store.ChannelPolicy(42)
		require.NoError(t, err)
		require.NotNil(t, policy)
		assert.Nil(t, policy.TimeThreshold)
		require.NotNil(t, policy.MaxMessages)
		assert.Equal(t, 50, *policy.MaxMessages)
	})

	t.Run("unconfigured channel yields no policy and no error", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT time_threshold, max_messages FROM autodelete_channels WHERE channel_id = ?")).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"time_threshold", "max_messages"}))

		policy, err := store.ChannelPolicy(42)
		require.NoError(t, err)
		assert.Nil(t, policy)
	})
}

func TestSetChannel(t *testing.T) {
	store, mock := newStoreEnv(t)

	threshold := 120
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM autodelete_channels WHERE channel_id = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO autodelete_channels (channel_id,time_threshold,max_messages) VALUES (?,?,?)")).
		WithArgs(uint64(42), 120, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.SetChannel(42, &threshold, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearChannel(t *testing.T) {
	store, mock := newStoreEnv(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM autodelete_channels WHERE channel_id = ?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.ClearChannel(42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings(t *testing.T) {
	store, mock := newStoreEnv(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT bulk_delete_min FROM autodelete_settings WHERE id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"bulk_delete_min"}).AddRow(100))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE autodelete_settings SET scan_interval = ? WHERE id = ?")).
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	min, err := store.BulkDeleteMin()
	require.NoError(t, err)
	assert.Equal(t, 100, min)

	require.NoError(t, store.SetScanInterval(5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowedRoles(t *testing.T) {
	t.Run("add skips an existing role", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM autodelete_roles ORDER BY role")).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("Moderators"))

		require.NoError(t, store.AddAllowedRole("Moderators"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add inserts a new role", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM autodelete_roles ORDER BY role")).
			WillReturnRows(sqlmock.NewRows([]string{"role"}))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO autodelete_roles (role) VALUES (?)")).
			WithArgs("Moderators").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, store.AddAllowedRole("Moderators"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove deletes the row", func(t *testing.T) {
		store, mock := newStoreEnv(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM autodelete_roles WHERE role = ?")).
			WithArgs("Moderators").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.RemoveAllowedRole("Moderators"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
