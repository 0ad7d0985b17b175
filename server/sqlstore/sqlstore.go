// Package sqlstore persists retention policies and server-wide settings.
package sqlstore

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/melodelete/autodelete/server/bot"
)

// SQLStore wraps the database handle with a placeholder-aware query builder.
type SQLStore struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
	log     bot.Logger
}

func New(db *sqlx.DB, log bot.Logger) (*SQLStore, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if db.DriverName() == "postgres" {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}

	store := &SQLStore{
		db:      db,
		builder: builder,
		log:     log,
	}

	if err := store.migrate(); err != nil {
		return nil, errors.Wrap(err, "failed to run sqlstore migrations")
	}
	return store, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS autodelete_channels (
		channel_id     BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		time_threshold INT NULL,
		max_messages   INT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS autodelete_settings (
		id              TINYINT NOT NULL PRIMARY KEY,
		bulk_delete_min INT NOT NULL,
		scan_interval   INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS autodelete_roles (
		role VARCHAR(191) NOT NULL PRIMARY KEY
	)`,
}

func (s *SQLStore) migrate() error {
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "migration failed: %.40s", stmt)
		}
	}
	return s.seedDefaults()
}

// seedDefaults writes the server-wide defaults the first time the settings
// row is missing: bulk_delete_min 100, scan_interval 2 minutes.
func (s *SQLStore) seedDefaults() error {
	var count int
	if err := s.getBuilder(&count, s.builder.Select("COUNT(*)").From("autodelete_settings").Where(sq.Eq{"id": settingsRowID})); err != nil {
		return errors.Wrap(err, "failed to count settings rows")
	}
	if count != 0 {
		return nil
	}

	_, err := s.execBuilder(s.builder.
		Insert("autodelete_settings").
		Columns("id", "bulk_delete_min", "scan_interval").
		Values(settingsRowID, defaultBulkDeleteMin, defaultScanInterval))
	if err != nil {
		return errors.Wrap(err, "failed to seed default settings")
	}

	s.log.Infof("seeded default settings: bulk_delete_min=%d scan_interval=%d", defaultBulkDeleteMin, defaultScanInterval)
	return nil
}

func (s *SQLStore) execBuilder(b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}
	return s.db.Exec(query, args...)
}

func (s *SQLStore) selectBuilder(dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}
	return s.db.Select(dest, query, args...)
}

func (s *SQLStore) getBuilder(dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}
	return s.db.Get(dest, query, args...)
}
