package sqlstore

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/melodelete/autodelete/server/app"
)

const (
	settingsRowID        = 1
	defaultBulkDeleteMin = 100
	defaultScanInterval  = 2
)

// PolicyStore is the SQL implementation of app.PolicyStore.
type PolicyStore struct {
	store *SQLStore
}

func NewPolicyStore(store *SQLStore) *PolicyStore {
	return &PolicyStore{store: store}
}

var _ app.PolicyStore = (*PolicyStore)(nil)

func (ps *PolicyStore) Channels() ([]uint64, error) {
	ids := []uint64{}
	err := ps.store.selectBuilder(&ids, ps.store.builder.
		Select("channel_id").
		From("autodelete_channels").
		OrderBy("channel_id"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to select configured channels")
	}
	return ids, nil
}

func (ps *PolicyStore) ChannelPolicy(id uint64) (*app.ChannelPolicy, error) {
	var row struct {
		TimeThreshold sql.NullInt64 `db:"time_threshold"`
		MaxMessages   sql.NullInt64 `db:"max_messages"`
	}

	err := ps.store.getBuilder(&row, ps.store.builder.
		Select("time_threshold", "max_messages").
		From("autodelete_channels").
		Where(sq.Eq{"channel_id": id}))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select policy for channel %d", id)
	}

	policy := &app.ChannelPolicy{}
	if row.TimeThreshold.Valid {
		v := int(row.TimeThreshold.Int64)
		policy.TimeThreshold = &v
	}
	if row.MaxMessages.Valid {
		v := int(row.MaxMessages.Int64)
		policy.MaxMessages = &v
	}
	return policy, nil
}

func (ps *PolicyStore) SetChannel(id uint64, timeThreshold, maxMessages *int) error {
	if _, err := ps.store.execBuilder(ps.store.builder.
		Delete("autodelete_channels").
		Where(sq.Eq{"channel_id": id})); err != nil {
		return errors.Wrapf(err, "failed to reset policy for channel %d", id)
	}

	_, err := ps.store.execBuilder(ps.store.builder.
		Insert("autodelete_channels").
		Columns("channel_id", "time_threshold", "max_messages").
		Values(id, nullableInt(timeThreshold), nullableInt(maxMessages)))
	if err != nil {
		return errors.Wrapf(err, "failed to set policy for channel %d", id)
	}
	return nil
}

func (ps *PolicyStore) ClearChannel(id uint64) error {
	_, err := ps.store.execBuilder(ps.store.builder.
		Delete("autodelete_channels").
		Where(sq.Eq{"channel_id": id}))
	if err != nil {
		return errors.Wrapf(err, "failed to clear policy for channel %d", id)
	}
	return nil
}

func (ps *PolicyStore) BulkDeleteMin() (int, error) {
	return ps.getSetting("bulk_delete_min")
}

func (ps *PolicyStore) SetBulkDeleteMin(min int) error {
	return ps.setSetting("bulk_delete_min", min)
}

func (ps *PolicyStore) ScanInterval() (int, error) {
	return ps.getSetting("scan_interval")
}

func (ps *PolicyStore) SetScanInterval(minutes int) error {
	return ps.setSetting("scan_interval", minutes)
}

func (ps *PolicyStore) getSetting(column string) (int, error) {
	var value int
	err := ps.store.getBuilder(&value, ps.store.builder.
		Select(column).
		From("autodelete_settings").
		Where(sq.Eq{"id": settingsRowID}))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read setting %s", column)
	}
	return value, nil
}

func (ps *PolicyStore) setSetting(column string, value int) error {
	_, err := ps.store.execBuilder(ps.store.builder.
		Update("autodelete_settings").
		Set(column, value).
		Where(sq.Eq{"id": settingsRowID}))
	if err != nil {
		return errors.Wrapf(err, "failed to write setting %s", column)
	}
	return nil
}

func (ps *PolicyStore) AllowedRoles() ([]string, error) {
	roles := []string{}
	err := ps.store.selectBuilder(&roles, ps.store.builder.
		Select("role").
		From("autodelete_roles").
		OrderBy("role"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to select allowed roles")
	}
	return roles, nil
}

func (ps *PolicyStore) AddAllowedRole(role string) error {
	roles, err := ps.AllowedRoles()
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}

	_, err = ps.store.execBuilder(ps.store.builder.
		Insert("autodelete_roles").
		Columns("role").
		Values(role))
	if err != nil {
		return errors.Wrapf(err, "failed to add allowed role %q", role)
	}
	return nil
}

func (ps *PolicyStore) RemoveAllowedRole(role string) error {
	_, err := ps.store.execBuilder(ps.store.builder.
		Delete("autodelete_roles").
		Where(sq.Eq{"role": role}))
	if err != nil {
		return errors.Wrapf(err, "failed to remove allowed role %q", role)
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
