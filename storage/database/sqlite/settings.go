package sqliterepos

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/settings"
)

type settingsRepository struct {
	baseRepo
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(exec core.DBExecutor) *settingsRepository {
	return &settingsRepository{baseRepo{exec: exec}}
}

func (repo settingsRepository) GetSetting(ctx context.Context, key string, exec ...core.DBExecutor) (settings.Setting, error) {
	var s settings.Setting
	err := repo.getExec(exec).GetContext(ctx, &s, `SELECT key, COALESCE(value, '') AS value FROM settings WHERE key = ?`, key)
	if err != nil {
		return settings.Setting{}, trapErr(err, "finding setting", settings.ErrNotFound, nil)
	}
	return s, nil
}

func (repo settingsRepository) SetSetting(ctx context.Context, s settings.Setting, exec ...core.DBExecutor) (settings.Setting, error) {
	var saved settings.Setting
	err := repo.getExec(exec).GetContext(ctx, &saved, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
		RETURNING key, COALESCE(value, '') AS value`, s.Key, s.Value)
	if err != nil {
		return settings.Setting{}, trapErr(err, "saving setting", nil, nil)
	}
	return saved, nil
}

func (repo settingsRepository) QuerySettings(ctx context.Context, exec ...core.DBExecutor) ([]settings.Setting, error) {
	all := make([]settings.Setting, 0)
	err := repo.getExec(exec).SelectContext(ctx, &all, `SELECT key, COALESCE(value, '') AS value FROM settings ORDER BY key`)
	if err != nil {
		return nil, trapErr(err, "querying settings", nil, nil)
	}
	return all, nil
}
