package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/settings"
	"github.com/sveduch/sveduch/storage/database/sqlite"
	"github.com/sveduch/sveduch/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(sqliterepos.NewSettingsRepository(testutil.PrepareDB(t)))

	t.Run("defaults", func(t *testing.T) {
		theme, err := svc.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.ThemeLight, theme)

		size, err := svc.FontSize(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.DefaultFontSize, size)

		_, ok, err := svc.Get(ctx, settings.KeyWindowState)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "dark theme", key: settings.KeyTheme, value: " Тёмная "},
		{name: "unknown theme", key: settings.KeyTheme, value: "Синяя", wantErr: true},
		{name: "font size", key: settings.KeyFontSize, value: "14"},
		{name: "font too small", key: settings.KeyFontSize, value: "7", wantErr: true},
		{name: "font too big", key: settings.KeyFontSize, value: "25", wantErr: true},
		{name: "font not a number", key: settings.KeyFontSize, value: "big", wantErr: true},
		{name: "window geometry", key: settings.KeyWindowGeometry, value: "AdnQywADAAAAAAFf"},
		{name: "blank key", key: " ", value: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(ctx, tt.key, tt.value)
			if tt.wantErr {
				assert.True(t, core.IsValidation(err), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("stored values", func(t *testing.T) {
		theme, err := svc.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.ThemeDark, theme)

		size, err := svc.FontSize(ctx)
		require.NoError(t, err)
		assert.Equal(t, 14, size)

		all, err := svc.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
