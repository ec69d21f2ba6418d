// Package settings stores application preferences as string key/value pairs.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
)

// Well-known keys.
const (
	KeyTheme          = "theme"
	KeyFontSize       = "font_size"
	KeyWindowGeometry = "window_geometry"
	KeyWindowState    = "window_state"
)

const (
	ThemeLight = "Светлая"
	ThemeDark  = "Тёмная"

	DefaultFontSize = 10
	MinFontSize     = 8
	MaxFontSize     = 24
)

var (
	// errors
	ErrNotFound = errors.New("setting not found")
)

type Setting struct {
	Key   string `db:"key" json:"key" validate:"notblank"`
	Value string `db:"value" json:"value"`
}

type (
	Repository interface {
		GetSetting(ctx context.Context, key string, exec ...core.DBExecutor) (Setting, error)
		// SetSetting inserts or replaces the value stored under key.
		SetSetting(ctx context.Context, s Setting, exec ...core.DBExecutor) (Setting, error)
		// QuerySettings orders by key.
		QuerySettings(ctx context.Context, exec ...core.DBExecutor) ([]Setting, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored value; ok is false when the key was never set.
func (svc *Service) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	s, err := svc.repo.GetSetting(ctx, core.CleanString(key))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return s.Value, true, nil
}

// Set stores value under key. Theme and font size are checked against their
// allowed values; any other key is stored verbatim.
func (svc *Service) Set(ctx context.Context, key, value string) (Setting, error) {
	s := Setting{Key: core.CleanString(key), Value: value}
	if err := core.ValidateStruct(s); err != nil {
		return Setting{}, err
	}
	switch s.Key {
	case KeyTheme:
		s.Value = core.CleanString(s.Value)
		if s.Value != ThemeLight && s.Value != ThemeDark {
			return Setting{}, core.NewFieldValidationError("value",
				fmt.Sprintf("theme must be %q or %q", ThemeLight, ThemeDark))
		}
	case KeyFontSize:
		s.Value = core.CleanString(s.Value)
		if _, ok := parseFontSize(s.Value); !ok {
			return Setting{}, core.NewFieldValidationError("value",
				fmt.Sprintf("font size must be a number between %d and %d", MinFontSize, MaxFontSize))
		}
	}
	return svc.repo.SetSetting(ctx, s)
}

func (svc *Service) All(ctx context.Context) ([]Setting, error) {
	return svc.repo.QuerySettings(ctx)
}

// Theme returns the stored theme, ThemeLight unless ThemeDark was chosen.
func (svc *Service) Theme(ctx context.Context) (string, error) {
	v, _, err := svc.Get(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if v == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

// FontSize returns the stored font size, or DefaultFontSize when unset or out of range.
func (svc *Service) FontSize(ctx context.Context) (int, error) {
	v, _, err := svc.Get(ctx, KeyFontSize)
	if err != nil {
		return 0, err
	}
	if size, ok := parseFontSize(v); ok {
		return size, nil
	}
	return DefaultFontSize, nil
}

func parseFontSize(v string) (int, bool) {
	size, err := strconv.Atoi(v)
	if err != nil || size < MinFontSize || size > MaxFontSize {
		return 0, false
	}
	return size, true
}
