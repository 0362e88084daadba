// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hy4ri/monthgrid/internal/annotate"
	"github.com/hy4ri/monthgrid/internal/calendar"
)

const appName = "monthgrid"

// Range modes.
const (
	ModeRelative = "relative"
	ModeExplicit = "explicit"
)

// Config represents the application configuration.
type Config struct {
	Calendar     CalendarConfig     `yaml:"calendar"`
	Presentation PresentationConfig `yaml:"presentation"`
	Annotations  AnnotationsConfig  `yaml:"annotations"`
	UI           UIConfig           `yaml:"ui"`
}

// CalendarConfig selects the month range and the date formats.
type CalendarConfig struct {
	Mode string `yaml:"mode"` // "relative" or "explicit"

	// Relative mode
	MonthCount int    `yaml:"month_count,omitempty"`
	Direction  string `yaml:"direction,omitempty"` // "future" or "past"

	// Explicit mode, both ends inclusive and written in RangeFormat
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`

	RangeFormat   string `yaml:"range_format,omitempty"`
	HeaderFormat  string `yaml:"header_format,omitempty"`
	DisplayFormat string `yaml:"display_format,omitempty"`
	ClickedFormat string `yaml:"clicked_format,omitempty"`
	Locale        string `yaml:"locale,omitempty"`
	WeekStart     string `yaml:"week_start,omitempty"`
}

// PresentationConfig holds the clickability flags and the initial selection.
type PresentationConfig struct {
	ShowAdjacentMonthDates bool     `yaml:"show_adjacent_month_dates"`
	AllDatesClickable      bool     `yaml:"all_dates_clickable"`
	FutureOnly             bool     `yaml:"future_only"`
	ClickableDates         []string `yaml:"clickable_dates,omitempty"`

	SelectedDate   string `yaml:"selected_date,omitempty"` // D/M/YYYY or "today"
	MoveToSelected bool   `yaml:"move_to_selected"`
}

// AnnotationsConfig lists the annotation sources.
type AnnotationsConfig struct {
	ICSFile  string            `yaml:"ics_file,omitempty"`
	Holidays string            `yaml:"holidays,omitempty"` // region, e.g. "de-nw"
	Entries  map[string]string `yaml:"entries,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode             bool              `yaml:"vim_mode"`
	CalendarDefaultView string            `yaml:"calendar_default_view,omitempty"` // "compact" or "expanded"
	HeaderCase          string            `yaml:"header_case,omitempty"`           // "", "capitalize" or "upper"
	CopyOnClick         bool              `yaml:"copy_on_click"`
	NotifyOnClick       bool              `yaml:"notify_on_click"`
	Colors              map[string]string `yaml:"colors,omitempty"`
}

// DefaultConfig returns a new Config with default values: the next twelve
// months in US English, every date clickable and today selected.
func DefaultConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Mode:          ModeRelative,
			MonthCount:    12,
			Direction:     "future",
			HeaderFormat:  calendar.MonthYearPattern,
			DisplayFormat: calendar.DayPattern,
			ClickedFormat: calendar.CanonicalPattern,
			Locale:        "en-US",
			WeekStart:     "monday",
		},
		Presentation: PresentationConfig{
			AllDatesClickable: true,
			SelectedDate:      "today",
			MoveToSelected:    true,
		},
		UI: UIConfig{
			VimMode:             true,
			CalendarDefaultView: "compact",
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the directory for logs and other runtime files.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/monthgrid/
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(dataHome, appName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}

// Load reads the configuration from the default config file.
// If the file doesn't exist, returns a default configuration.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path. A missing file yields the
// default configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveFile writes the configuration to path.
func SaveFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the fields that can be checked without a clock. Range
// boundaries and formats are left to the calendar, which fails closed.
func (c *Config) Validate() error {
	var errs []error

	switch c.Calendar.Mode {
	case ModeRelative:
		if c.Calendar.MonthCount <= 0 {
			errs = append(errs, fmt.Errorf("calendar.month_count must be positive, got %d", c.Calendar.MonthCount))
		}
		if _, err := c.direction(); err != nil {
			errs = append(errs, err)
		}
	case ModeExplicit:
		if c.Calendar.Start == "" || c.Calendar.End == "" {
			errs = append(errs, errors.New("calendar.start and calendar.end are required in explicit mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("calendar.mode must be %q or %q, got %q", ModeRelative, ModeExplicit, c.Calendar.Mode))
	}

	if _, err := c.Locale(); err != nil {
		errs = append(errs, err)
	}

	switch c.UI.CalendarDefaultView {
	case "", "compact", "expanded":
	default:
		errs = append(errs, fmt.Errorf("ui.calendar_default_view must be compact or expanded, got %q", c.UI.CalendarDefaultView))
	}

	switch c.UI.HeaderCase {
	case "", "capitalize", "upper":
	default:
		errs = append(errs, fmt.Errorf("ui.header_case must be capitalize or upper, got %q", c.UI.HeaderCase))
	}

	return errors.Join(errs...)
}

func (c *Config) direction() (calendar.Direction, error) {
	switch strings.ToLower(c.Calendar.Direction) {
	case "", "future":
		return calendar.Future, nil
	case "past":
		return calendar.Past, nil
	default:
		return calendar.Future, fmt.Errorf("calendar.direction must be future or past, got %q", c.Calendar.Direction)
	}
}

// Locale resolves the configured locale and week start.
func (c *Config) Locale() (calendar.Locale, error) {
	locale, err := calendar.ResolveLocale(c.Calendar.Locale)
	if err != nil {
		return calendar.Locale{}, err
	}
	if c.Calendar.WeekStart != "" {
		day, err := calendar.ParseWeekday(c.Calendar.WeekStart)
		if err != nil {
			return calendar.Locale{}, err
		}
		locale = locale.WithFirstWeekday(day)
	}
	return locale, nil
}

// RangeSpec builds the calendar range the config describes.
func (c *Config) RangeSpec(now time.Time) (calendar.RangeSpec, error) {
	locale, err := c.Locale()
	if err != nil {
		return calendar.RangeSpec{}, err
	}

	var spec calendar.RangeSpec
	switch c.Calendar.Mode {
	case ModeExplicit:
		spec = calendar.RangeSpec{
			Start:        c.Calendar.Start,
			End:          c.Calendar.End,
			RangeFormat:  c.Calendar.RangeFormat,
			Locale:       locale,
			InclusiveEnd: true,
		}
	default:
		dir, err := c.direction()
		if err != nil {
			return calendar.RangeSpec{}, err
		}
		spec = calendar.RelativeRange(now, c.Calendar.MonthCount, dir, locale)
	}

	spec.HeaderFormat = c.Calendar.HeaderFormat
	spec.DisplayFormat = c.Calendar.DisplayFormat
	spec.ClickedFormat = c.Calendar.ClickedFormat
	return spec, nil
}

// Policy returns the presentation policy.
func (c *Config) Policy() calendar.Policy {
	return calendar.Policy{
		ShowAdjacentMonthDates: c.Presentation.ShowAdjacentMonthDates,
		AllDatesClickable:      c.Presentation.AllDatesClickable,
		FutureOnly:             c.Presentation.FutureOnly,
		ClickableDates:         c.Presentation.ClickableDates,
	}
}

// SelectedDate returns the canonical initial selection, resolving "today".
func (c *Config) SelectedDate(now time.Time) string {
	if strings.EqualFold(c.Presentation.SelectedDate, "today") {
		return calendar.Today(now, calendar.LocaleUS).Canonical()
	}
	return c.Presentation.SelectedDate
}

// Sources returns the configured annotation sources in display order.
func (c *Config) Sources() []annotate.Source {
	var sources []annotate.Source
	if c.Annotations.Holidays != "" {
		sources = append(sources, annotate.Holidays{Region: c.Annotations.Holidays})
	}
	if c.Annotations.ICSFile != "" {
		sources = append(sources, annotate.ICSFile{Path: expandHome(c.Annotations.ICSFile)})
	}
	if len(c.Annotations.Entries) > 0 {
		sources = append(sources, annotate.Entries(c.Annotations.Entries))
	}
	return sources
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
