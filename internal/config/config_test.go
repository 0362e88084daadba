package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hy4ri/monthgrid/internal/annotate"
	"github.com/hy4ri/monthgrid/internal/calendar"
)

var now = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Calendar.Mode != ModeRelative || cfg.Calendar.MonthCount != 12 {
		t.Errorf("calendar defaults = %+v", cfg.Calendar)
	}
	if !cfg.Presentation.AllDatesClickable || !cfg.Presentation.MoveToSelected {
		t.Errorf("presentation defaults = %+v", cfg.Presentation)
	}
	if !cfg.UI.VimMode || cfg.UI.CalendarDefaultView != "compact" {
		t.Errorf("ui defaults = %+v", cfg.UI)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
calendar:
  mode: explicit
  start: Januar 2018
  end: April 2018
  locale: de
  week_start: sunday
presentation:
  show_adjacent_month_dates: true
  all_dates_clickable: false
  clickable_dates: ["2/1/2018", "3/1/2018"]
  selected_date: 2/1/2018
annotations:
  holidays: de-nw
  entries:
    15/3/2018: "500 kcal"
ui:
  vim_mode: false
  colors:
    selected: "#ff0000"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.UI.VimMode {
		t.Error("vim_mode should be overridden to false")
	}
	if cfg.UI.Colors["selected"] != "#ff0000" {
		t.Errorf("colors = %v", cfg.UI.Colors)
	}
	if cfg.Calendar.HeaderFormat != calendar.MonthYearPattern {
		t.Errorf("unset header_format should keep default, got %q", cfg.Calendar.HeaderFormat)
	}

	spec, err := cfg.RangeSpec(now)
	if err != nil {
		t.Fatalf("RangeSpec() error = %v", err)
	}
	if !spec.InclusiveEnd || spec.Start != "Januar 2018" {
		t.Errorf("spec = %+v", spec)
	}
	if spec.Locale.FirstWeekday != time.Sunday || spec.Locale.String() != "de" {
		t.Errorf("locale = %v first weekday %v", spec.Locale, spec.Locale.FirstWeekday)
	}

	months, err := calendar.BuildMonths(spec)
	if err != nil {
		t.Fatalf("BuildMonths() error = %v", err)
	}
	if len(months) != 4 {
		t.Errorf("got %d months, want 4", len(months))
	}

	policy := cfg.Policy()
	if policy.AllDatesClickable || !policy.ShowAdjacentMonthDates || len(policy.ClickableDates) != 2 {
		t.Errorf("policy = %+v", policy)
	}

	if got := cfg.SelectedDate(now); got != "2/1/2018" {
		t.Errorf("SelectedDate() = %q", got)
	}

	sources := cfg.Sources()
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if _, ok := sources[0].(annotate.Holidays); !ok {
		t.Errorf("first source = %T, want holidays", sources[0])
	}
}

func TestRelativeRangeSpec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calendar.Direction = "past"
	cfg.Calendar.MonthCount = 3

	spec, err := cfg.RangeSpec(now)
	if err != nil {
		t.Fatalf("RangeSpec() error = %v", err)
	}
	if spec.Start != "December 2023" || spec.End != "March 2024" || spec.InclusiveEnd {
		t.Errorf("spec = %+v", spec)
	}

	if got := cfg.SelectedDate(now); got != "15/3/2024" {
		t.Errorf("SelectedDate() = %q, want today", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad mode", func(c *Config) { c.Calendar.Mode = "sometimes" }, "calendar.mode"},
		{"zero months", func(c *Config) { c.Calendar.MonthCount = 0 }, "month_count"},
		{"bad direction", func(c *Config) { c.Calendar.Direction = "sideways" }, "direction"},
		{"explicit without end", func(c *Config) {
			c.Calendar.Mode = ModeExplicit
			c.Calendar.Start = "May 2024"
		}, "calendar.start and calendar.end"},
		{"bad locale", func(c *Config) { c.Calendar.Locale = "!!" }, "locale"},
		{"bad week start", func(c *Config) { c.Calendar.WeekStart = "someday" }, "weekday"},
		{"bad view", func(c *Config) { c.UI.CalendarDefaultView = "huge" }, "calendar_default_view"},
		{"bad header case", func(c *Config) { c.UI.HeaderCase = "title" }, "header_case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "calendar:\n  mode: weekly\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}

	path = writeConfig(t, "calendar: [not, a, map]\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Annotations.Entries = map[string]string{"1/1/2025": "new year"}
	cfg.UI.NotifyOnClick = true
	if err := SaveFile(cfg, path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !loaded.UI.NotifyOnClick || loaded.Annotations.Entries["1/1/2025"] != "new year" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := expandHome("~/cal.ics"); got != "/home/tester/cal.ics" {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs/cal.ics"); got != "/abs/cal.ics" {
		t.Errorf("expandHome() = %q", got)
	}
}
