// Package main is the entry point for the monthgrid calendar.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/monthgrid/internal/annotate"
	"github.com/hy4ri/monthgrid/internal/calendar"
	"github.com/hy4ri/monthgrid/internal/config"
	"github.com/hy4ri/monthgrid/internal/tui"
	"github.com/hy4ri/monthgrid/internal/tui/styles"
)

const version = "0.1.0"

const helpText = `monthgrid - Scrollable month calendar for the terminal

USAGE:
    monthgrid [OPTIONS]

OPTIONS:
    -h, --help        Show this help message
    -v, --version     Show version information
    --init            Create a template config file
    --config PATH     Use the config file at PATH
    --print           Print the months to stdout and exit
    --debug           Write a debug log to the data directory

CONFIGURATION:
    Config file: ~/.config/monthgrid/config.yaml

    Run 'monthgrid --init' to create a commented template.

KEYBINDINGS:
    Navigation:
        h/j/k/l     Move by day/week (arrows always work)
        [ / ]       Previous/next month
        gg/G        First/last month
        t           Go to today

    Calendar:
        Enter       Click the date under the cursor
        v           Switch compact/expanded view
        a           Add or edit an annotation
        x           Remove the annotation
        X           Clear the month's annotations

    Other:
        ?           Show help
        q           Quit
`

const configTemplate = `# monthgrid configuration
# Location: ~/.config/monthgrid/config.yaml

calendar:
  # "relative": month_count months from the current month
  # "explicit": every month from start to end, both inclusive
  mode: relative
  month_count: 12
  direction: future   # or "past"

  # start: "January 2024"
  # end: "December 2024"
  # range_format: "MMMM yyyy"

  header_format: "MMMM yyyy"
  display_format: "d"
  clicked_format: "d/M/yyyy"
  locale: en-US
  week_start: monday

presentation:
  show_adjacent_month_dates: false
  all_dates_clickable: true
  future_only: false
  # clickable_dates: ["24/12/2024", "31/12/2024"]
  selected_date: today
  move_to_selected: true

annotations:
  # holidays: de-nw
  # ics_file: ~/calendar.ics
  # entries:
  #   "24/12/2024": "Christmas Eve"

ui:
  # Enable Vim-style keybindings (default: true)
  vim_mode: true
  calendar_default_view: compact   # or "expanded"
  # header_case: capitalize        # or "upper"; e.g. "juin 2024" -> "Juin 2024"
  copy_on_click: false
  notify_on_click: false
  # colors:
  #   highlight: "#990000"
  #   today: "#66FF66"
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Define flags
	var (
		showHelp    bool
		showVersion bool
		initConfig  bool
		printMode   bool
		debug       bool
		configPath  string
	)

	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (shorthand)")
	flag.BoolVar(&initConfig, "init", false, "Create template config file")
	flag.BoolVar(&printMode, "print", false, "Print the months and exit")
	flag.BoolVar(&debug, "debug", false, "Write debug.log to the data directory")
	flag.StringVar(&configPath, "config", "", "Path to the config file")

	flag.Usage = func() {
		fmt.Print(helpText)
	}

	flag.Parse()

	// Handle flags
	if showHelp {
		fmt.Print(helpText)
		return nil
	}

	if showVersion {
		fmt.Printf("monthgrid version %s\n", version)
		return nil
	}

	if initConfig {
		return createConfigTemplate()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	model, err := buildModel(cfg, time.Now, logger)
	if err != nil {
		return err
	}

	if printMode {
		if _, err := annotate.Apply(model, cfg.Sources()...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		printMonths(os.Stdout, model)
		return nil
	}

	return runApp(model, cfg, logger)
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openLogger returns the debug logger. Without --debug everything is
// discarded.
func openLogger(debug bool) (*log.Logger, func(), error) {
	if !debug {
		return log.New(io.Discard, "", 0), func() {}, nil
	}

	dir, err := config.DataDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

// buildModel creates the calendar model the config describes.
func buildModel(cfg *config.Config, clock func() time.Time, logger *log.Logger) (*calendar.Model, error) {
	now := clock()
	spec, err := cfg.RangeSpec(now)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar config: %w", err)
	}

	model := calendar.New(
		calendar.WithLogger(logger),
		calendar.WithClock(clock),
		calendar.WithPolicy(cfg.Policy()),
	)
	model.SetRange(spec)

	if selected := cfg.SelectedDate(now); selected != "" {
		model.SelectDate(selected, cfg.Presentation.MoveToSelected)
	}
	return model, nil
}

// createConfigTemplate creates a template configuration file.
func createConfigTemplate() error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists: %s\n", path)
		fmt.Print("Overwrite? [y/N]: ")

		var response string
		fmt.Scanln(&response)

		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Write template
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Config file created: %s\n", path)
	return nil
}

// runApp starts the main TUI application.
func runApp(model *calendar.Model, cfg *config.Config, logger *log.Logger) error {
	theme, err := styles.DefaultTheme().WithColors(cfg.UI.Colors)
	if err != nil {
		return fmt.Errorf("invalid ui.colors: %w", err)
	}

	app := tui.NewApp(model, cfg, tui.WithLogger(logger), tui.WithTheme(theme))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
