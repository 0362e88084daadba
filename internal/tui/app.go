// Package tui provides the terminal user interface for the month calendar.
package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/monthgrid/internal/annotate"
	"github.com/hy4ri/monthgrid/internal/calendar"
	"github.com/hy4ri/monthgrid/internal/config"
	"github.com/hy4ri/monthgrid/internal/tui/components"
	"github.com/hy4ri/monthgrid/internal/tui/styles"
)

const appName = "monthgrid"

// Side effects of a click, replaceable in tests.
var (
	copyToClipboard = clipboard.WriteAll
	notify          = func(title, message string) error {
		return beeep.Notify(title, message, "")
	}
)

// Messages
type (
	statusMsg struct{ msg string }
	errMsg    struct{ err error }

	annotationsLoadedMsg struct {
		values map[string]string
	}
)

// App is the main Bubble Tea model. It owns the calendar model, listens to
// it and routes keys to the active view.
type App struct {
	// Dependencies
	model  *calendar.Model
	config *config.Config
	logger *log.Logger
	now    func() time.Time

	// Components
	calendarComp *components.CalendarModel
	helpComp     *components.HelpModel
	spinner      spinner.Model
	keymap       components.Keymap
	theme        styles.Theme

	// View state
	currentView components.View
	width       int
	height      int
	loading     bool
	statusMsg   string
	err         error
	lastTick    time.Time
	screen      calendar.ScreenData

	// Commands queued by listener callbacks, drained after each Update.
	pending []tea.Cmd
	// Last render error, raised while drawing and shown after the next Update.
	renderErr error
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the debug logger. Without one, logs are discarded.
func WithLogger(logger *log.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithTheme sets the styles every view renders with.
func WithTheme(theme styles.Theme) AppOption {
	return func(a *App) { a.theme = theme }
}

// NewApp creates a new App for model. The App registers itself as the
// model's listener and the calendar component as its presenter.
func NewApp(model *calendar.Model, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	a := &App{
		model:       model,
		config:      cfg,
		logger:      log.New(io.Discard, "", 0),
		now:         time.Now,
		keymap:      components.DefaultKeymap(),
		theme:       styles.DefaultTheme(),
		currentView: components.ViewCalendar,
	}
	for _, opt := range opts {
		opt(a)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = a.theme.Spinner
	a.spinner = s

	a.calendarComp = components.NewCalendar(model,
		components.WithTheme(a.theme),
		components.WithVimMode(cfg.UI.VimMode),
		components.WithViewMode(components.ParseCalendarViewMode(cfg.UI.CalendarDefaultView)),
		components.WithHeaderCase(components.ParseHeaderCase(cfg.UI.HeaderCase)),
		components.WithClock(a.now),
	)
	a.helpComp = components.NewHelp(a.theme)
	a.helpComp.SetKeymap(a.keymap.HelpItems(cfg.UI.VimMode))

	a.lastTick = a.now()
	model.SetListener(a)
	return a
}

// OnScreenData implements calendar.Listener.
func (a *App) OnScreenData(data calendar.ScreenData) {
	a.screen = data
}

// OnDateClicked implements calendar.Listener.
func (a *App) OnDateClicked(date string) {
	a.err = nil
	a.statusMsg = "Clicked " + date

	if a.config.UI.CopyOnClick {
		a.pending = append(a.pending, copyDate(date))
	}
	if a.config.UI.NotifyOnClick {
		a.pending = append(a.pending, a.notifyDate(date))
	}
}

// OnRenderError implements calendar.Listener. It usually fires from View,
// so the error is only held here and surfaced by Update.
func (a *App) OnRenderError(err error) {
	a.logger.Printf("Render error: %v", err)
	a.renderErr = err
}

func copyDate(date string) tea.Cmd {
	return func() tea.Msg {
		if err := copyToClipboard(date); err != nil {
			return statusMsg{msg: "Failed to copy: " + err.Error()}
		}
		return statusMsg{msg: "Copied: " + date}
	}
}

func (a *App) notifyDate(date string) tea.Cmd {
	logger := a.logger
	return func() tea.Msg {
		if err := notify(appName, "Date clicked: "+date); err != nil {
			logger.Printf("Failed to send notification: %v", err)
		}
		return nil
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{components.ClockTick(components.ClockInterval)}
	if load := a.loadAnnotations(); load != nil {
		cmds = append(cmds, a.spinner.Tick, load)
	}
	return tea.Batch(cmds...)
}

// loadAnnotations reads the configured sources off the UI goroutine. Only
// the merge runs in the command; the result is applied in Update.
func (a *App) loadAnnotations() tea.Cmd {
	sources := a.config.Sources()
	if len(sources) == 0 {
		return nil
	}
	from, to, ok := a.model.Span()
	if !ok {
		return nil
	}

	a.loading = true
	return func() tea.Msg {
		values, err := annotate.Merge(from, to, sources...)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to load annotations: %w", err)}
		}
		return annotationsLoadedMsg{values: values}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	if a.renderErr != nil {
		a.err = a.renderErr
		a.renderErr = nil
	}
	if len(a.pending) == 0 {
		return a, cmd
	}

	cmds := append(a.pending, cmd)
	a.pending = nil
	return a, tea.Batch(cmds...)
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Reserve the status bar and the app padding.
		contentWidth := msg.Width - a.theme.App.GetHorizontalFrameSize()
		contentHeight := msg.Height - a.theme.App.GetVerticalFrameSize() - 1
		a.calendarComp.SetSize(contentWidth, contentHeight)
		a.helpComp.SetSize(contentWidth, contentHeight)
		return nil

	case spinner.TickMsg:
		if !a.loading {
			return nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd

	case errMsg:
		a.loading = false
		a.err = msg.err
		a.logger.Printf("Error: %v", msg.err)
		return nil

	case statusMsg:
		a.err = nil
		a.statusMsg = msg.msg
		return nil

	case annotationsLoadedMsg:
		a.loading = false
		n := annotate.ApplyValues(a.model, msg.values)
		a.logger.Printf("Applied %d of %d loaded annotations", n, len(msg.values))
		a.statusMsg = fmt.Sprintf("Loaded %d annotations", n)
		return nil

	case components.ClockTickMsg:
		if components.DayChanged(a.lastTick, msg.Time) {
			a.logger.Printf("Date changed to %s", msg.Time.Format("2006-01-02"))
		}
		a.lastTick = msg.Time
		return components.ClockTick(components.ClockInterval)

	case components.ViewChangeRequestMsg:
		a.setView(msg.View)
		return nil

	case components.EditStartedMsg:
		a.statusMsg = "Editing " + msg.Date + " (enter to save, esc to cancel)"
		return nil

	case components.AnnotationSavedMsg:
		a.err = nil
		if msg.Text == "" {
			a.statusMsg = "Annotation removed: " + msg.Date
		} else {
			a.statusMsg = "Annotation saved: " + msg.Date
		}
		return nil
	}

	// Cursor blink and friends go to the focused component.
	if a.currentView == components.ViewCalendar {
		_, cmd := a.calendarComp.Update(msg)
		return cmd
	}
	return nil
}

// setView switches views and moves focus along.
func (a *App) setView(view components.View) {
	if f := a.focusable(a.currentView); f != nil {
		f.Blur()
	}
	a.currentView = view
	if f := a.focusable(view); f != nil {
		f.Focus()
	}
}

func (a *App) focusable(view components.View) components.Focusable {
	if view == components.ViewCalendar {
		return a.calendarComp
	}
	return nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if a.currentView == components.ViewHelp {
		_, cmd := a.helpComp.Update(msg)
		return cmd
	}

	// The editor owns every key while it is open.
	if a.calendarComp.Editing() {
		_, cmd := a.calendarComp.Update(msg)
		return cmd
	}

	switch msg.String() {
	case a.keymap.Quit.Key:
		return tea.Quit
	case a.keymap.Help.Key:
		a.setView(components.ViewHelp)
		return nil
	case a.keymap.Back.Key:
		a.statusMsg = ""
		a.err = nil
		return nil
	}

	_, cmd := a.calendarComp.Update(msg)
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	var content string
	switch a.currentView {
	case components.ViewHelp:
		content = a.helpComp.View()
	default:
		content = a.calendarComp.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.theme.App.Render(content),
		a.renderStatusBar(),
	)
}

// renderStatusBar shows the status or error on the left and the cursor
// position with key hints on the right.
func (a *App) renderStatusBar() string {
	var rightParts []string
	if line := a.calendarComp.StatusLine(); line != "" && a.currentView == components.ViewCalendar {
		rightParts = append(rightParts,
			a.theme.StatusBarText.Render(line),
			a.theme.StatusBarText.Render(a.calendarComp.ViewMode().String()),
		)
	}
	rightParts = append(rightParts,
		a.theme.StatusBarKey.Render(a.keymap.Help.Key)+a.theme.StatusBarText.Render(":help"),
		a.theme.StatusBarKey.Render(a.keymap.Quit.Key)+a.theme.StatusBarText.Render(":quit"),
	)
	right := strings.Join(rightParts, "  ")
	rightWidth := lipgloss.Width(right)
	padding := a.theme.StatusBar.GetHorizontalFrameSize()

	// Ensure left doesn't overwhelm right
	maxLeft := a.width - rightWidth - padding - 4
	fit := func(s string) string {
		s = oneLine(s)
		if maxLeft > 10 {
			s = runewidth.Truncate(s, maxLeft, "…")
		}
		return s
	}

	left := ""
	switch {
	case a.err != nil:
		left = a.theme.StatusBarError.Render(fit("Error: " + a.err.Error()))
	case a.loading:
		left = a.spinner.View() + a.theme.StatusBarText.Render(" Loading annotations...")
	case a.statusMsg != "":
		left = a.theme.StatusBarSuccess.Render(fit(a.statusMsg))
	}

	width := a.width
	if width <= 0 {
		width = lipgloss.Width(left) + rightWidth + padding + 2
	}
	spacing := width - lipgloss.Width(left) - rightWidth - padding
	if spacing < 1 {
		spacing = 1
	}
	return a.theme.StatusBar.Width(width - padding).Render(left + strings.Repeat(" ", spacing) + right)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// CurrentView returns the view being shown.
func (a *App) CurrentView() components.View {
	return a.currentView
}

// Status returns the status bar message and the last error.
func (a *App) Status() (string, error) {
	return a.statusMsg, a.err
}

// ScreenData returns the last screen data the model emitted.
func (a *App) ScreenData() calendar.ScreenData {
	return a.screen
}
