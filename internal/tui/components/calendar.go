package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/monthgrid/internal/calendar"
	"github.com/hy4ri/monthgrid/internal/tui/styles"
)

const (
	compactCellWidth = 4
	annotationLines  = 2 // annotation rows per cell in expanded view
	footerPattern    = "EEEE, d MMMM yyyy"
)

// CalendarModel presents the active month of a calendar.Model as a grid and
// routes keys back into it. It is the model's Presenter.
type CalendarModel struct {
	model    *calendar.Model
	month    *calendar.Month
	cursor     int // grid index in month, always an in-month day
	viewMode   CalendarViewMode
	headerCase HeaderCase

	theme    styles.Theme
	keymap   Keymap
	keyState KeyState
	vimMode  bool
	now      func() time.Time

	width, height int
	focused       bool

	// Annotation editor
	editing  bool
	editDate string
	input    textinput.Model
}

// CalendarOption configures a CalendarModel.
type CalendarOption func(*CalendarModel)

// WithTheme sets the styles the grid renders with.
func WithTheme(theme styles.Theme) CalendarOption {
	return func(c *CalendarModel) { c.theme = theme }
}

// WithVimMode binds h/j/k/l in addition to the arrow keys.
func WithVimMode(enabled bool) CalendarOption {
	return func(c *CalendarModel) { c.vimMode = enabled }
}

// WithViewMode sets the initial view mode.
func WithViewMode(mode CalendarViewMode) CalendarOption {
	return func(c *CalendarModel) { c.viewMode = mode }
}

// WithHeaderCase sets how the month header is cased.
func WithHeaderCase(hc HeaderCase) CalendarOption {
	return func(c *CalendarModel) { c.headerCase = hc }
}

// WithClock replaces time.Now for the "today" key and highlight.
func WithClock(now func() time.Time) CalendarOption {
	return func(c *CalendarModel) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCalendar creates a CalendarModel and registers it as the presenter of
// model.
func NewCalendar(model *calendar.Model, opts ...CalendarOption) *CalendarModel {
	input := textinput.New()
	input.Placeholder = "Annotation..."
	input.Prompt = "✎ "
	input.CharLimit = 120
	input.Width = 40

	c := &CalendarModel{
		model:    model,
		viewMode: CalendarViewCompact,
		theme:    styles.DefaultTheme(),
		keymap:   DefaultKeymap(),
		vimMode:  true,
		now:      time.Now,
		focused:  true,
		input:    input,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.input.PromptStyle = c.theme.Prompt
	c.input.TextStyle = c.theme.Input

	model.SetPresenter(c)
	return c
}

// Present implements calendar.Presenter. A new month puts the cursor on the
// selection, on today or on the first day, in that order.
func (c *CalendarModel) Present(month *calendar.Month) {
	if month == c.month {
		return
	}
	c.month = month
	c.cursor = c.homeIndex()
}

func (c *CalendarModel) homeIndex() int {
	if c.month == nil {
		return -1
	}
	if selected, ok := c.model.Selected(); ok {
		if idx := c.month.GridIndex(selected.Canonical()); idx >= 0 && c.month.InMonth(idx) {
			return idx
		}
	}
	today := calendar.Today(c.now(), c.month.Locale).Canonical()
	if idx := c.month.GridIndex(today); idx >= 0 && c.month.InMonth(idx) {
		return idx
	}
	return c.month.PaddingFront()
}

// Init implements Component.
func (c *CalendarModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (c *CalendarModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if c.editing {
			return c.handleEditKey(msg)
		}
		return c.handleKeyMsg(msg)
	}

	if c.editing {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

// handleKeyMsg processes keyboard input for calendar navigation.
func (c *CalendarModel) handleKeyMsg(msg tea.KeyMsg) (Component, tea.Cmd) {
	action, ok := c.keyState.HandleKey(msg, c.keymap, c.vimMode)
	if !ok || action == "" || c.month == nil {
		return c, nil
	}

	switch action {
	case "left":
		c.moveCursor(-1)
	case "right":
		c.moveCursor(1)
	case "up":
		c.moveCursor(-calendar.DaysInWeek)
	case "down":
		c.moveCursor(calendar.DaysInWeek)
	case "prev_month":
		c.model.Previous()
	case "next_month":
		c.model.Next()
	case "first_month":
		c.model.MoveTo(0)
	case "last_month":
		c.model.MoveTo(c.model.Len() - 1)
	case "today":
		c.GoToday()
	case "select":
		c.Click()
	case "toggle_view":
		if c.viewMode == CalendarViewCompact {
			c.viewMode = CalendarViewExpanded
		} else {
			c.viewMode = CalendarViewCompact
		}
	case "annotate":
		return c, c.startEditing()
	case "unannotate":
		date := c.cursorDate().Canonical()
		c.model.RemoveAnnotation(c.model.Position(), date)
		return c, func() tea.Msg {
			return AnnotationSavedMsg{Date: date}
		}
	case "clear_month":
		c.model.ClearAnnotations(c.model.Position())
	}
	return c, nil
}

// moveCursor moves by delta days, paging to the neighbouring month when
// the target lies outside the active one. At the ends of the range the
// cursor stays put.
func (c *CalendarModel) moveCursor(delta int) {
	if c.cursor < 0 {
		return
	}

	target := c.cursorDate().AddDays(delta).Canonical()
	if idx := c.month.GridIndex(target); idx >= 0 && c.month.InMonth(idx) {
		c.cursor = idx
		return
	}

	if c.model.MoveToDate(target) {
		if idx := c.month.GridIndex(target); idx >= 0 {
			c.cursor = idx
		}
	}
}

// GoToday pages to the current month and puts the cursor on today.
func (c *CalendarModel) GoToday() {
	if c.month == nil {
		return
	}
	today := calendar.Today(c.now(), c.month.Locale).Canonical()
	if c.model.MoveToDate(today) {
		if idx := c.month.GridIndex(today); idx >= 0 {
			c.cursor = idx
		}
	}
}

// Click dispatches a click on the cursor cell. It reports whether the
// model accepted it.
func (c *CalendarModel) Click() bool {
	if c.month == nil || c.cursor < 0 {
		return false
	}
	return c.model.Dispatch(calendar.ClickEvent{CellIndex: c.cursor, Date: c.cursorDate()})
}

func (c *CalendarModel) cursorDate() calendar.Date {
	return c.month.Grid[c.cursor]
}

// CursorDate returns the date under the cursor.
func (c *CalendarModel) CursorDate() (calendar.Date, bool) {
	if c.month == nil || c.cursor < 0 {
		return calendar.Date{}, false
	}
	return c.cursorDate(), true
}

func (c *CalendarModel) startEditing() tea.Cmd {
	if c.cursor < 0 {
		return nil
	}
	date := c.cursorDate().Canonical()
	existing, _ := c.model.Annotation(c.model.Position(), date)

	c.keyState.Reset()
	c.editing = true
	c.editDate = date
	c.input.SetValue(existing)
	c.input.CursorEnd()

	return tea.Batch(c.input.Focus(), func() tea.Msg {
		return EditStartedMsg{Date: date}
	})
}

func (c *CalendarModel) stopEditing() {
	c.editing = false
	c.editDate = ""
	c.input.Blur()
	c.input.Reset()
}

func (c *CalendarModel) handleEditKey(msg tea.KeyMsg) (Component, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		date := c.editDate
		text := strings.TrimSpace(c.input.Value())
		if text == "" {
			c.model.RemoveAnnotation(c.model.Position(), date)
		} else {
			c.model.SetAnnotation(c.model.Position(), date, text)
		}
		c.stopEditing()
		return c, func() tea.Msg {
			return AnnotationSavedMsg{Date: date, Text: text}
		}
	case tea.KeyEsc:
		c.stopEditing()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// Editing reports whether the annotation editor is open.
func (c *CalendarModel) Editing() bool {
	return c.editing
}

// View implements Component.
func (c *CalendarModel) View() string {
	if _, ok := c.model.Active(); !ok || c.month == nil {
		return c.theme.HelpDesc.Render("No months to show. Check the calendar range in your config.")
	}

	cells := c.model.Cells()
	if len(cells) < calendar.DaysInWeek {
		return ""
	}

	var b strings.Builder
	b.WriteString(c.renderHeader())

	if c.viewMode == CalendarViewExpanded {
		b.WriteString(c.renderExpanded(cells))
	} else {
		b.WriteString(c.renderCompact(cells))
	}

	if c.editing {
		b.WriteString("\n")
		b.WriteString(c.input.View())
	}

	return b.String()
}

func (c *CalendarModel) renderHeader() string {
	var b strings.Builder

	prev, next := "  ", "  "
	if c.model.HasPrevious() {
		prev = "‹ "
	}
	if c.model.HasNext() {
		next = " ›"
	}
	header := c.headerCase.Apply(c.month.Header, c.month.Locale.Tag)
	b.WriteString(c.theme.CalendarHeader.Render(prev + header + next))
	b.WriteString("\n")
	b.WriteString(c.theme.HelpDesc.Render("[ ] prev/next month | ← → prev/next day | v toggle view | a annotate"))
	b.WriteString("\n\n")

	return b.String()
}

// renderCompact renders the compact calendar view.
func (c *CalendarModel) renderCompact(cells []calendar.Cell) string {
	var b strings.Builder

	for i, cell := range cells[:calendar.DaysInWeek] {
		b.WriteString(c.theme.CalendarWeekday.Render(fitCell(cell.DisplayText, compactCellWidth)))
		if i < calendar.DaysInWeek-1 {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")

	for i, cell := range cells[calendar.DaysInWeek:] {
		text := ""
		if cell.State != calendar.StateBlank {
			text = cell.DisplayText
			if cell.HasAnnotation {
				text += "*"
			}
		}
		b.WriteString(c.cellStyle(i, cell).Render(fitCell(text, compactCellWidth)))
		if (i+1)%calendar.DaysInWeek == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	// Show cursor day info
	b.WriteString("\n")
	d := c.cursorDate()
	title, err := d.Format(footerPattern)
	if err != nil {
		title = d.Canonical()
	}
	b.WriteString(c.theme.Subtitle.Render(title))
	b.WriteString("\n\n")

	if note, ok := c.model.Annotation(c.model.Position(), d.Canonical()); ok {
		b.WriteString(c.theme.CalendarAnnotation.Render(note))
	} else {
		b.WriteString(c.theme.HelpDesc.Render("No annotation for this day"))
	}

	return b.String()
}

// renderExpanded renders the expanded calendar view with annotation text.
func (c *CalendarModel) renderExpanded(cells []calendar.Cell) string {
	var b strings.Builder

	// Calculate cell dimensions
	availableWidth := c.width - 8
	if availableWidth < 35 {
		availableWidth = 35
	}
	cellWidth := availableWidth / calendar.DaysInWeek
	if cellWidth < 5 {
		cellWidth = 5
	}
	if cellWidth > 20 {
		cellWidth = 20
	}

	border := c.theme.CalendarCellBorder
	bar := border.Render("│")
	rule := func(left, mid, right string) string {
		segment := strings.Repeat("─", cellWidth)
		return border.Render(left+strings.Repeat(segment+mid, calendar.DaysInWeek-1)+segment+right) + "\n"
	}

	headerLine := bar
	for _, cell := range cells[:calendar.DaysInWeek] {
		headerLine += c.theme.CalendarWeekday.Render(" "+padRight(cell.DisplayText, cellWidth-1)) + bar
	}
	b.WriteString(rule("┌", "┬", "┐"))
	b.WriteString(headerLine + "\n")
	b.WriteString(rule("├", "┼", "┤"))

	grid := cells[calendar.DaysInWeek:]
	for week := 0; week*calendar.DaysInWeek < len(grid); week++ {
		row := grid[week*calendar.DaysInWeek : (week+1)*calendar.DaysInWeek]

		// Day numbers row
		dayLine := bar
		for col, cell := range row {
			text := ""
			if cell.State != calendar.StateBlank {
				text = cell.DisplayText
			}
			idx := week*calendar.DaysInWeek + col
			dayLine += c.cellStyle(idx, cell).Render(" "+padRight(text, cellWidth-1)) + bar
		}
		b.WriteString(dayLine + "\n")

		// Annotation rows
		wrapped := make([][]string, len(row))
		for col, cell := range row {
			if cell.HasAnnotation && cell.State != calendar.StateBlank {
				wrapped[col] = wrapCell(cell.Annotation, cellWidth-1, annotationLines)
			}
		}
		for line := 0; line < annotationLines; line++ {
			noteLine := bar
			for col := range row {
				text := ""
				if line < len(wrapped[col]) {
					text = wrapped[col][line]
				}
				noteLine += c.theme.CalendarAnnotation.Render(" "+padRight(text, cellWidth-1)) + bar
			}
			b.WriteString(noteLine + "\n")
		}

		if (week+1)*calendar.DaysInWeek < len(grid) {
			b.WriteString(rule("├", "┼", "┤"))
		}
	}
	b.WriteString(rule("└", "┴", "┘"))

	return b.String()
}

// cellStyle picks the style of grid cell i from its resolved state.
func (c *CalendarModel) cellStyle(i int, cell calendar.Cell) lipgloss.Style {
	t := c.theme

	var style lipgloss.Style
	switch cell.State {
	case calendar.StateBlank:
		return t.CalendarDay
	case calendar.StateSelected:
		style = t.CalendarDaySelected
	case calendar.StateDisabled:
		if cell.Faded {
			style = t.CalendarDayFaded
		} else {
			style = t.CalendarDayDisabled
		}
	case calendar.StateAdjacentMonthDimmed:
		style = t.CalendarDayAdjacent
	default:
		today := calendar.Today(c.now(), cell.Date.Locale())
		switch {
		case cell.Date.Equal(today):
			style = t.CalendarDayToday
		case cell.HasAnnotation:
			style = t.CalendarDayNoted
		default:
			style = t.CalendarDay
		}
	}

	if i == c.cursor && c.focused {
		style = t.CalendarCursor.Inherit(style)
	}
	return style
}

// fitCell right-aligns text in a cell of width columns.
func fitCell(text string, width int) string {
	return runewidth.FillLeft(runewidth.Truncate(text, width, "…"), width)
}

// padRight left-aligns text in a cell of width columns.
func padRight(text string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
}

// wrapCell splits text into at most lines rows of width columns. The last
// row is truncated with an ellipsis.
func wrapCell(text string, width, lines int) []string {
	if width <= 0 || lines <= 0 {
		return nil
	}

	var out []string
	rest := []rune(strings.TrimSpace(text))
	for len(rest) > 0 && len(out) < lines {
		if len(out) == lines-1 || runewidth.StringWidth(string(rest)) <= width {
			out = append(out, runewidth.Truncate(string(rest), width, "…"))
			break
		}

		n, w := 0, 0
		for n < len(rest) {
			rw := runewidth.RuneWidth(rest[n])
			if w+rw > width {
				break
			}
			w += rw
			n++
		}
		// Prefer breaking at the last space of the row.
		if n < len(rest) && rest[n] != ' ' {
			if cut := lastSpace(rest[:n]); cut > 0 {
				n = cut
			}
		}
		out = append(out, strings.TrimSpace(string(rest[:n])))
		rest = []rune(strings.TrimSpace(string(rest[n:])))
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i > 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}

// SetSize implements Component.
func (c *CalendarModel) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.input.Width = max(width-8, 10)
}

// Focus sets focus on the calendar.
func (c *CalendarModel) Focus() {
	c.focused = true
}

// Blur removes focus and drops any half-typed key sequence.
func (c *CalendarModel) Blur() {
	c.focused = false
	c.keyState.Reset()
}

// Focused returns focus state.
func (c *CalendarModel) Focused() bool {
	return c.focused
}

// ViewMode returns the current view mode.
func (c *CalendarModel) ViewMode() CalendarViewMode {
	return c.viewMode
}

// StatusLine summarizes the cursor position for the status bar.
func (c *CalendarModel) StatusLine() string {
	if c.month == nil {
		return ""
	}
	return fmt.Sprintf("%s  %d/%d", c.cursorDate().Canonical(), c.model.Position()+1, c.model.Len())
}
