// Package calendar implements the month-grid calendar model: month buckets
// over a date range, week-aligned grids, the annotation overlay, selection
// and the clickability policy a presenter renders from.
package calendar

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// ScreenData is sent to the host every time the active month changes.
type ScreenData struct {
	Position          int
	Header            string
	PresentMonthDates []string // the active month's own days
	FullGridDates     []string // the padded grid
	HasPrevious       bool
	HasNext           bool
}

// Listener receives the model's notifications. Callbacks run after the
// model has released its lock, so they may call back into the model.
type Listener interface {
	OnScreenData(data ScreenData)
	OnDateClicked(date string)
	OnRenderError(err error)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	ScreenData  func(ScreenData)
	DateClicked func(string)
	RenderError func(error)
}

// OnScreenData implements Listener.
func (f ListenerFuncs) OnScreenData(data ScreenData) {
	if f.ScreenData != nil {
		f.ScreenData(data)
	}
}

// OnDateClicked implements Listener.
func (f ListenerFuncs) OnDateClicked(date string) {
	if f.DateClicked != nil {
		f.DateClicked(date)
	}
}

// OnRenderError implements Listener.
func (f ListenerFuncs) OnRenderError(err error) {
	if f.RenderError != nil {
		f.RenderError(err)
	}
}

// Presenter is told which month to draw whenever the active month or its
// overlay changes.
type Presenter interface {
	Present(month *Month)
}

// ClickEvent is a click on a grid cell. CellIndex is the position in the
// active month's Grid (weekday headers are not counted).
type ClickEvent struct {
	CellIndex int
	Date      Date
}

// Cell is the presenter input for one visible cell.
type Cell struct {
	Date          Date
	DisplayText   string
	Clickable     bool
	State         State
	Faded         bool
	InMonth       bool
	Annotation    string
	HasAnnotation bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithListener sets the host listener.
func WithListener(l Listener) Option {
	return func(m *Model) {
		m.listener = l
	}
}

// WithPolicy sets the initial presentation policy.
func WithPolicy(p Policy) Option {
	return func(m *Model) {
		m.policy = p.clone()
	}
}

// Model owns the list of months, the active position, the selection and
// the clickability policy.
type Model struct {
	mu sync.Mutex

	months    []*Month
	position  int
	selected  *Date
	policy    Policy
	resolver  resolver
	lastCells map[int]Cell

	listener  Listener
	presenter Presenter
	now       func() time.Time
	logger    *log.Logger
	builder   *Builder
}

// New creates an empty Model.
func New(opts ...Option) *Model {
	m := &Model{
		policy: DefaultPolicy(),
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.resolver = newResolver(m.policy)
	m.builder = NewBuilder(m.logger)
	return m
}

// notice is a deferred notification, delivered once the lock is released.
type notice struct {
	present *Month
	screen  *ScreenData
	clicked *string
	err     error
}

func (m *Model) deliver(notes []notice) {
	if len(notes) == 0 {
		return
	}
	m.mu.Lock()
	l, p := m.listener, m.presenter
	m.mu.Unlock()

	for _, n := range notes {
		switch {
		case n.present != nil:
			if p != nil {
				p.Present(n.present)
			}
		case n.screen != nil:
			if l != nil {
				l.OnScreenData(*n.screen)
			}
		case n.clicked != nil:
			if l != nil {
				l.OnDateClicked(*n.clicked)
			}
		case n.err != nil:
			if l != nil {
				l.OnRenderError(n.err)
			}
		}
	}
}

// SetRange rebuilds the month list from spec and moves to the first month.
// An unusable range leaves the calendar empty.
func (m *Model) SetRange(spec RangeSpec) {
	months := m.builder.Build(spec)

	m.mu.Lock()
	m.months = months
	m.position = 0
	m.lastCells = nil
	var notes []notice
	if len(months) > 0 {
		notes = m.moveToLocked(0)
	}
	m.mu.Unlock()

	m.deliver(notes)
}

// SetRelativeRange shows count months after (Future) or before (Past) the
// current month.
func (m *Model) SetRelativeRange(count int, dir Direction, headerFormat, displayFormat, clickedFormat string, locale Locale) {
	spec := RelativeRange(m.now(), count, dir, locale)
	spec.HeaderFormat = headerFormat
	spec.DisplayFormat = displayFormat
	spec.ClickedFormat = clickedFormat
	m.SetRange(spec)
}

// MoveTo activates the month at position. Out-of-range positions are ignored.
func (m *Model) MoveTo(position int) {
	m.mu.Lock()
	notes := m.moveToLocked(position)
	m.mu.Unlock()

	m.deliver(notes)
}

// Previous moves to the previous month, if any.
func (m *Model) Previous() {
	m.mu.Lock()
	notes := m.moveToLocked(m.position - 1)
	m.mu.Unlock()

	m.deliver(notes)
}

// Next moves to the next month, if any.
func (m *Model) Next() {
	m.mu.Lock()
	notes := m.moveToLocked(m.position + 1)
	m.mu.Unlock()

	m.deliver(notes)
}

func (m *Model) moveToLocked(position int) []notice {
	if position < 0 || position >= len(m.months) {
		return nil
	}

	m.position = position
	m.lastCells = nil
	month := m.months[position]

	return []notice{
		{present: month},
		{screen: m.screenDataLocked()},
	}
}

func (m *Model) screenDataLocked() *ScreenData {
	month := m.months[m.position]
	return &ScreenData{
		Position:          m.position,
		Header:            month.Header,
		PresentMonthDates: month.DateStrings(),
		FullGridDates:     month.GridStrings(),
		HasPrevious:       m.position > 0,
		HasNext:           m.position < len(m.months)-1,
	}
}

// HasPrevious reports whether there is a month before the active one.
func (m *Model) HasPrevious() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.months) > 0 && m.position > 0
}

// HasNext reports whether there is a month after the active one.
func (m *Model) HasNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position < len(m.months)-1
}

// Position returns the active month index.
func (m *Model) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Len returns the number of months.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.months)
}

// Month returns the month at position i. Its exported fields are fixed once
// the range is built; annotations are read with Annotation and Annotations.
func (m *Model) Month(i int) (*Month, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.months) {
		return nil, false
	}
	return m.months[i], true
}

// Active returns the active month.
func (m *Model) Active() (*Month, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

func (m *Model) activeLocked() (*Month, bool) {
	if len(m.months) == 0 {
		return nil, false
	}
	return m.months[m.position], true
}

// Span returns the first and last grid dates over all months.
func (m *Model) Span() (first, last Date, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.months) == 0 {
		return Date{}, Date{}, false
	}
	head := m.months[0].Grid
	tail := m.months[len(m.months)-1].Grid
	return head[0], tail[len(tail)-1], true
}

// Selected returns the selected date.
func (m *Model) Selected() (Date, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return Date{}, false
	}
	return *m.selected, true
}

// SetListener sets the host listener and, if a month is active, sends it
// the current screen data.
func (m *Model) SetListener(l Listener) {
	m.mu.Lock()
	m.listener = l
	var notes []notice
	if _, ok := m.activeLocked(); ok && l != nil {
		notes = append(notes, notice{screen: m.screenDataLocked()})
	}
	m.mu.Unlock()

	m.deliver(notes)
}

// SetPresenter sets the presenter and hands it the active month.
func (m *Model) SetPresenter(p Presenter) {
	m.mu.Lock()
	m.presenter = p
	var notes []notice
	if month, ok := m.activeLocked(); ok && p != nil {
		notes = append(notes, notice{present: month})
	}
	m.mu.Unlock()

	m.deliver(notes)
}

// SetPolicy replaces the presentation policy.
func (m *Model) SetPolicy(p Policy) {
	m.mu.Lock()
	m.policy = p.clone()
	m.resolver = newResolver(m.policy)
	notes := m.presentActiveLocked()
	m.mu.Unlock()

	m.deliver(notes)
}

// Policy returns a copy of the presentation policy.
func (m *Model) Policy() Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy.clone()
}

// Resolve applies the policy and the current selection to d.
func (m *Model) Resolve(d Date) Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolver.resolve(d, m.selected, m.now())
}

func (m *Model) presentActiveLocked() []notice {
	if month, ok := m.activeLocked(); ok {
		return []notice{{present: month}}
	}
	return nil
}

func (m *Model) activeLocaleLocked() Locale {
	if month, ok := m.activeLocked(); ok {
		return month.Locale
	}
	return LocaleUS
}

// indexOfLocked finds the first month whose header matches the date's
// month-year, compared case-insensitively.
func (m *Model) indexOfLocked(d Date) int {
	for i, month := range m.months {
		header, err := Date{t: d.t, locale: month.Locale}.Format(month.HeaderFormat)
		if err != nil {
			continue
		}
		if strings.EqualFold(header, month.Header) {
			return i
		}
	}
	return -1
}

// SelectDate records date (D/M/YYYY) as the selection. With moveToItsMonth
// the calendar also pages to the month containing it, if there is one.
func (m *Model) SelectDate(date string, moveToItsMonth bool) {
	m.mu.Lock()
	d, err := ParseCanonical(date, m.activeLocaleLocked())
	if err != nil {
		m.mu.Unlock()
		m.logger.Printf("Ignoring selection %q: %v", date, err)
		return
	}

	m.selected = &d
	var notes []notice
	if moveToItsMonth {
		if idx := m.indexOfLocked(d); idx >= 0 {
			notes = m.moveToLocked(idx)
		}
	}
	if notes == nil {
		notes = m.presentActiveLocked()
	}
	m.mu.Unlock()

	m.deliver(notes)
}

// ClearSelection drops the selected date.
func (m *Model) ClearSelection() {
	m.mu.Lock()
	m.selected = nil
	notes := m.presentActiveLocked()
	m.mu.Unlock()

	m.deliver(notes)
}

// MoveToDate pages to the month containing date (D/M/YYYY) without
// selecting it. It reports whether such a month exists.
func (m *Model) MoveToDate(date string) bool {
	m.mu.Lock()
	d, err := ParseCanonical(date, m.activeLocaleLocked())
	if err != nil {
		m.mu.Unlock()
		return false
	}
	idx := m.indexOfLocked(d)
	notes := m.moveToLocked(idx)
	m.mu.Unlock()

	m.deliver(notes)
	return idx >= 0
}

// annotate runs fn on the month at position and refreshes the presenter if
// that month is on screen. Unknown positions are ignored.
func (m *Model) annotate(position int, fn func(*Month)) {
	m.mu.Lock()
	if position < 0 || position >= len(m.months) {
		m.mu.Unlock()
		return
	}
	fn(m.months[position])
	var notes []notice
	if position == m.position {
		notes = m.presentActiveLocked()
	}
	m.mu.Unlock()

	m.deliver(notes)
}

// SetAnnotation attaches value to date (D/M/YYYY) in the month at position.
func (m *Model) SetAnnotation(position int, date, value string) {
	if date == "" {
		return
	}
	m.annotate(position, func(month *Month) {
		month.setAnnotation(date, value)
	})
}

// SetAnnotations replaces the whole overlay of the month at position.
func (m *Model) SetAnnotations(position int, values map[string]string) {
	if values == nil {
		return
	}
	m.annotate(position, func(month *Month) {
		month.setAnnotations(values)
	})
}

// RemoveAnnotation drops the annotation of date in the month at position.
func (m *Model) RemoveAnnotation(position int, date string) {
	m.annotate(position, func(month *Month) {
		month.removeAnnotation(date)
	})
}

// ClearAnnotations empties the overlay of the month at position.
func (m *Model) ClearAnnotations(position int) {
	m.annotate(position, func(month *Month) {
		month.clearAnnotations()
	})
}

// Annotation returns the annotation of date in the month at position.
func (m *Model) Annotation(position int, date string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if position < 0 || position >= len(m.months) {
		return "", false
	}
	return m.months[position].annotation(date)
}

// Annotations returns a copy of the overlay of the month at position.
func (m *Model) Annotations(position int) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if position < 0 || position >= len(m.months) {
		return nil
	}
	return m.months[position].copyAnnotations()
}

// AnnotateDate attaches value to date in every month whose grid shows it,
// padding included. It returns the number of months touched.
func (m *Model) AnnotateDate(date, value string) int {
	m.mu.Lock()
	touched := 0
	activeTouched := false
	for i, month := range m.months {
		if month.GridIndex(date) < 0 {
			continue
		}
		month.setAnnotation(date, value)
		touched++
		if i == m.position {
			activeTouched = true
		}
	}
	var notes []notice
	if activeTouched {
		notes = m.presentActiveLocked()
	}
	m.mu.Unlock()

	m.deliver(notes)
	return touched
}

// Cells returns the presenter input for the active month: seven weekday
// headers followed by one cell per grid date. A cell that fails to resolve
// is reported to the listener and keeps its previous content.
func (m *Model) Cells() []Cell {
	m.mu.Lock()
	month, ok := m.activeLocked()
	if !ok {
		m.mu.Unlock()
		return nil
	}

	if m.lastCells == nil {
		m.lastCells = make(map[int]Cell, len(month.Grid))
	}

	cells := make([]Cell, 0, DaysInWeek+len(month.Grid))
	for _, name := range WeekdayHeaders(month.Locale) {
		cells = append(cells, Cell{DisplayText: name, State: StateHeader})
	}

	var notes []notice
	now := m.now()
	for i, d := range month.Grid {
		cell, err := m.cellLocked(month, i, d, now)
		if err != nil {
			notes = append(notes, notice{err: &RenderError{CellIndex: i, Date: d.Canonical(), Err: err}})
			if prev, ok := m.lastCells[i]; ok {
				cell = prev
			} else {
				cell = Cell{Date: d, State: StateBlank, InMonth: month.InMonth(i)}
			}
		} else {
			m.lastCells[i] = cell
		}
		cells = append(cells, cell)
	}
	m.mu.Unlock()

	m.deliver(notes)
	return cells
}

func (m *Model) cellLocked(month *Month, i int, d Date, now time.Time) (Cell, error) {
	inMonth := month.InMonth(i)
	cell := Cell{Date: d, InMonth: inMonth}

	// Hidden padding is blank whatever the policy says.
	if !inMonth && !m.policy.ShowAdjacentMonthDates {
		cell.State = StateBlank
		return cell, nil
	}

	text, err := d.Format(month.DisplayFormat)
	if err != nil {
		return cell, err
	}

	res := m.resolver.resolve(d, m.selected, now)
	cell.DisplayText = text
	cell.Clickable = res.Clickable
	cell.State = res.State
	cell.Faded = res.Faded
	if !inMonth && res.State != StateSelected {
		cell.State = StateAdjacentMonthDimmed
	}

	if a, ok := month.annotations[month.gridKeys[i]]; ok {
		cell.Annotation = a
		cell.HasAnnotation = true
	}

	return cell, nil
}

// Dispatch handles a click on the active month's grid. Clicks on cells that
// are not clickable, or that no longer hold ev.Date, are ignored. It
// reports whether the click was accepted.
func (m *Model) Dispatch(ev ClickEvent) bool {
	m.mu.Lock()
	month, ok := m.activeLocked()
	if !ok || ev.CellIndex < 0 || ev.CellIndex >= len(month.Grid) {
		m.mu.Unlock()
		return false
	}

	d := month.Grid[ev.CellIndex]
	if !d.Equal(ev.Date) {
		m.mu.Unlock()
		m.logger.Printf("Dropping stale click on cell %d: %s != %s", ev.CellIndex, ev.Date, d)
		return false
	}

	var notes []notice
	cell, err := m.cellLocked(month, ev.CellIndex, d, m.now())
	if err != nil {
		notes = append(notes, notice{err: &RenderError{CellIndex: ev.CellIndex, Date: d.Canonical(), Err: err}})
		m.mu.Unlock()
		m.deliver(notes)
		return false
	}
	if !cell.Clickable {
		m.mu.Unlock()
		return false
	}

	m.selected = &d
	notes = append(notes, notice{present: month})
	if text, err := d.Format(month.ClickedFormat); err != nil {
		notes = append(notes, notice{err: &RenderError{CellIndex: ev.CellIndex, Date: d.Canonical(), Err: err}})
	} else {
		notes = append(notes, notice{clicked: &text})
	}
	m.mu.Unlock()

	m.deliver(notes)
	return true
}
