package calendar

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu       sync.Mutex
	screens  []ScreenData
	clicks   []string
	errs     []error
	presents []*Month
}

func (r *recorder) OnScreenData(data ScreenData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = append(r.screens, data)
}

func (r *recorder) OnDateClicked(date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, date)
}

func (r *recorder) OnRenderError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) Present(month *Month) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presents = append(r.presents, month)
}

func (r *recorder) lastScreen(t *testing.T) ScreenData {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.screens)
	return r.screens[len(r.screens)-1]
}

// newTestModel returns a model over March 2024 .. February 2025 with the
// clock frozen on 15 March 2024.
func newTestModel(t *testing.T, opts ...Option) (*Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithListener(rec)}, opts...)
	m := New(opts...)
	m.SetPresenter(rec)
	m.SetRelativeRange(12, Future, "", "", "", LocaleUS)
	require.Equal(t, 12, m.Len())
	return m, rec
}

func findCell(t *testing.T, cells []Cell, canonical string) Cell {
	t.Helper()
	for _, c := range cells {
		if c.State != StateHeader && c.Date.Canonical() == canonical {
			return c
		}
	}
	t.Fatalf("no cell for %s", canonical)
	return Cell{}
}

func TestModelRelativeRange(t *testing.T) {
	m, rec := newTestModel(t)

	first, _ := m.Month(0)
	last, _ := m.Month(11)
	assert.Equal(t, "March 2024", first.Header)
	assert.Equal(t, "February 2025", last.Header)

	screen := rec.lastScreen(t)
	assert.Equal(t, 0, screen.Position)
	assert.Equal(t, "March 2024", screen.Header)
	assert.Len(t, screen.PresentMonthDates, 31)
	assert.Len(t, screen.FullGridDates, 35)
	assert.Equal(t, "26/2/2024", screen.FullGridDates[0])
	assert.False(t, screen.HasPrevious)
	assert.True(t, screen.HasNext)
	assert.NotEmpty(t, rec.presents)
}

func TestModelNavigation(t *testing.T) {
	m, rec := newTestModel(t)

	m.Previous()
	assert.Equal(t, 0, m.Position(), "previous on the first month is a no-op")

	m.Next()
	assert.Equal(t, 1, m.Position())
	assert.Equal(t, "April 2024", rec.lastScreen(t).Header)
	assert.True(t, m.HasPrevious())

	before := len(rec.screens)
	m.MoveTo(12)
	m.MoveTo(-1)
	assert.Equal(t, 1, m.Position())
	assert.Len(t, rec.screens, before, "out of range moves emit nothing")

	m.MoveTo(11)
	assert.False(t, m.HasNext())
	m.Next()
	assert.Equal(t, 11, m.Position())

	first, last, ok := m.Span()
	require.True(t, ok)
	assert.Equal(t, "26/2/2024", first.Canonical())
	assert.Equal(t, "2/3/2025", last.Canonical())
}

func TestModelCellsLayout(t *testing.T) {
	m, _ := newTestModel(t)

	cells := m.Cells()
	require.Len(t, cells, DaysInWeek+35)

	for i := 0; i < DaysInWeek; i++ {
		assert.Equal(t, StateHeader, cells[i].State)
		assert.False(t, cells[i].Clickable)
	}
	assert.Equal(t, "Mon", cells[0].DisplayText)

	padding := cells[DaysInWeek]
	assert.Equal(t, StateBlank, padding.State)
	assert.False(t, padding.InMonth)
	assert.False(t, padding.Clickable)
	assert.Empty(t, padding.DisplayText)

	first := findCell(t, cells, "1/3/2024")
	assert.Equal(t, "1", first.DisplayText)
	assert.True(t, first.InMonth)
	assert.True(t, first.Clickable)
	assert.Equal(t, StateNormal, first.State)
}

func TestModelAdjacentMonthDates(t *testing.T) {
	m, _ := newTestModel(t, WithPolicy(Policy{ShowAdjacentMonthDates: true, AllDatesClickable: true}))

	padding := findCell(t, m.Cells(), "26/2/2024")
	assert.Equal(t, StateAdjacentMonthDimmed, padding.State)
	assert.Equal(t, "26", padding.DisplayText)
	assert.True(t, padding.Clickable)

	m.SelectDate("26/2/2024", false)
	assert.Equal(t, StateSelected, findCell(t, m.Cells(), "26/2/2024").State)
}

func TestModelAnnotations(t *testing.T) {
	m, rec := newTestModel(t)

	m.SetAnnotation(0, "15/3/2024", "500 kcal")
	m.MoveTo(0)

	cell := findCell(t, m.Cells(), "15/3/2024")
	assert.True(t, cell.HasAnnotation)
	assert.Equal(t, "500 kcal", cell.Annotation)

	m.RemoveAnnotation(0, "15/3/2024")
	cell = findCell(t, m.Cells(), "15/3/2024")
	assert.False(t, cell.HasAnnotation)
	assert.Empty(t, cell.Annotation)

	before := len(rec.presents)
	m.SetAnnotation(3, "1/6/2024", "off screen")
	assert.Len(t, rec.presents, before, "annotating another month does not redraw")
	got, ok := m.Annotation(3, "1/6/2024")
	assert.True(t, ok)
	assert.Equal(t, "off screen", got)

	m.SetAnnotation(99, "1/6/2024", "ignored")
	m.SetAnnotation(0, "", "ignored")

	m.SetAnnotations(0, map[string]string{"1/3/2024": "a", "2/3/2024": "b"})
	m.SetAnnotations(0, nil)
	overlay := m.Annotations(0)
	assert.Equal(t, map[string]string{"1/3/2024": "a", "2/3/2024": "b"}, overlay)

	overlay["3/3/2024"] = "c"
	_, ok = m.Annotation(0, "3/3/2024")
	assert.False(t, ok, "Annotations returns a copy")

	m.ClearAnnotations(0)
	assert.Empty(t, m.Annotations(0))
	assert.Nil(t, m.Annotations(99))
}

func TestModelAnnotateDate(t *testing.T) {
	m, _ := newTestModel(t)

	// 30 April 2024 is in April and leads the May grid.
	assert.Equal(t, 2, m.AnnotateDate("30/4/2024", "rent"))
	assert.Equal(t, 0, m.AnnotateDate("1/1/1999", "nothing"))

	v, ok := m.Annotation(2, "30/4/2024")
	assert.True(t, ok)
	assert.Equal(t, "rent", v)
}

func TestModelNoClickableDates(t *testing.T) {
	m, _ := newTestModel(t, WithPolicy(Policy{AllDatesClickable: false, FutureOnly: true}))

	for pos := 0; pos < m.Len(); pos++ {
		m.MoveTo(pos)
		for _, c := range m.Cells() {
			assert.False(t, c.Clickable, "%s at position %d", c.Date, pos)
		}
	}
}

func TestModelPolicyPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		selected  string
		date      string
		state     State
		clickable bool
		faded     bool
	}{
		{"selected wins over an empty set", Policy{}, "20/3/2024", "20/3/2024", StateSelected, true, false},
		{"empty set disables", Policy{}, "", "20/3/2024", StateDisabled, false, false},
		{"future only fades the past", Policy{AllDatesClickable: true, FutureOnly: true}, "", "14/3/2024", StateDisabled, false, true},
		{"future only keeps today", Policy{AllDatesClickable: true, FutureOnly: true}, "", "15/3/2024", StateNormal, true, false},
		{"selected wins over future only", Policy{AllDatesClickable: true, FutureOnly: true}, "1/3/2024", "1/3/2024", StateSelected, true, false},
		{"in the clickable set", Policy{ClickableDates: []string{"5/3/2024"}}, "", "5/3/2024", StateNormal, true, false},
		{"outside the clickable set", Policy{ClickableDates: []string{"5/3/2024"}}, "", "6/3/2024", StateDisabled, false, false},
		{"all clickable ignores the set", Policy{AllDatesClickable: true, ClickableDates: []string{"5/3/2024"}}, "", "6/3/2024", StateNormal, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, WithPolicy(tt.policy))
			if tt.selected != "" {
				m.SelectDate(tt.selected, false)
			}

			cell := findCell(t, m.Cells(), tt.date)
			assert.Equal(t, tt.state, cell.State)
			assert.Equal(t, tt.clickable, cell.Clickable)
			assert.Equal(t, tt.faded, cell.Faded)

			res := m.Resolve(cell.Date)
			assert.Equal(t, Resolution{State: tt.state, Clickable: tt.clickable, Faded: tt.faded}, res)
		})
	}
}

func TestModelSetPolicyCopies(t *testing.T) {
	m, _ := newTestModel(t)

	dates := []string{"5/3/2024"}
	m.SetPolicy(Policy{ClickableDates: dates})
	dates[0] = "6/3/2024"

	assert.Equal(t, []string{"5/3/2024"}, m.Policy().ClickableDates)
	assert.True(t, findCell(t, m.Cells(), "5/3/2024").Clickable)
	assert.False(t, findCell(t, m.Cells(), "6/3/2024").Clickable)
}

func TestModelCellsIdempotent(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetAnnotation(0, "15/3/2024", "x")

	assert.Equal(t, m.Cells(), m.Cells())
}

func TestModelSelectDate(t *testing.T) {
	var logs bytes.Buffer
	m, rec := newTestModel(t, WithLogger(log.New(&logs, "", 0)))

	m.SelectDate("4/7/2024", true)
	assert.Equal(t, 4, m.Position())
	assert.Equal(t, "July 2024", rec.lastScreen(t).Header)

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "4/7/2024", selected.Canonical())

	m.SelectDate("1/1/2030", true)
	assert.Equal(t, 4, m.Position(), "dates outside the range select without moving")

	m.SelectDate("not-a-date", true)
	selected, _ = m.Selected()
	assert.Equal(t, "1/1/2030", selected.Canonical())
	assert.Contains(t, logs.String(), "not-a-date")

	m.ClearSelection()
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestModelMoveToDate(t *testing.T) {
	m, _ := newTestModel(t)

	assert.True(t, m.MoveToDate("9/9/2024"))
	assert.Equal(t, 6, m.Position())
	_, ok := m.Selected()
	assert.False(t, ok)

	assert.False(t, m.MoveToDate("9/9/2030"))
	assert.Equal(t, 6, m.Position())
	assert.False(t, m.MoveToDate("junk"))
}

func TestModelDispatch(t *testing.T) {
	m, rec := newTestModel(t)
	month, _ := m.Active()

	idx := month.GridIndex("20/3/2024")
	require.Equal(t, 23, idx)

	assert.True(t, m.Dispatch(ClickEvent{CellIndex: idx, Date: month.Grid[idx]}))
	assert.Equal(t, []string{"20/3/2024"}, rec.clicks)
	assert.Equal(t, StateSelected, findCell(t, m.Cells(), "20/3/2024").State)

	assert.False(t, m.Dispatch(ClickEvent{CellIndex: idx, Date: month.Grid[idx+1]}), "stale date")
	assert.False(t, m.Dispatch(ClickEvent{CellIndex: 0, Date: month.Grid[0]}), "blank padding")
	assert.False(t, m.Dispatch(ClickEvent{CellIndex: 400}))
	assert.Len(t, rec.clicks, 1)
}

func TestModelDispatchClickedFormat(t *testing.T) {
	m, rec := newTestModel(t)
	m.SetRelativeRange(2, Future, "", "", "EEE, d MMM yyyy", LocaleUS)

	month, _ := m.Active()
	idx := month.GridIndex("15/3/2024")
	require.True(t, m.Dispatch(ClickEvent{CellIndex: idx, Date: month.Grid[idx]}))
	assert.Equal(t, []string{"Fri, 15 Mar 2024"}, rec.clicks)
}

func TestModelDispatchDisabled(t *testing.T) {
	m, rec := newTestModel(t, WithPolicy(Policy{AllDatesClickable: true, FutureOnly: true}))
	month, _ := m.Active()

	idx := month.GridIndex("14/3/2024")
	assert.False(t, m.Dispatch(ClickEvent{CellIndex: idx, Date: month.Grid[idx]}))
	assert.Empty(t, rec.clicks)
}

func TestModelRenderError(t *testing.T) {
	m, rec := newTestModel(t)
	m.SetRelativeRange(1, Future, "", "d HH", "", LocaleUS)

	cells := m.Cells()
	require.Len(t, cells, DaysInWeek+35)
	for _, c := range cells[DaysInWeek:] {
		assert.Equal(t, StateBlank, c.State)
		assert.False(t, c.Clickable)
	}

	require.Len(t, rec.errs, 31)
	renderErr, ok := IsRenderError(rec.errs[0])
	require.True(t, ok)
	assert.Equal(t, "1/3/2024", renderErr.Date)
	assert.Equal(t, 4, renderErr.CellIndex)
	_, ok = IsConfigError(renderErr)
	assert.True(t, ok)
}

func TestModelFailsClosed(t *testing.T) {
	var logs bytes.Buffer
	m, _ := newTestModel(t, WithLogger(log.New(&logs, "", 0)))

	m.SetRange(RangeSpec{Start: "whenever", End: "later", Locale: LocaleUS})
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Cells())
	_, ok := m.Active()
	assert.False(t, ok)
	_, _, ok = m.Span()
	assert.False(t, ok)
	assert.False(t, m.HasNext())
	assert.False(t, m.HasPrevious())
	assert.False(t, m.Dispatch(ClickEvent{}))
	assert.Contains(t, logs.String(), "Failed to build months")
}

func TestModelSetListenerEmitsImmediately(t *testing.T) {
	m, _ := newTestModel(t)
	m.MoveTo(2)

	var got []ScreenData
	m.SetListener(ListenerFuncs{ScreenData: func(d ScreenData) {
		// Callbacks run outside the lock.
		assert.Equal(t, 2, m.Position())
		got = append(got, d)
	}})

	require.Len(t, got, 1)
	assert.Equal(t, "May 2024", got[0].Header)

	m.Next()
	assert.Len(t, got, 2)
}

func TestModelConcurrentAccess(t *testing.T) {
	m, _ := newTestModel(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					m.Next()
				case 1:
					m.Previous()
				case 2:
					m.Cells()
				default:
					m.AnnotateDate("10/4/2024", "busy")
				}
			}
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, m.Position(), 0)
	assert.Less(t, m.Position(), m.Len())
}

func TestModelConcurrentAnnotationReads(t *testing.T) {
	m, _ := newTestModel(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			m.SetAnnotation(0, "15/3/2024", fmt.Sprintf("note %d", j))
		}
	}()
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			_ = m.Annotations(0)
			m.Annotation(0, "15/3/2024")
		}
	}()
	wg.Wait()

	got, ok := m.Annotation(0, "15/3/2024")
	assert.True(t, ok)
	assert.Equal(t, "note 199", got)
}

func TestModelMoveToActiveIsIdempotent(t *testing.T) {
	m, rec := newTestModel(t)

	m.MoveTo(3)
	first := rec.lastScreen(t)
	count := len(rec.screens)

	m.MoveTo(m.Position())
	require.Len(t, rec.screens, count+1)
	assert.Equal(t, first, rec.lastScreen(t))
}
