package calendar

// Month is one paged unit of the calendar: the days of a single month, the
// week-aligned grid around them and a sparse annotation overlay.
type Month struct {
	Header        string // month-year label in HeaderFormat
	HeaderFormat  string
	DisplayFormat string // in-grid day text
	ClickedFormat string // value emitted on click
	DatesFormat   string // canonical internal format
	Dates         []Date // the month's own days, ascending
	Grid          []Date // Dates padded to whole weeks
	Locale        Locale

	gridKeys    []string
	annotations map[string]string
}

func newMonth(header string, spec RangeSpec, dates []Date) *Month {
	grid := Recalibrate(dates)
	keys := make([]string, len(grid))
	for i, d := range grid {
		keys[i] = d.Canonical()
	}

	return &Month{
		Header:        header,
		HeaderFormat:  spec.HeaderFormat,
		DisplayFormat: spec.DisplayFormat,
		ClickedFormat: spec.ClickedFormat,
		DatesFormat:   CanonicalPattern,
		Dates:         dates,
		Grid:          grid,
		Locale:        spec.Locale,
		gridKeys:      keys,
		annotations:   make(map[string]string),
	}
}

// PaddingFront returns how many days of the previous month lead the grid.
func (m *Month) PaddingFront() int {
	if len(m.Dates) == 0 {
		return 0
	}
	return m.Dates[0].WeekdayIndex() - 1
}

// InMonth reports whether grid index i holds one of the month's own days.
func (m *Month) InMonth(i int) bool {
	front := m.PaddingFront()
	return i >= front && i < front+len(m.Dates)
}

// GridIndex returns the grid position of a canonical date string, or -1.
func (m *Month) GridIndex(canonical string) int {
	for i, key := range m.gridKeys {
		if key == canonical {
			return i
		}
	}
	return -1
}

// DateStrings returns the month's own days as canonical strings.
func (m *Month) DateStrings() []string {
	front := m.PaddingFront()
	out := make([]string, len(m.Dates))
	copy(out, m.gridKeys[front:front+len(m.Dates)])
	return out
}

// GridStrings returns the full grid as canonical strings.
func (m *Month) GridStrings() []string {
	out := make([]string, len(m.gridKeys))
	copy(out, m.gridKeys)
	return out
}

// The overlay is guarded by the owning Model's lock. It is only read
// through Model.Annotation and Model.Annotations.
func (m *Month) annotation(canonical string) (string, bool) {
	v, ok := m.annotations[canonical]
	return v, ok
}

func (m *Month) copyAnnotations() map[string]string {
	out := make(map[string]string, len(m.annotations))
	for k, v := range m.annotations {
		out[k] = v
	}
	return out
}

func (m *Month) setAnnotation(key, value string) {
	m.annotations[key] = value
}

func (m *Month) setAnnotations(values map[string]string) {
	m.annotations = make(map[string]string, len(values))
	for k, v := range values {
		m.annotations[k] = v
	}
}

func (m *Month) removeAnnotation(key string) {
	delete(m.annotations, key)
}

func (m *Month) clearAnnotations() {
	m.annotations = make(map[string]string)
}
