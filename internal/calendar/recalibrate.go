package calendar

// DaysInWeek is the number of columns in a month grid.
const DaysInWeek = 7

// Recalibrate pads a month's ascending dates with the neighbouring months'
// days so the result starts on the locale's first weekday and ends on its
// last one. The length of the result is always a multiple of seven.
func Recalibrate(dates []Date) []Date {
	if len(dates) == 0 {
		return []Date{}
	}

	first := dates[0]
	last := dates[len(dates)-1]
	lead := first.WeekdayIndex() - 1
	trail := DaysInWeek - last.WeekdayIndex()

	grid := make([]Date, 0, lead+len(dates)+trail)

	// Walk backwards from the first day, then flip the run so it reads
	// chronologically.
	prev := first
	for i := 0; i < lead; i++ {
		prev = prev.AddDays(-1)
		grid = append(grid, prev)
	}
	for i, j := 0, len(grid)-1; i < j; i, j = i+1, j-1 {
		grid[i], grid[j] = grid[j], grid[i]
	}

	grid = append(grid, dates...)

	next := last
	for i := 0; i < trail; i++ {
		next = next.AddDays(1)
		grid = append(grid, next)
	}

	return grid
}
