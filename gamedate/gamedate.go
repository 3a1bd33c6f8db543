/*
Package gamedate provides the fixed-length game calendar.

PURPOSE:
  Research speeds are expressed in game days, and the game calendar is not
  the Gregorian one: every month has exactly 30 days and every year exactly
  360 days. GameDate is the value type used for reference dates, offsets
  from historical years and completion dates.

KEY CONCEPTS:
  - GameDate: (year, month, day, hour) on the 360-day calendar
  - Day offset: year*360 + (month-1)*30 + (day-1), the linear form used for
    all arithmetic
  - Hour: carried for display only, never part of arithmetic or ordering

DESIGN PRINCIPLES:
  1. Immutability: every operation returns a new GameDate
  2. No validation: callers supply month 1..12 and day 1..30; arithmetic
     always renormalizes month/day
  3. Negative offsets produce negative years, they are not clamped

USAGE:
  start := gamedate.New(1936, 1, 1)
  end := start.Plus(45)                      // 1936.2.16
  days := end.Difference(start)              // 45
  offset := start.DifferenceFromYear(1938)   // -720

SEE ALSO:
  - format.go: parsing and formatting
  - research/research.go: completion dates
*/
package gamedate

// =============================================================================
// CALENDAR CONSTANTS
// =============================================================================

const (
	DaysPerMonth  = 30
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear
)

// =============================================================================
// GAME DATE
// =============================================================================

// GameDate is a point on the 360-day game calendar.
type GameDate struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// New returns the date at hour 0.
func New(year, month, day int) GameDate {
	return GameDate{Year: year, Month: month, Day: day}
}

// NewWithHour returns the date at the given hour.
func NewWithHour(year, month, day, hour int) GameDate {
	return GameDate{Year: year, Month: month, Day: day, Hour: hour}
}

// StartOfYear returns January 1st of the given year.
func StartOfYear(year int) GameDate { return New(year, 1, 1) }

// FromOffset converts a linear day offset back to a date.
// Floor division keeps month and day in range for negative offsets.
func FromOffset(offset int) GameDate {
	year := floorDiv(offset, DaysPerYear)
	rem := offset - year*DaysPerYear
	return GameDate{
		Year:  year,
		Month: rem/DaysPerMonth + 1,
		Day:   rem%DaysPerMonth + 1,
	}
}

// Offset returns the linear day offset of the date.
func (g GameDate) Offset() int {
	return g.Year*DaysPerYear + (g.Month-1)*DaysPerMonth + (g.Day - 1)
}

// Arithmetic
func (g GameDate) Plus(days int) GameDate  { return g.shift(days) }
func (g GameDate) Minus(days int) GameDate { return g.shift(-days) }

func (g GameDate) shift(days int) GameDate {
	d := FromOffset(g.Offset() + days)
	d.Hour = g.Hour
	return d
}

// Difference returns the signed number of days from other to g.
func (g GameDate) Difference(other GameDate) int {
	return DaysPerYear*(g.Year-other.Year) +
		DaysPerMonth*(g.Month-other.Month) +
		(g.Day - other.Day)
}

// DifferenceFromYear returns the signed number of days from January 1st of year to g.
func (g GameDate) DifferenceFromYear(year int) int {
	return g.Difference(StartOfYear(year))
}

// Comparison (hour is ignored)
func (g GameDate) Compare(other GameDate) int {
	switch d := g.Difference(other); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func (g GameDate) Before(other GameDate) bool        { return g.Compare(other) < 0 }
func (g GameDate) After(other GameDate) bool         { return g.Compare(other) > 0 }
func (g GameDate) Equal(other GameDate) bool         { return g.Compare(other) == 0 }
func (g GameDate) BeforeOrEqual(other GameDate) bool { return g.Compare(other) <= 0 }
func (g GameDate) AfterOrEqual(other GameDate) bool  { return g.Compare(other) >= 0 }

// Properties
func (g GameDate) DayOfYear() int { return (g.Month-1)*DaysPerMonth + g.Day }
func (g GameDate) IsZero() bool   { return g == GameDate{} }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
