package gamedate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid game date")

// String formats the date the way game data files write it: "1936.1.1".
// A non-zero hour is appended as "1936.1.1 12h".
func (g GameDate) String() string {
	if g.Hour != 0 {
		return fmt.Sprintf("%d.%d.%d %dh", g.Year, g.Month, g.Day, g.Hour)
	}
	return fmt.Sprintf("%d.%d.%d", g.Year, g.Month, g.Day)
}

// Parse reads "YYYY.M.D" with an optional " Hh" suffix. The year may be negative.
func Parse(s string) (GameDate, error) {
	s = strings.TrimSpace(s)
	datePart, hourPart, hasHour := strings.Cut(s, " ")

	fields := strings.Split(datePart, ".")
	if len(fields) != 3 {
		return GameDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	var parts [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return GameDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		parts[i] = v
	}
	if parts[1] < 1 || parts[1] > MonthsPerYear || parts[2] < 1 || parts[2] > DaysPerMonth {
		return GameDate{}, fmt.Errorf("%w: %q out of range", ErrInvalidDate, s)
	}

	g := New(parts[0], parts[1], parts[2])
	if hasHour {
		h, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(hourPart), "h"))
		if err != nil || h < 0 || h > 23 {
			return GameDate{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidDate, s)
		}
		g.Hour = h
	}
	return g, nil
}

// MustParse is Parse for constants in tests and presets.
func MustParse(s string) GameDate {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GameDate) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GameDate) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
