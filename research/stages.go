/*
stages.go - Day accumulation for one component

PURPOSE:
  Solves how many days a component needs to accumulate 100 progress units
  when the progress rate depends on the day offset from the technology's
  historical date.

RATE MODEL (factor applied to the base progress):
  offset < floor boundary   floor factor (constant)
  boundary <= offset < 0    1 + penalty*(-offset), rising to 1 at offset 0
  0 <= offset < delay       1 (DH only: bonus withheld for a year)
  delay <= offset           1 + bonus*(offset-delay), capped at the ceiling

STAGES:
  Each stage covers one region of the rate model and either finishes the
  component inside its region or consumes the whole region and hands the
  remaining progress to the next stage:

    pre-historical floor   -> constant floor rate
    pre-historical linear  -> linearly rising rate (quadratic)
    flat                   -> terminal when no bonus applies
    delayed bonus          -> constant rate until the bonus starts
    post-historical linear -> linearly rising rate (quadratic)
    post-historical cap    -> terminal, constant ceiling rate

ROUNDING:
  Every stage's day count is rounded up to a whole day when added to the
  total. The offset and remaining progress carried to the next stage use
  the exact value.
*/
package research

import (
	"fmt"
	"math"
)

// dayEpsilon absorbs float noise before rounding up to whole days.
const dayEpsilon = 1e-9

// =============================================================================
// CURVE - progress rate as a function of the offset
// =============================================================================

type curve struct {
	base      float64
	preSlope  float64
	floor     float64
	bonus     bool
	postSlope float64
	ceiling   float64
	delay     float64
}

func newCurve(base float64, sp Speciality, rules Ruleset) curve {
	return curve{
		base:      base,
		preSlope:  rules.PreHistoricalPenalty,
		floor:     rules.preHistoricalFloor(),
		bonus:     rules.bonusApplies(sp),
		postSlope: rules.PostHistoricalBonus,
		ceiling:   rules.PostHistoricalLimit,
		delay:     rules.bonusDelay(),
	}
}

// segment accrues progress over at most limit days starting at factor and
// changing by slope per day. A limit of +Inf means the segment never ends.
func (c curve) segment(factor, slope, limit, remaining float64) (outcome, error) {
	rate := c.base * factor
	accel := c.base * slope

	if !math.IsInf(limit, 1) {
		gained := rate*limit + accel*limit*limit/2
		if gained < remaining {
			return advance(limit, gained), nil
		}
	}
	if slope == 0 {
		return finish(remaining / rate), nil
	}
	days, err := SolveQuadratic(accel/2, rate, -remaining)
	if err != nil {
		return outcome{}, err
	}
	return finish(days), nil
}

// =============================================================================
// STAGE RESULT
// =============================================================================

// span is the exact state handed from one stage to the next.
type span struct {
	remaining float64
	offset    float64
}

// outcome is either done (days to finish) or a continuation (days and
// progress consumed). The zero value skips the stage.
type outcome struct {
	done     bool
	days     float64
	progress float64
}

func finish(days float64) outcome            { return outcome{done: true, days: days} }
func advance(days, progress float64) outcome { return outcome{days: days, progress: progress} }

type stage struct {
	name string
	run  func(c curve, s span) (outcome, error)
}

var stages = []stage{
	{"pre-historical floor", preHistoricalFloorStage},
	{"pre-historical linear", preHistoricalLinearStage},
	{"flat", flatStage},
	{"delayed bonus", delayedBonusStage},
	{"post-historical linear", postHistoricalLinearStage},
	{"post-historical cap", postHistoricalCapStage},
}

// =============================================================================
// STAGES
// =============================================================================

func preHistoricalFloorStage(c curve, s span) (outcome, error) {
	if s.offset >= 0 || c.preSlope >= 0 {
		return outcome{}, nil
	}
	boundary := math.Min(0, (1-c.floor)/c.preSlope)
	if s.offset >= boundary {
		return outcome{}, nil
	}
	return c.segment(c.floor, 0, boundary-s.offset, s.remaining)
}

func preHistoricalLinearStage(c curve, s span) (outcome, error) {
	if s.offset >= 0 {
		return outcome{}, nil
	}
	if c.preSlope >= 0 {
		return c.segment(1, 0, -s.offset, s.remaining)
	}
	factor := math.Max(c.floor, 1+c.preSlope*(-s.offset))
	return c.segment(factor, -c.preSlope, -s.offset, s.remaining)
}

func flatStage(c curve, s span) (outcome, error) {
	if c.bonus {
		return outcome{}, nil
	}
	return finish(s.remaining / c.base), nil
}

func delayedBonusStage(c curve, s span) (outcome, error) {
	if s.offset >= c.delay {
		return outcome{}, nil
	}
	return c.segment(1, 0, c.delay-s.offset, s.remaining)
}

func postHistoricalLinearStage(c curve, s span) (outcome, error) {
	factor := 1 + c.postSlope*(s.offset-c.delay)
	if factor >= c.ceiling {
		return outcome{}, nil
	}
	return c.segment(factor, c.postSlope, (c.ceiling-factor)/c.postSlope, s.remaining)
}

func postHistoricalCapStage(c curve, s span) (outcome, error) {
	return finish(s.remaining / (c.base * c.ceiling)), nil
}

// =============================================================================
// PIPELINE
// =============================================================================

// AccumulateDays returns the whole days a component with the given base
// progress and speciality needs when it starts offset days after the
// historical date, and the offset at which the next component starts.
func AccumulateDays(base float64, sp Speciality, offset int, rules Ruleset) (days, next int, err error) {
	if !(base > 0) || math.IsInf(base, 0) {
		return 0, offset, ErrInvalidProgress
	}
	days, err = runStages(newCurve(base, sp, rules), offset)
	if err != nil {
		return 0, offset, err
	}
	return days, offset + days, nil
}

func runStages(c curve, offset int) (int, error) {
	s := span{remaining: CompletionProgress, offset: float64(offset)}
	total := 0
	for _, st := range stages {
		out, err := st.run(c, s)
		if err != nil {
			return 0, fmt.Errorf("%s stage: %w", st.name, err)
		}
		if out.done {
			return total + wholeDays(out.days), nil
		}
		if out.days > 0 {
			total += wholeDays(out.days)
			s.remaining -= out.progress
			s.offset += out.days
		}
	}
	return 0, fmt.Errorf("no stage completed at offset %.2f: %w", s.offset, ErrInvalidProgress)
}

func wholeDays(d float64) int {
	return int(math.Ceil(d - dayEpsilon))
}
