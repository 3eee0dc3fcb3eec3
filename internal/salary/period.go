package salary

import "strings"

// Period is the pay period a raw salary figure is quoted in.
type Period string

const (
	PeriodYear    Period = "year"
	PeriodMonth   Period = "month"
	PeriodWeek    Period = "week"
	PeriodDay     Period = "day"
	PeriodHour    Period = "hour"
	PeriodUnknown Period = ""
)

var periodAliases = map[string]Period{
	"year":      PeriodYear,
	"years":     PeriodYear,
	"yearly":    PeriodYear,
	"annual":    PeriodYear,
	"annually":  PeriodYear,
	"annum":     PeriodYear,
	"per annum": PeriodYear,
	"pa":        PeriodYear,
	"p.a.":      PeriodYear,
	"yr":        PeriodYear,
	"y":         PeriodYear,
	"month":     PeriodMonth,
	"months":    PeriodMonth,
	"monthly":   PeriodMonth,
	"mo":        PeriodMonth,
	"mth":       PeriodMonth,
	"pm":        PeriodMonth,
	"week":      PeriodWeek,
	"weeks":     PeriodWeek,
	"weekly":    PeriodWeek,
	"wk":        PeriodWeek,
	"day":       PeriodDay,
	"days":      PeriodDay,
	"daily":     PeriodDay,
	"hour":      PeriodHour,
	"hours":     PeriodHour,
	"hourly":    PeriodHour,
	"hr":        PeriodHour,
	"h":         PeriodHour,
}

// ParsePeriod maps a free-text period indicator ("month", "/hr", "per year",
// "HOURLY") to a Period. Anything unrecognized yields PeriodUnknown.
func ParsePeriod(s string) Period {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimLeft(s, "/ ")
	s = strings.TrimPrefix(s, "per ")
	s = strings.TrimPrefix(s, "a ")
	s = strings.TrimPrefix(s, "an ")
	s = strings.TrimSpace(s)
	if p, ok := periodAliases[s]; ok {
		return p
	}
	return PeriodUnknown
}

// Multiplier returns the factor that turns one period's pay into annual pay.
//
// PeriodUnknown multiplies by 1: a figure without a recognizable period is
// taken to be annual already. Monthly figures missing their period tag are
// therefore not annualized here and are left for the validity gate to catch.
func (p Period) Multiplier() float64 {
	switch p {
	case PeriodMonth:
		return 12
	case PeriodWeek:
		return 52
	case PeriodDay:
		return 260
	case PeriodHour:
		return 2080
	default:
		return 1
	}
}
