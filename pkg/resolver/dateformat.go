package resolver

import (
	"fmt"
	"strings"
	"time"
)

// dateFormatter renders and parses instants using a date-pattern string of
// the `uuuu.MM.dd` family. Patterns translate to a fixed reference layout;
// unsupported pattern letters are rejected up front so a bad format fails
// the request instead of producing garbage names.
type dateFormatter struct {
	pattern string
	layout  string
	loc     *time.Location
}

var patternTokens = map[string]string{
	"uuuu": "2006",
	"yyyy": "2006",
	"uu":   "06",
	"yy":   "06",
	"MM":   "01",
	"M":    "1",
	"dd":   "02",
	"d":    "2",
	"HH":   "15",
	"H":    "15",
	"hh":   "03",
	"h":    "3",
	"mm":   "04",
	"m":    "4",
	"ss":   "05",
	"s":    "5",
}

func newDateFormatter(pattern string) (dateFormatter, error) {
	var layout strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			layout.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		run := pattern[i:j]
		goToken, ok := patternTokens[run]
		if !ok {
			return dateFormatter{}, fmt.Errorf("unsupported date format pattern [%s]", pattern)
		}
		layout.WriteString(goToken)
		i = j
	}
	return dateFormatter{pattern: pattern, layout: layout.String(), loc: time.UTC}, nil
}

func (f dateFormatter) withZone(loc *time.Location) dateFormatter {
	f.loc = loc
	return f
}

func (f dateFormatter) format(t time.Time) string {
	return t.In(f.loc).Format(f.layout)
}

func (f dateFormatter) parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(f.layout, s, f.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date [%s] with format [%s]: %w", s, f.pattern, err)
	}
	return t, nil
}

// parseTimeZone resolves a timezone id: a fixed offset like `+02:00` or a
// named zone like `Europe/Berlin`.
func parseTimeZone(id string) (*time.Location, error) {
	if id == "" || id == "UTC" || id == "Z" {
		return time.UTC, nil
	}
	if id[0] == '+' || id[0] == '-' {
		var hours, minutes int
		var err error
		switch {
		case len(id) == 6 && id[3] == ':':
			_, err = fmt.Sscanf(id, "%3d:%02d", &hours, &minutes)
		case len(id) == 3:
			_, err = fmt.Sscanf(id, "%3d", &hours)
		default:
			err = fmt.Errorf("unrecognized offset")
		}
		if err != nil {
			return nil, fmt.Errorf("invalid timezone offset [%s]", id)
		}
		offset := hours * 3600
		if hours < 0 {
			offset -= minutes * 60
		} else {
			offset += minutes * 60
		}
		return time.FixedZone(id, offset), nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone [%s]", id)
	}
	return loc, nil
}

// evalDateMath evaluates a date math expression (`now-1d/d`, or an anchor
// date followed by `||` and operations) against nowMillis in the
// formatter's zone.
func evalDateMath(math string, nowMillis int64, f dateFormatter) (time.Time, error) {
	var t time.Time
	var ops string
	if strings.HasPrefix(math, "now") {
		t = time.UnixMilli(nowMillis).In(f.loc)
		ops = math[3:]
	} else if idx := strings.Index(math, "||"); idx >= 0 {
		anchor, err := f.parse(math[:idx])
		if err != nil {
			return time.Time{}, err
		}
		t = anchor
		ops = math[idx+2:]
	} else {
		anchor, err := f.parse(math)
		if err != nil {
			return time.Time{}, err
		}
		return anchor, nil
	}

	for i := 0; i < len(ops); {
		switch ops[i] {
		case '/':
			if i+1 >= len(ops) {
				return time.Time{}, fmt.Errorf("truncated date math [%s]", math)
			}
			var err error
			t, err = roundDown(t, ops[i+1], f.loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid date math [%s]: %w", math, err)
			}
			i += 2
		case '+', '-':
			sign := 1
			if ops[i] == '-' {
				sign = -1
			}
			i++
			n := 0
			digits := 0
			for i < len(ops) && ops[i] >= '0' && ops[i] <= '9' {
				n = n*10 + int(ops[i]-'0')
				digits++
				i++
			}
			if digits == 0 {
				n = 1
			}
			if i >= len(ops) {
				return time.Time{}, fmt.Errorf("truncated date math [%s]", math)
			}
			var err error
			t, err = addUnit(t, sign*n, ops[i])
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid date math [%s]: %w", math, err)
			}
			i++
		default:
			return time.Time{}, fmt.Errorf("operator not supported for date math [%s]", math)
		}
	}
	return t, nil
}

func addUnit(t time.Time, n int, unit byte) (time.Time, error) {
	switch unit {
	case 'y':
		return t.AddDate(n, 0, 0), nil
	case 'M':
		return t.AddDate(0, n, 0), nil
	case 'w':
		return t.AddDate(0, 0, 7*n), nil
	case 'd':
		return t.AddDate(0, 0, n), nil
	case 'h', 'H':
		return t.Add(time.Duration(n) * time.Hour), nil
	case 'm':
		return t.Add(time.Duration(n) * time.Minute), nil
	case 's':
		return t.Add(time.Duration(n) * time.Second), nil
	}
	return time.Time{}, fmt.Errorf("unit [%c] not supported", unit)
}

func roundDown(t time.Time, unit byte, loc *time.Location) (time.Time, error) {
	t = t.In(loc)
	y, mo, d := t.Date()
	switch unit {
	case 'y':
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	case 'M':
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc), nil
	case 'w':
		day := time.Date(y, mo, d, 0, 0, 0, 0, loc)
		// ISO weeks start on Monday.
		delta := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -delta), nil
	case 'd':
		return time.Date(y, mo, d, 0, 0, 0, 0, loc), nil
	case 'h', 'H':
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc), nil
	case 'm':
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc), nil
	case 's':
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unit [%c] not supported for rounding", unit)
}
