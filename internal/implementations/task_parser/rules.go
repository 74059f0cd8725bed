package taskparser

import (
	"linetask/internal/core/domain/task"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-module/carbon/v2"
	"github.com/olebedev/when/rules"
)

// Every expression starts with a capture group and ends with one, so the span
// reported by the engine covers the whole phrase.
var (
	reCasualDay    = regexp.MustCompile(`(今日|きょう|本日|明後日|あさって|明日|あした|あす)`)
	reRelativeDays = regexp.MustCompile(`(\d{1,3})(日後|日間|週間後)`)
	reRelativeSpan = regexp.MustCompile(`(再来週|来週|再来月|来月)`)
	reWeekend      = regexp.MustCompile(`(今週末|週末|しゅうまつ)`)
	reWeekday      = regexp.MustCompile(`(今週|再来週|来週)?(の)?(月|火|水|木|金|土|日)(曜日|曜)`)
	reWeekdayParen = regexp.MustCompile(`(\()(月|火|水|木|金|土|日)(\))`)
	reDayOfMonth   = regexp.MustCompile(`(\d{1,2})(日)(?:までに|まで|に|$)`)
	reSlashDate    = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)
	reMonthDay     = regexp.MustCompile(`(\d{1,2})(月)(\d{1,2})(日)`)
	reAbsoluteDate = regexp.MustCompile(`(\d{4})(年|/|-)(\d{1,2})(?:月|/|-)(\d{1,2})(日)?`)
)

var weekdays = map[string]int{"月": 1, "火": 2, "水": 3, "木": 4, "金": 5, "土": 6, "日": 7}

// resolveFunc maps the groups of a match to a deadline. today is noon UTC of
// the local calendar date, so carbon never shifts the date.
type resolveFunc func(groups []string, today carbon.Carbon) (task.Date, bool)

type dateRule struct {
	re      *regexp.Regexp
	resolve resolveFunc
}

// japaneseRules are ordered by priority. When several rules match the same
// phrase the engine applies them in this order and the last one wins.
var japaneseRules = []dateRule{
	{re: reCasualDay, resolve: casualDay},
	{re: reRelativeDays, resolve: relativeDays},
	{re: reRelativeSpan, resolve: relativeSpan},
	{re: reWeekend, resolve: weekend},
	{re: reWeekday, resolve: weekday},
	{re: reWeekdayParen, resolve: weekdayParen},
	{re: reDayOfMonth, resolve: dayOfMonth},
	{re: reSlashDate, resolve: slashDate},
	{re: reMonthDay, resolve: monthDay},
	{re: reAbsoluteDate, resolve: absoluteDate},
}

func whenRules() []rules.Rule {
	result := make([]rules.Rule, 0, len(japaneseRules))
	for _, r := range japaneseRules {
		result = append(result, r.whenRule())
	}
	return result
}

func (r dateRule) whenRule() rules.Rule {
	return readingRule{re: r.re, rule: &rules.F{
		RegExp: r.re,
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			groups := r.re.FindStringSubmatch(m.Text)
			if groups == nil {
				return false, nil
			}
			date, ok := r.resolve(groups, dateCarbon(task.DateOf(ref)))
			if !ok {
				return false, nil
			}
			target := time.Date(
				date.Year, date.Month, date.Day,
				ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(),
				ref.Location(),
			)
			c.Duration = target.Sub(ref)
			return true, nil
		},
	}}
}

func dateCarbon(d task.Date) carbon.Carbon {
	return carbon.Time2Carbon(d.Time().Add(12 * time.Hour)).SetTimezone(carbon.UTC)
}

func carbonDate(c carbon.Carbon) task.Date {
	return task.DateOf(c.Carbon2Time())
}

// validDate rejects dates time.Date would normalise, like February 30.
func validDate(year int, month int, day int) (task.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return task.Date{}, false
	}
	d := task.NewDate(year, time.Month(month), day)
	if d.Year != year || d.Month != time.Month(month) || d.Day != day {
		return task.Date{}, false
	}
	return d, true
}

func casualDay(groups []string, today carbon.Carbon) (task.Date, bool) {
	switch groups[1] {
	case "今日", "きょう", "本日":
		return carbonDate(today), true
	case "明日", "あした", "あす":
		return carbonDate(today.AddDays(1)), true
	case "明後日", "あさって":
		return carbonDate(today.AddDays(2)), true
	}
	return task.Date{}, false
}

func relativeDays(groups []string, today carbon.Carbon) (task.Date, bool) {
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return task.Date{}, false
	}
	if groups[2] == "週間後" {
		return carbonDate(today.AddWeeks(n)), true
	}
	return carbonDate(today.AddDays(n)), true
}

func relativeSpan(groups []string, today carbon.Carbon) (task.Date, bool) {
	switch groups[1] {
	case "来週":
		return carbonDate(today.AddWeeks(1)), true
	case "再来週":
		return carbonDate(today.AddWeeks(2)), true
	case "来月":
		return carbonDate(today.AddMonthsNoOverflow(1)), true
	case "再来月":
		return carbonDate(today.AddMonthsNoOverflow(2)), true
	}
	return task.Date{}, false
}

// weekend is the upcoming Saturday, today when today is Saturday.
func weekend(groups []string, today carbon.Carbon) (task.Date, bool) {
	d := today.DayOfWeek()
	if d == 0 {
		return task.Date{}, false
	}
	add := 6 - d
	if add < 0 {
		add += 7
	}
	return carbonDate(today.AddDays(add)), true
}

// weekday resolves against Monday-start weeks. A bare weekday is the next one
// strictly after today.
func weekday(groups []string, today carbon.Carbon) (task.Date, bool) {
	d := today.DayOfWeek()
	w, ok := weekdays[groups[3]]
	if d == 0 || !ok {
		return task.Date{}, false
	}

	var add int
	switch groups[1] {
	case "今週":
		add = w - d
		if add < 0 {
			add += 7
		}
	case "来週":
		add = 7 - d + w
	case "再来週":
		add = 14 - d + w
	default:
		add = w - d
		if add <= 0 {
			add += 7
		}
	}
	return carbonDate(today.AddDays(add)), true
}

func weekdayParen(groups []string, today carbon.Carbon) (task.Date, bool) {
	return weekday([]string{groups[0], "", "", groups[2], "曜"}, today)
}

// dayOfMonth is the next occurrence of the day, today included.
func dayOfMonth(groups []string, today carbon.Carbon) (task.Date, bool) {
	day, err := strconv.Atoi(groups[1])
	if err != nil || day < 1 || day > 31 {
		return task.Date{}, false
	}
	current := carbonDate(today)
	month := today.StartOfMonth()
	if day < current.Day {
		month = month.AddMonthsNoOverflow(1)
	}
	for i := 0; i < 12; i++ {
		m := carbonDate(month)
		if d, ok := validDate(m.Year, int(m.Month), day); ok {
			return d, true
		}
		month = month.AddMonthsNoOverflow(1)
	}
	return task.Date{}, false
}

func slashDate(groups []string, today carbon.Carbon) (task.Date, bool) {
	return nextMonthDay(groups[1], groups[2], today)
}

func monthDay(groups []string, today carbon.Carbon) (task.Date, bool) {
	return nextMonthDay(groups[1], groups[3], today)
}

// nextMonthDay is this year's date, or next year's when it has passed.
func nextMonthDay(rawMonth string, rawDay string, today carbon.Carbon) (task.Date, bool) {
	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return task.Date{}, false
	}
	day, err := strconv.Atoi(rawDay)
	if err != nil {
		return task.Date{}, false
	}
	current := carbonDate(today)
	for year := current.Year; year <= current.Year+4; year++ {
		d, ok := validDate(year, month, day)
		if !ok {
			if month < 1 || month > 12 || day < 1 || day > 31 {
				return task.Date{}, false
			}
			continue
		}
		if !d.Time().Before(current.Time()) {
			return d, true
		}
	}
	return task.Date{}, false
}

func absoluteDate(groups []string, today carbon.Carbon) (task.Date, bool) {
	year, err := strconv.Atoi(groups[1])
	if err != nil {
		return task.Date{}, false
	}
	month, err := strconv.Atoi(groups[3])
	if err != nil {
		return task.Date{}, false
	}
	day, err := strconv.Atoi(groups[4])
	if err != nil {
		return task.Date{}, false
	}
	return validDate(year, month, day)
}
