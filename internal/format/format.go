// Package format converts between user-entered pt-BR text and the backend's
// wire formats.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	WireDate     = "2006-01-02"
	WireDateTime = "2006-01-02T15:04:05"
	InputDate    = "02/01/2006"
	InputTime    = "15:04"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Money renders v as Brazilian reais, e.g. "R$ 1.234,56".
func Money(v float64) string {
	if v < 0 {
		return "-" + Money(-v)
	}
	return "R$ " + printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// ParseAmount reads a decimal number entered with either "," or "." as the
// decimal separator.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// ParseDate accepts dd/MM/yyyy or yyyy-MM-dd.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{InputDate, WireDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// WireDateFrom normalizes a user date to yyyy-MM-dd.
func WireDateFrom(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(WireDate), nil
}

// DueDateFrom turns a dd/mm/yyyy deadline into the end of that day.
func DueDateFrom(s string) (string, error) {
	t, err := time.Parse(InputDate, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(WireDate) + "T23:59:59", nil
}

// EventDateTimeFrom joins dd/MM/yyyy and HH:mm into a local date-time.
func EventDateTimeFrom(date, hour string) (string, error) {
	t, err := time.Parse(InputDate+" "+InputTime, strings.TrimSpace(date)+" "+strings.TrimSpace(hour))
	if err != nil {
		return "", fmt.Errorf("%w: %q %q", ErrInvalidDate, date, hour)
	}
	return t.Format(WireDateTime), nil
}

// ParseWireTime reads the backend's zone-less timestamps in loc.
func ParseWireTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	for _, layout := range []string{time.RFC3339, WireDateTime, "2006-01-02T15:04", WireDate} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DisplayDate renders a wire date or date-time as dd/MM/yyyy. Unparseable
// input is returned unchanged.
func DisplayDate(s string) string {
	t, err := ParseWireTime(s, time.Local)
	if err != nil {
		return s
	}
	return t.Format(InputDate)
}

// TimeAgo describes how long before now t happened.
func TimeAgo(t, now time.Time) string {
	secs := int(now.Sub(t).Seconds())
	switch {
	case secs < 60:
		return "Agora mesmo"
	case secs < 3600:
		return fmt.Sprintf("Há %d min", secs/60)
	case secs < 86400:
		return fmt.Sprintf("Há %d h", secs/3600)
	}
	days := secs / 86400
	if days == 1 {
		return "Ontem"
	}
	return fmt.Sprintf("Há %d dias", days)
}
