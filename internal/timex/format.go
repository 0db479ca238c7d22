package timex

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Zone is the time zone operators read times in.
var Zone = mustLoad("Europe/Brussels")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatHeure renders a communication time as shown in the log table,
// e.g. "19/10/2026 14:03:05".
func FormatHeure(t time.Time) string {
	return t.In(Zone).Format("02/01/2006 15:04:05")
}

// FormatExportDate renders the export moment in long French form,
// e.g. "19 octobre 2026 à 14:03:05".
func FormatExportDate(t time.Time) string {
	t = t.In(Zone)
	return fmt.Sprintf("%d %s %d à %s", t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Format("15:04:05"))
}

// FileStamp renders t for use in a file name, e.g. "19-10-2026-14-03".
func FileStamp(t time.Time) string {
	return t.In(Zone).Format("02-01-2006-15-04")
}

var heureLayouts = []string{
	time.RFC3339Nano,
	"02/01/2006 15:04:05",
	"02/01/2006, 15:04:05",
	"2/1/2006 15:04:05",
	"2/1/2006, 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseHeure parses a communication time. RFC 3339 is the wire format; the
// day-first locale strings produced by older clients are accepted too and
// read in the Brussels zone.
func ParseHeure(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range heureLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, Zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
