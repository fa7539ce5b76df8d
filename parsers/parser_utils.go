package parsers

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"sprintbox/model"
)

// SkipBOM skips a UTF-8 BOM if present.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	isBOM := true
	for i, b := range bom {
		if peeked[i] != b {
			isBOM = false
			break
		}
	}
	if isBOM {
		br.Read(make([]byte, 3))
	}
	return br
}

// parseQuantity converts a German-formatted number ("1.234,5" or "12,5")
// to a float64. Unparseable input yields 0, as quantities are filled with
// zero at load time.
func parseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Thousands dots are only stripped when a decimal comma is present,
	// otherwise "1.5" would turn into 15.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseDate parses day-first German dates. The zero time means absent.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"02.01.2006", "2.1.2006", "02.01.06", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseDayTime parses HH:MM:SS (seconds optional) into a model.DayTime.
func parseDayTime(s string) model.DayTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DayTime{}
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return model.DayTime{}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return model.DayTime{}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return model.DayTime{}
	}
	sec := 0
	if len(parts) > 2 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return model.DayTime{}
		}
	}
	return model.NewDayTime(h, m, sec)
}
