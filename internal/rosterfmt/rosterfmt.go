// Package rosterfmt reads and writes the knight roster text format.
//
// Each knight is one line of four colon-separated fields:
//
//	name:job:power:relayCount
//
// power and relayCount are plain base-10 integers. The format has no escape
// mechanism, so a colon inside a name or job produces a line that will not
// parse back.
package rosterfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator divides the fields of a line.
const Separator = ":"

const fieldCount = 4

// ErrMalformedLine is returned by ParseLine for any line that is not a valid entry.
var ErrMalformedLine = errors.New("malformed roster line")

// Line is one knight entry.
type Line struct {
	Name       string
	Job        string
	Power      int64
	RelayCount int64
}

// FormatLine renders a single entry.
func FormatLine(l Line) string {
	return strings.Join([]string{
		l.Name,
		l.Job,
		strconv.FormatInt(l.Power, 10),
		strconv.FormatInt(l.RelayCount, 10),
	}, Separator)
}

// Encode renders entries one per line, without a trailing newline.
func Encode(lines []Line) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, FormatLine(l))
	}
	return strings.Join(out, "\n")
}

// ParseLine parses a single entry. Name and job are trimmed and must not be
// empty; relayCount must not be negative.
func ParseLine(s string) (Line, error) {
	fields := strings.Split(s, Separator)
	if len(fields) != fieldCount {
		return Line{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, fieldCount, len(fields))
	}

	name := strings.TrimSpace(fields[0])
	job := strings.TrimSpace(fields[1])
	if name == "" || job == "" {
		return Line{}, fmt.Errorf("%w: empty name or job", ErrMalformedLine)
	}

	power, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Line{}, fmt.Errorf("%w: power: %v", ErrMalformedLine, err)
	}
	relays, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return Line{}, fmt.Errorf("%w: relay count: %v", ErrMalformedLine, err)
	}
	if relays < 0 {
		return Line{}, fmt.Errorf("%w: negative relay count", ErrMalformedLine)
	}

	return Line{Name: name, Job: job, Power: power, RelayCount: relays}, nil
}

// Decode parses every line of text. Malformed lines are counted in skipped;
// blank lines are ignored altogether.
func Decode(text string) (lines []Line, skipped int) {
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line, err := ParseLine(raw)
		if err != nil {
			skipped++
			continue
		}
		lines = append(lines, line)
	}
	return lines, skipped
}
