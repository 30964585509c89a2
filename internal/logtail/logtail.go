package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxLineSize bounds a single log line. Longer lines fail the read.
const maxLineSize = 1 << 20

// ring keeps the most recent lines pushed into it.
type ring struct {
	buf  []string
	next int
	full bool
}

func newRing(size int) *ring {
	return &ring{buf: make([]string, size)}
}

func (r *ring) push(line string) {
	r.buf[r.next] = line
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// lines returns the kept lines oldest first.
func (r *ring) lines() []string {
	if !r.full {
		return append([]string(nil), r.buf[:r.next]...)
	}
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var all []string
	var tail *ring
	if maxLines > 0 {
		tail = newRing(maxLines)
	}
	for scanner.Scan() {
		if tail != nil {
			tail.push(scanner.Text())
		} else {
			all = append(all, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if tail != nil {
		return tail.lines(), nil
	}
	return all, nil
}

// FilterLevel drops JSON events below min. Lines that are not JSON events are
// kept, since a panic trace has no level and is always worth seeing.
func FilterLevel(lines []string, min zerolog.Level) []string {
	if min <= zerolog.TraceLevel {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var event struct {
			Level string `json:"level"`
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &event) != nil {
			out = append(out, line)
			continue
		}
		level, err := zerolog.ParseLevel(event.Level)
		if err != nil || level >= min {
			out = append(out, line)
		}
	}
	return out
}

// Render writes JSON log events to w in human-readable console form. Lines
// that are not JSON events are copied through unchanged.
func Render(w io.Writer, lines []string, color bool) error {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.DateTime,
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			if _, err := console.Write([]byte(trimmed + "\n")); err == nil {
				continue
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
