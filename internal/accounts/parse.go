package accounts

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxID is the largest usable user or group ID. (uid_t)-1 is reserved.
const MaxID = 1<<32 - 2

// ParseID parses a decimal user or group ID. Signs, spaces and values
// outside 0..MaxID are rejected.
func ParseID(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n > MaxID {
		return 0, false
	}
	return int(n), true
}

type parsedFile[T any] struct {
	entries []*T
}

func parseColonLine(line string) []string {
	// Keep trailing empty fields.
	return strings.Split(line, ":")
}

// skipLine reports lines that carry no entry: blanks, comments and NIS
// compat markers (+name, -name).
func skipLine(line string) bool {
	trim := strings.TrimSpace(line)
	return trim == "" || strings.HasPrefix(trim, "#") ||
		strings.HasPrefix(trim, "+") || strings.HasPrefix(trim, "-")
}

func readLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func atoi(field, ctx string) (int, error) {
	n, ok := ParseID(field)
	if !ok {
		return 0, fmt.Errorf("invalid id %q in %s", field, ctx)
	}
	return n, nil
}
