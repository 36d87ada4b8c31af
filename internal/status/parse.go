package status

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	codeWidth = 2
	// code, separator and at least one byte of path
	minLineLength = codeWidth + 2
	maxLineLength = 1024 * 1024
)

// ParseLine parses a single `XY PATH` line.
//
// The first two bytes are the code and the third must be a single space,
// which is consumed. The remainder is the path, verbatim. A trailing "\r"
// is dropped.
func ParseLine(line string) (FileChange, error) {
	return parseLine(0, line)
}

func parseLine(n int, line string) (FileChange, error) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return FileChange{}, &LineError{Line: n, Text: line, Reason: "empty line"}
	}
	if len(line) < minLineLength {
		return FileChange{}, &LineError{Line: n, Text: line, Reason: fmt.Sprintf("shorter than %d bytes", minLineLength)}
	}
	code := line[:codeWidth]
	kind, ok := KindForCode(code)
	if !ok {
		return FileChange{}, &LineError{Line: n, Text: line, Reason: fmt.Sprintf("unknown code %q", code)}
	}
	if line[codeWidth] != ' ' {
		return FileChange{}, &LineError{Line: n, Text: line, Reason: "missing space after code"}
	}
	return FileChange{kind: kind, path: line[codeWidth+1:]}, nil
}

// Parse parses a full status report. Changes keep the input order. A single
// trailing newline ends the last line; any empty line is an error. The
// first bad line aborts the parse and no changes are returned.
func Parse(text string) ([]FileChange, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) ([]FileChange, error) {
	changes := []FileChange{}
	err := scanLines(r, func(n int, line string) error {
		change, err := parseLine(n, line)
		if err != nil {
			return err
		}
		changes = append(changes, change)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// ParseLenient parses like ParseReader but collects bad lines instead of
// failing. Empty lines are ignored. The returned error is only set when
// reading fails or a line is too long to scan.
func ParseLenient(r io.Reader) ([]FileChange, []*LineError, error) {
	changes := []FileChange{}
	var skipped []*LineError
	err := scanLines(r, func(n int, line string) error {
		if strings.TrimSuffix(line, "\r") == "" {
			return nil
		}
		change, err := parseLine(n, line)
		if err != nil {
			var lineErr *LineError
			if errors.As(err, &lineErr) {
				skipped = append(skipped, lineErr)
				return nil
			}
			return err
		}
		changes = append(changes, change)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return changes, skipped, nil
}

func scanLines(r io.Reader, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	n := 0
	for scanner.Scan() {
		n++
		if err := fn(n, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return &LineError{Line: n + 1, Reason: fmt.Sprintf("line too long (over %d bytes)", maxLineLength)}
		}
		return fmt.Errorf("read status output: %w", err)
	}
	return nil
}
