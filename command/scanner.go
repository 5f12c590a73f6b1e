package command

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/davidemerli/polimi-progetto-api-2019/errors"
)

const (
	// initialBufSize is the scanner's starting line buffer.
	initialBufSize = 64 * 1024

	// maxLineSize bounds a single input line. Identifiers are tens of
	// bytes, but report-heavy workloads are free to batch long lines.
	maxLineSize = 1024 * 1024
)

// Scanner reads an input stream line by line and produces Command records.
// Malformed lines (unknown verb, wrong argument count, empty argument) are
// skipped; the caller only ever sees well-formed commands.
type Scanner struct {
	scanner *bufio.Scanner
	logger  *slog.Logger
	line    int
}

// NewScanner creates a Scanner over r. A nil logger falls back to
// slog.Default().
func NewScanner(r io.Reader, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialBufSize), maxLineSize)
	return &Scanner{
		scanner: sc,
		logger:  logger,
	}
}

// Next returns the next well-formed command. It returns io.EOF once the
// stream is exhausted and a classified error if the underlying reader
// fails.
func (s *Scanner) Next() (Command, error) {
	for s.scanner.Scan() {
		s.line++
		cmd, ok := parseLine(s.scanner.Bytes())
		if !ok {
			s.logger.Debug("skipping malformed input line", "line", s.line)
			continue
		}
		return cmd, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Command{}, errors.WrapFatal(err, "Scanner", "Next", "read input stream")
	}
	return Command{}, io.EOF
}

// Line returns the number of input lines consumed so far.
func (s *Scanner) Line() int {
	return s.line
}

// parseLine tokenizes one raw line into a Command. Reports ok=false for
// anything the dispatcher should never see.
func parseLine(raw []byte) (Command, bool) {
	fields := tokenize(raw)
	if len(fields) == 0 {
		return Command{}, false
	}

	verb := Verb(fields[0])
	if !verb.Valid() {
		return Command{}, false
	}

	args := fields[1:]
	if len(args) != verb.Arity() {
		return Command{}, false
	}
	for _, a := range args {
		if a == "" {
			return Command{}, false
		}
	}
	return Command{Verb: verb, Args: args}, true
}

// tokenize splits raw on single spaces, dropping every double quote byte
// and a trailing carriage return. Quote bytes carry no grouping meaning:
// identifiers never contain spaces, so `addrel "a" "b" "t"` tokenizes the
// same as `addrel a b t`.
func tokenize(raw []byte) []string {
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}

	var fields []string
	token := make([]byte, 0, 32)
	flush := func() {
		// Empty tokens from consecutive spaces are dropped; empty quoted
		// arguments surface as missing fields and fail arity checks.
		if len(token) > 0 {
			fields = append(fields, string(token))
			token = token[:0]
		}
	}

	for _, b := range raw {
		switch b {
		case ' ':
			flush()
		case '"':
			// ignored wherever it appears
		default:
			token = append(token, b)
		}
	}
	flush()
	return fields
}
