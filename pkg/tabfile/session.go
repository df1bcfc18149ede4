package tabfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// delimiter separates fields within a record. It is part of the file
// format and not configurable.
const delimiter = "\t"

// ErrUnsupportedMode is returned by Open when given a mode other than
// ModeRead or ModeWrite. It signals caller misuse, not a data condition.
var ErrUnsupportedMode = errors.New("unsupported mode")

// Session exchanges tab-separated records with a single file. A Session is
// bound to at most one open file at a time and is not safe for concurrent
// use from multiple goroutines.
type Session struct {
	mode    Mode
	rfile   *os.File
	scanner *bufio.Scanner
	wfile   *os.File
	writer  *bufio.Writer
}

// New creates an unopened Session.
func New() *Session {
	return &Session{}
}

// Mode reports the session's current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Open binds the session to the file at path in the given mode. Any handle
// held from a previous Open is released first.
//
// In read mode, a path that does not refer to a readable file is not an
// error: the session simply has no data, and every ReadLine reports false.
// In write mode, an empty path is not an error: every Write becomes a
// silent no-op. Otherwise any existing file at path is removed and a fresh
// one created.
//
// Open fails only when mode is neither ModeRead nor ModeWrite.
func (s *Session) Open(path string, mode Mode) error {
	if mode != ModeRead && mode != ModeWrite {
		return fmt.Errorf("tabfile: open %q: %w: %s", path, ErrUnsupportedMode, mode)
	}

	// Release whatever the previous Open acquired so the handle does not
	// leak across reuse.
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Releasing previous handle failed")
	}

	s.mode = mode

	switch mode {
	case ModeRead:
		f, err := os.Open(path)
		if err != nil {
			// Missing or unreadable file: reads degrade to "no data".
			log.Debug().Str("path", path).Err(err).Msg("Read open degraded, no data available")
			return nil
		}
		s.rfile = f
		s.scanner = bufio.NewScanner(f)

	case ModeWrite:
		if path == "" {
			log.Debug().Msg("Write open with empty path, writes will be dropped")
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Debug().Str("path", path).Err(err).Msg("Removing existing file failed")
		}
		f, err := os.Create(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("Write open degraded, writes will be dropped")
			return nil
		}
		s.wfile = f
		s.writer = bufio.NewWriter(f)
	}

	log.Debug().Str("path", path).Stringer("mode", mode).Msg("Session opened")
	return nil
}

// readRecord is the single decode path behind ReadLine, Read, ReadCompat
// and ReadRecord. It consumes one line and returns its fields, or nil and
// false at end of stream, on a line without the delimiter, or when the
// session is not readable.
func (s *Session) readRecord() ([]string, bool) {
	if s.mode != ModeRead || s.scanner == nil {
		return nil, false
	}
	if !s.scanner.Scan() {
		return nil, false
	}
	line := s.scanner.Text()
	if !strings.Contains(line, delimiter) {
		return nil, false
	}
	return strings.Split(line, delimiter), true
}

// ReadLine returns the first two fields of the next record. Fields beyond
// the second are discarded. It returns ok=false, with empty fields, when
// the session is not open for reading, at end of stream, or when the line
// contains no tab; a tabless line is consumed all the same.
func (s *Session) ReadLine() (col1, col2 string, ok bool) {
	fields, ok := s.readRecord()
	if !ok {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// Read is the output-parameter form of ReadLine, kept for callers written
// against the older calling convention.
func (s *Session) Read(col1, col2 *string) bool {
	c1, c2, ok := s.ReadLine()
	*col1 = c1
	*col2 = c2
	return ok
}

// ReadCompat is kept for call-signature compatibility with the oldest
// callers. The two input strings are ignored. Prefer ReadLine.
func (s *Session) ReadCompat(_, _ string, col1, col2 *string) bool {
	return s.Read(col1, col2)
}

// ReadRecord returns every field of the next record. The validity rule is
// the same as ReadLine's: a record exists only on a line containing at
// least one tab.
func (s *Session) ReadRecord() ([]string, bool) {
	return s.readRecord()
}

// Write appends one record built from cols, joined by tabs and terminated
// with a newline. Zero cols writes an empty line. Outside write mode, or
// when no file is held, Write does nothing.
func (s *Session) Write(cols ...string) {
	if s.mode != ModeWrite || s.writer == nil {
		return
	}
	if _, err := s.writer.WriteString(strings.Join(cols, delimiter) + "\n"); err != nil {
		log.Warn().Str("path", s.wfile.Name()).Err(err).Msg("Record write failed")
	}
}

// Close flushes and releases whichever handle the session holds and resets
// the mode to ModeUnset. It is idempotent and safe on a session that never
// opened successfully; state alone never produces an error.
func (s *Session) Close() error {
	var err error

	if s.writer != nil {
		if ferr := s.writer.Flush(); ferr != nil {
			err = fmt.Errorf("tabfile: flush %q: %w", s.wfile.Name(), ferr)
		}
	}
	if s.wfile != nil {
		if cerr := s.wfile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("tabfile: close %q: %w", s.wfile.Name(), cerr)
		}
	}
	if s.rfile != nil {
		if cerr := s.rfile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("tabfile: close %q: %w", s.rfile.Name(), cerr)
		}
	}

	s.mode = ModeUnset
	s.rfile = nil
	s.scanner = nil
	s.wfile = nil
	s.writer = nil

	return err
}
