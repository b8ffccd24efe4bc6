package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/notedraft/internal/engine/history"
)

// Kind is the type of a recorded edit.
type Kind string

// Entry kinds.
const (
	KindInsert Kind = "insert"
	KindPaste  Kind = "paste"
	KindDelete Kind = "delete"
	KindMeta   Kind = "meta"
	KindUndo   Kind = "undo"
	KindRedo   Kind = "redo"
)

// ErrMalformed is wrapped by every parse error.
var ErrMalformed = errors.New("malformed entry")

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// LineError ties an error to a line of the session log.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Entry is one recorded edit.
type Entry struct {
	Line int
	Time time.Time
	Kind Kind
	Text string // insert, paste
	N    int    // delete: characters before the cursor
	Meta history.Meta
}

// Parse reads a session log.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		data := strings.TrimSpace(sc.Text())
		if data == "" || strings.HasPrefix(data, "#") {
			continue
		}
		en, err := ParseLine(line, data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, en)
	}
	if err := sc.Err(); err != nil {
		return nil, &LineError{Line: line + 1, Err: err}
	}
	return entries, nil
}

// ParseLine parses a single JSON entry. line is used in errors only.
func ParseLine(line int, data string) (Entry, error) {
	fail := func(format string, args ...any) (Entry, error) {
		return Entry{}, &LineError{Line: line, Err: fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)}
	}

	if !gjson.Valid(data) {
		return fail("invalid JSON")
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return fail("entry must be an object")
	}

	t := root.Get("t")
	if t.Type != gjson.Number || t.Int() < 0 {
		return fail("t must be a non-negative number of milliseconds")
	}

	en := Entry{
		Line: line,
		Time: time.UnixMilli(t.Int()),
		Kind: Kind(root.Get("kind").String()),
	}

	switch en.Kind {
	case KindInsert, KindPaste:
		text := root.Get("text")
		if text.Type != gjson.String {
			return fail("%s needs a text string", en.Kind)
		}
		en.Text = text.String()
	case KindDelete:
		en.N = 1
		if n := root.Get("n"); n.Exists() {
			if n.Type != gjson.Number || n.Int() < 1 {
				return fail("n must be a positive number")
			}
			en.N = int(n.Int())
		}
	case KindMeta, KindUndo, KindRedo:
	default:
		return fail("unknown kind %q", en.Kind)
	}

	if m := root.Get("meta"); m.Exists() {
		if !m.IsObject() {
			return fail("meta must be an object")
		}
		var err error
		m.ForEach(func(key, value gjson.Result) bool {
			err = setMeta(&en.Meta, key.String(), value)
			return err == nil
		})
		if err != nil {
			return fail("%v", err)
		}
	}

	return en, nil
}

// setMeta converts a JSON value to the Go type the history package expects
// for well-known keys. Other keys keep gjson's natural decoding.
func setMeta(m *history.Meta, key string, value gjson.Result) error {
	var v any
	switch key {
	case history.KeyPaste:
		if value.Type != gjson.True && value.Type != gjson.False {
			return fmt.Errorf("meta %s must be a boolean", key)
		}
		v = value.Bool()
	case history.KeyUIEvent:
		if value.Type != gjson.String {
			return fmt.Errorf("meta %s must be a string", key)
		}
		v = value.String()
	case history.KeyRebased:
		if value.Type != gjson.Number {
			return fmt.Errorf("meta %s must be a number", key)
		}
		v = int(value.Int())
	case history.KeyTime:
		if value.Type != gjson.Number {
			return fmt.Errorf("meta %s must be milliseconds", key)
		}
		v = time.UnixMilli(value.Int())
	default:
		v = value.Value()
	}
	m.Set(key, v)
	return nil
}
