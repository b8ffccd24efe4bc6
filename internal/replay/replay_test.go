package replay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/notedraft/internal/editor"
	"github.com/dshills/notedraft/internal/engine/history"
	"github.com/dshills/notedraft/internal/engine/hook"
)

func TestParse(t *testing.T) {
	log := `
# session 1
{"t": 1000, "kind": "paste", "text": "gm nostr"}
{"t": 1001, "kind": "insert", "text": "!"}

{"t": 1600, "kind": "delete"}
{"t": 1700, "kind": "delete", "n": 3}
{"t": 1800, "kind": "meta", "meta": {"scroll": 3}}
{"t": 1900, "kind": "undo"}
`
	entries, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, KindPaste, entries[0].Kind)
	assert.Equal(t, "gm nostr", entries[0].Text)
	assert.Equal(t, time.UnixMilli(1000), entries[0].Time)
	assert.Equal(t, 3, entries[0].Line)

	assert.Equal(t, 1, entries[2].N, "n defaults to 1")
	assert.Equal(t, 3, entries[3].N)
	assert.Equal(t, KindUndo, entries[5].Kind)
}

func TestParseMeta(t *testing.T) {
	en, err := ParseLine(1, `{"t": 5, "kind": "insert", "text": "x", "meta": {"uiEvent": "drop", "rebased": 0, "time": 7, "client": "damus", "tags": [1, 2], "flag": true}}`)
	require.NoError(t, err)

	assert.Equal(t, "drop", en.Meta.UIEvent)
	require.NotNil(t, en.Meta.RebaseEpoch)
	assert.Equal(t, 0, *en.Meta.RebaseEpoch)
	require.NotNil(t, en.Meta.TimeOverride)
	assert.Equal(t, time.UnixMilli(7), *en.Meta.TimeOverride)

	assert.Equal(t, "damus", en.Meta.Extra["client"])
	assert.Equal(t, []any{float64(1), float64(2)}, en.Meta.Extra["tags"])
	assert.Equal(t, true, en.Meta.Extra["flag"])
}

func TestParseErrorsNameTheLine(t *testing.T) {
	tests := []struct {
		name string
		log  string
		line int
	}{
		{"invalid json", "{\"t\": 1, \"kind\": \"meta\"}\n{oops", 2},
		{"missing t", `{"kind": "meta"}`, 1},
		{"negative t", `{"t": -1, "kind": "meta"}`, 1},
		{"unknown kind", `{"t": 1, "kind": "teleport"}`, 1},
		{"insert without text", `{"t": 1, "kind": "insert"}`, 1},
		{"bad n", `{"t": 1, "kind": "delete", "n": 0}`, 1},
		{"meta not object", `{"t": 1, "kind": "meta", "meta": 3}`, 1},
		{"paste meta wrong type", `{"t": 1, "kind": "meta", "meta": {"paste": "yes"}}`, 1},
		{"array entry", "\n\n[1, 2]", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.log))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)

			var lineErr *LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Equal(t, tt.line, lineErr.Line)
		})
	}
}

func replay(t *testing.T, log string, opts ...editor.Option) *Result {
	t.Helper()
	entries, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	res, err := NewReplayer(nil, opts...).Run(entries)
	require.NoError(t, err)
	return res
}

func TestReplayIsolatesEditAfterPaste(t *testing.T) {
	res := replay(t, `
{"t": 1000, "kind": "paste", "text": "pasted"}
{"t": 1001, "kind": "insert", "text": "x"}
`)

	assert.Equal(t, "pastedx", res.Text)
	assert.Equal(t, 1, res.Boundaries)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 6, res.Groups[0].BytesDelta)
	assert.Equal(t, 1, res.Groups[1].BytesDelta)
}

func TestReplayMergesOutsideWindow(t *testing.T) {
	res := replay(t, `
{"t": 1000, "kind": "paste", "text": "pasted"}
{"t": 1200, "kind": "insert", "text": "x"}
`)

	assert.Equal(t, 0, res.Boundaries)
	assert.Len(t, res.Groups, 1)
}

func TestReplayDeleteAndUndo(t *testing.T) {
	res := replay(t, `
{"t": 100, "kind": "insert", "text": "gm"}
{"t": 150, "kind": "insert", "text": " 🎉"}
{"t": 2000, "kind": "delete", "n": 2}
{"t": 2100, "kind": "undo"}
{"t": 2200, "kind": "redo"}
{"t": 2300, "kind": "redo"}
`)

	assert.Equal(t, "gm", res.Text)
	assert.Equal(t, 6, res.Entries)
}

func TestReplayEditsFollowCursorAfterUndo(t *testing.T) {
	res := replay(t, `
{"t": 100, "kind": "insert", "text": "abc"}
{"t": 1000, "kind": "insert", "text": "def"}
{"t": 1100, "kind": "undo"}
{"t": 1200, "kind": "insert", "text": "!"}
`)

	assert.Equal(t, "abc!", res.Text)
}

func TestReplayPreservesUnknownMeta(t *testing.T) {
	entries, err := Parse(strings.NewReader(`{"t": 10, "kind": "insert", "text": "x", "meta": {"client": "amethyst"}}`))
	require.NoError(t, err)

	r := NewReplayer(nil)
	var seen *history.Transaction
	r.Editor().Hooks().RegisterFilter(hookRecorder(&seen))

	require.NoError(t, r.Step(entries[0]))
	require.NotNil(t, seen)
	v, ok := seen.GetMeta("client")
	assert.True(t, ok)
	assert.Equal(t, "amethyst", v)
	assert.Equal(t, editor.UIEventInput, seen.Meta.UIEvent)
}

func TestReplayWithWiderWindow(t *testing.T) {
	res := replay(t, `
{"t": 1000, "kind": "paste", "text": "p"}
{"t": 1200, "kind": "insert", "text": "x"}
`, editor.WithIsolationWindow(time.Second))

	assert.Equal(t, 1, res.Boundaries)
	assert.Len(t, res.Groups, 2)
}

func TestReplayNormalizesLineEndings(t *testing.T) {
	res := replay(t, `{"t": 1, "kind": "paste", "text": "a\r\nb"}`)
	assert.Equal(t, "a\nb", res.Text)
}

// hookRecorder returns a filter that stores the last transaction it saw.
func hookRecorder(seen **history.Transaction) hook.FilterHook {
	return hook.NewFilterFunc("test.recorder", 0, func(tr *history.Transaction) error {
		*seen = tr
		return nil
	})
}
