package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(v string) Part  { return Part{Kind: KindText, Value: v} }
func image(v string) Part { return Part{Kind: KindImage, Value: v} }

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Part
	}{
		{
			name:  "image between words",
			input: "see http://x.com/a.png here",
			want:  []Part{text("see "), image("http://x.com/a.png"), text(" here")},
		},
		{
			name:  "image only",
			input: "http://x.com/a.png",
			want:  []Part{image("http://x.com/a.png")},
		},
		{
			name:  "no images",
			input: "no images here",
			want:  []Part{text("no images here")},
		},
		{
			name:  "line boundaries",
			input: "gm\nhttps://x.com/pic.jpg\nnostr",
			want:  []Part{text("gm\n"), image("https://x.com/pic.jpg"), text("\nnostr")},
		},
		{
			name:  "adjacent images",
			input: "http://a.io/1.gif https://b.io/2.webp",
			want:  []Part{image("http://a.io/1.gif"), text(" "), image("https://b.io/2.webp")},
		},
		{
			name:  "case insensitive",
			input: "HTTPS://X.COM/A.JPEG",
			want:  []Part{image("HTTPS://X.COM/A.JPEG")},
		},
		{
			name:  "embedded in word",
			input: "xhttp://x.com/a.png",
			want:  []Part{text("xhttp://x.com/a.png")},
		},
		{
			name:  "trailing punctuation",
			input: "look http://x.com/a.png, nice",
			want:  []Part{text("look http://x.com/a.png, nice")},
		},
		{
			name:  "query string",
			input: "http://x.com/a.png?w=100",
			want:  []Part{text("http://x.com/a.png?w=100")},
		},
		{
			name:  "non http scheme",
			input: "ftp://x.com/a.png",
			want:  []Part{text("ftp://x.com/a.png")},
		},
		{
			name:  "bare extension",
			input: "http://.png",
			want:  []Part{text("http://.png")},
		},
		{
			name:  "svg with surrounding whitespace",
			input: "  http://x.com/logo.svg\t",
			want:  []Part{text("  "), image("http://x.com/logo.svg"), text("\t")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.input))
		})
	}
}

func TestSegmentEmpty(t *testing.T) {
	parts := Segment("")
	assert.NotNil(t, parts)
	assert.Empty(t, parts)
}

func TestSegmentRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"see http://x.com/a.png here",
		"http://x.com/a.png",
		"a\r\nhttp://x.com/a.png\r\n\r\nhttps://y.org/b.GIF",
		"émoji 🎉 https://x.com/ü.webp ok",
		"   ",
	}

	for _, in := range inputs {
		assert.Equal(t, in, Join(Segment(in)), "input %q", in)
	}
}

func TestSegmentIsRestartable(t *testing.T) {
	in := "one http://x.com/a.png two"
	first := Segment(in)
	second := Segment(in)

	assert.Equal(t, first, second)
	assert.Equal(t, []Part{text("x")}, Segment("x"))
}

func TestSegmentPartsAlternate(t *testing.T) {
	parts := Segment("a http://x.com/1.png b http://x.com/2.png c")
	require.Len(t, parts, 5)

	for i := 1; i < len(parts); i++ {
		assert.False(t, parts[i].Kind == KindText && parts[i-1].Kind == KindText,
			"text parts must not be adjacent")
	}
}

func TestImages(t *testing.T) {
	assert.Equal(t,
		[]string{"http://x.com/1.png", "https://x.com/2.jpg"},
		Images("a http://x.com/1.png b https://x.com/2.jpg"))
	assert.Nil(t, Images("nothing"))
}

func TestNewSegmenter(t *testing.T) {
	s, err := NewSegmenter([]string{".avif", " heic "})
	require.NoError(t, err)

	assert.True(t, s.IsImageURL("https://x.com/a.avif"))
	assert.True(t, s.IsImageURL("https://x.com/a.HEIC"))
	assert.False(t, s.IsImageURL("https://x.com/a.png"))
	assert.Equal(t,
		[]Part{text("pic "), image("https://x.com/a.avif")},
		s.Segment("pic https://x.com/a.avif"))
}

func TestNewSegmenterRejectsEmpty(t *testing.T) {
	_, err := NewSegmenter(nil)
	assert.Error(t, err)

	_, err = NewSegmenter([]string{"", "."})
	assert.Error(t, err)

	assert.Panics(t, func() { MustNewSegmenter(nil) })
}

func TestPartJSON(t *testing.T) {
	data, err := json.Marshal(Segment("a http://x.com/a.png"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"kind":"text","value":"a "},{"kind":"image","value":"http://x.com/a.png"}]`,
		string(data))
}
