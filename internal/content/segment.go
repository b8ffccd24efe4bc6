package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind tags a Part.
type Kind string

// Part kinds.
const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Part is one run of segmented content.
type Part struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// DefaultImageExtensions are the extensions recognized by Segment.
var DefaultImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg"}

var defaultSegmenter = MustNewSegmenter(DefaultImageExtensions)

// Segment splits content using the default image extensions.
func Segment(content string) []Part {
	return defaultSegmenter.Segment(content)
}

// Images returns the image URLs in content, in order of appearance.
func Images(content string) []string {
	var urls []string
	for _, p := range Segment(content) {
		if p.Kind == KindImage {
			urls = append(urls, p.Value)
		}
	}
	return urls
}

// Segmenter recognizes image URLs with a configurable extension set.
// It holds no per-call state and is safe for concurrent use.
type Segmenter struct {
	image *regexp.Regexp
}

// NewSegmenter builds a segmenter for the given extensions, matched
// case-insensitively. Leading dots are ignored.
func NewSegmenter(extensions []string) (*Segmenter, error) {
	alts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(ext))
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("no image extensions given")
	}

	re, err := regexp.Compile(`(?i)^https?://.+\.(?:` + strings.Join(alts, "|") + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling image pattern: %w", err)
	}
	return &Segmenter{image: re}, nil
}

// MustNewSegmenter is like NewSegmenter but panics on error.
func MustNewSegmenter(extensions []string) *Segmenter {
	s, err := NewSegmenter(extensions)
	if err != nil {
		panic(err)
	}
	return s
}

// IsImageURL reports whether token, taken as a whole, is an image URL.
func (s *Segmenter) IsImageURL(token string) bool {
	return s.image.MatchString(token)
}

// Segment splits content into alternating text and image parts.
// Empty input yields an empty slice.
func (s *Segmenter) Segment(content string) []Part {
	parts := make([]Part, 0, 1)
	textStart := 0

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}

		start := i
		for i < len(content) {
			r, size = utf8.DecodeRuneInString(content[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}

		if !s.IsImageURL(content[start:i]) {
			continue
		}
		if start > textStart {
			parts = append(parts, Part{Kind: KindText, Value: content[textStart:start]})
		}
		parts = append(parts, Part{Kind: KindImage, Value: content[start:i]})
		textStart = i
	}

	if textStart < len(content) {
		parts = append(parts, Part{Kind: KindText, Value: content[textStart:]})
	}
	return parts
}

// Join concatenates the values of parts.
func Join(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Value)
	}
	return b.String()
}
