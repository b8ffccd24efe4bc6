// Package content splits note text into text runs and image URLs so previews
// can render images inline.
//
// A token is an image when it is a whole whitespace-delimited http or https
// URL ending in a known image extension:
//
//	content.Segment("see http://x.com/a.png here")
//	// [{text "see "} {image "http://x.com/a.png"} {text " here"}]
//
// The whitespace before a URL stays in the preceding text part, so joining
// every part's Value gives back the input unchanged.
package content
