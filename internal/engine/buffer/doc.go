// Package buffer holds the text of a note draft while it is being composed.
//
// Drafts are short, so the buffer keeps its content in a single string and
// replaces whole byte ranges on every edit. All positions are byte offsets.
//
//	buf := buffer.NewBufferFromString("gm nostr")
//	buf.Insert(2, ",")  // "gm, nostr"
//	buf.Delete(0, 4)    // "nostr"
//
// Every mutation bumps the revision counter, which lets callers cheaply detect
// whether the text changed between two observations.
package buffer
