// Package replay reads recorded editing sessions and plays them back
// through an editor.
//
// A session log is JSON lines, one edit per line:
//
//	{"t": 1000, "kind": "paste", "text": "gm nostr"}
//	{"t": 1001, "kind": "insert", "text": "!"}
//	{"t": 1600, "kind": "delete", "n": 1}
//	{"t": 1700, "kind": "meta", "meta": {"scroll": 3}}
//	{"t": 1800, "kind": "undo"}
//
// t is milliseconds. Keys under meta become transaction annotations; keys the
// history package does not know are kept verbatim. Blank lines and lines
// starting with # are skipped.
package replay
