// Package editor is the editing surface for a note draft.
//
// An Editor owns the draft buffer, its undo history, and the hooks that run
// when edits are committed. Every user action becomes a batch of
// transactions that goes through the same pipeline:
//
//  1. filter hooks may reject the batch (a read-only editor does)
//  2. the steps are applied to the buffer
//  3. append hooks run; the paste-isolation grouper is always one of them
//  4. boundaries returned by append hooks are recorded into history first,
//     then the batch, then any other appended transactions
//
// Recording boundaries ahead of the batch means an edit made right after a
// paste opens its own undo group instead of joining the paste's.
//
// The clock is sampled once per action, so tests can drive time explicitly
// with WithClock.
package editor
