// Package history provides undo/redo for note drafts and the controller that
// decides where one undo step ends and the next begins.
//
// # Transactions
//
// A Transaction is one atomic change produced by the editing surface. It holds
// zero or more replacement Steps, a timestamp, and a Meta bag of annotations:
//
//	tr := history.NewTransaction(now, history.NewInsertStep(0, "gm"))
//	tr.SetMeta(history.KeyUIEvent, "input")
//
// Annotations may be added until the transaction is committed; after that it
// is treated as immutable.
//
// # Grouping
//
// The History stack merges doc-changing transactions that arrive within
// NewGroupDelay of each other into one undo group. A transaction annotated
// with a rebase epoch of 0 always opens a new group, and a stepless
// transaction carrying that annotation closes the current one.
//
// # Paste isolation
//
// Without intervention an edit typed right after a paste lands in the paste's
// group, and a single undo removes both. The Grouper watches every committed
// batch: it folds the batch into its State and, when a doc-changing batch
// arrives within the isolation window of the last paste, returns a boundary
// transaction that forces the stack to start a new group.
//
//	g := history.NewGrouper(history.DefaultIsolationWindow)
//	if boundary := g.Append(batch, now); boundary != nil {
//	    h.Record(boundary)
//	}
//
// All times are supplied by the caller, sampled once per batch.
package history
