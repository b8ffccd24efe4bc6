// Package hook provides the commit-time interception points of the editor.
//
// Two kinds of hooks run for every dispatched batch of transactions:
//
//   - FilterHook: inspects each transaction before it is applied and may
//     reject it. Hooks run from highest to lowest priority; the first
//     rejection wins.
//   - AppendHook: runs after the batch was applied and may return one extra
//     transaction to commit alongside it. Hooks run from highest to lowest
//     priority.
//
// Standard priorities:
//
//	1000+    = system/critical hooks
//	500-999  = editor hooks (the paste-isolation grouper uses 900)
//	100-499  = plugin hooks
//	0-99     = user hooks
package hook
