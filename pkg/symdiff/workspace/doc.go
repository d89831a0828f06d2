// Package workspace holds named expression trees for a session.
//
// A Workspace is safe for concurrent use. It owns the trees given to Define
// and hands out clones, so callers can mutate what they get without
// affecting other readers:
//
//	ws := workspace.New()
//	ws.Define("f", parsed)
//
//	f, err := ws.Get("f") // independent copy
//	df, err := diff.Differentiate(f, f.Root(), "x")
//	ws.Define("f'", df)
//
// GetOrCreate calls its factory at most once per name, even under concurrent
// access.
package workspace
