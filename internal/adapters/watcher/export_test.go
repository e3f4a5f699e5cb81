package watcher

import "iter"

// Directories exposes the directory walk for tests.
func (w *Watcher) Directories(root string) iter.Seq[string] {
	return w.directories(root)
}
