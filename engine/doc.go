// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: building DSNs, opening connections and registering
// the vector SQL scalar functions. It keeps a thin surface so the stores can
// share the same driver instance.
package engine
