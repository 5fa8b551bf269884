// Package embedding stores at most one vector per note in the embeddings
// table and ranks notes by cosine similarity to a query vector.
//
// Vectors are opaque to this package: no dimensionality or range checks are
// made on write. Writing an embedding does not require the note to exist,
// and nothing removes an embedding when its note goes away.
package embedding
