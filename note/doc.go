// Package note stores saved URLs ("notes") in the notes table.
//
// Writes are full-row upserts: Store.Upsert replaces every column except
// created_at, and any Upsert field left at its zero value is written as its
// default rather than preserved. To change one field of an existing note,
// read it with Store.Get and start from From(existing).
package note
