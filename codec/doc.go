// Package codec converts the list-valued note fields to and from the TEXT
// columns they are stored in. Tags and vectors are both persisted as JSON
// arrays inside otherwise relational rows.
//
// Decoding comes in two flavours: Parse* reports malformed input as an
// error, Decode* substitutes an empty sequence so that a damaged row still
// reads back as a displayable record.
package codec
