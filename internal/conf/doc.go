// Package conf models benchmark configuration documents.
//
// A configuration document is the JSON-like parameter matrix describing one
// benchmark invocation: either a single object or an array of objects. The
// package provides:
//
//   - A sealed Value variant (Null, Bool, String, Number, List, Object) so
//     config comparison never depends on dynamic-language equality rules.
//   - Canonical serialization (sorted keys, NFC-normalized strings) so the
//     same document always produces the same bytes regardless of the key
//     order or source format it was written in. The stored form of a config
//     is its canonical bytes, which makes SQL equality and the ledger's
//     UNIQUE constraint behave like structural equality.
//   - The subset relation used for work deduplication: a requested config is
//     a subset of a recorded one when every tested parameter combination in
//     the request is already covered by the record.
//
// # Subset relation limitation
//
// Only top-level list-valued fields get set-containment treatment. Nested
// objects and arrays-of-objects inside a field are compared by exact
// canonical equality; there is no recursive subset descent. Callers that
// need deep matching must flatten their configs.
package conf
