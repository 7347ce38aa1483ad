// Package validate checks documents and transactions without mutating
// anything.
//
// Structure checks in-memory linear data: item shapes, marker balance,
// annotation key integrity and, given a registry, vocabulary membership
// and language tags. TransactionFor checks a transaction statically
// against a document length. Interchange checks raw JSON against the
// linear interchange schema.
//
// Validators are strict where decoders are lenient: decoding repairs a
// foreign annotation key by recomputing it, while Interchange reports
// it.
package validate
