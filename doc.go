// Package contract provides a single-owner monetary ledger backed by a
// transactional store.
//
// A Contract holds the identity of its owner and a cached balance. Every
// change to the balance goes together with an entry appended to the
// transaction log, in the same store transaction, so that the balance always
// equals the signed sum of the log replayed in order.
//
// The main functionalities are:
//   - Ledger operations: deposit, withdraw, status and a short history of the
//     most recent entries.
//   - Verification: replaying the whole log and comparing it with the cached
//     balance.
//   - Exchange: encoding the log as JSONL, and decoding JSONL produced either
//     by this package or by a pcs portfolio ledger.
//
// This package is the foundation of the `contractctl` command-line tool.
// Persistence is delegated to the store package and schema changes to the
// migration package.
package contract
