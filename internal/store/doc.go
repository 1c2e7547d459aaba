// Package store provides a SQLite-backed log of translation runs.
//
// Each run records the hashes of its input document and configuration, the
// generated text and every declaration it emitted. A run whose input and
// configuration hashes match an earlier run can reuse that run's output.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: 5-second wait on lock contention
//   - foreign_keys=ON: Declarations reference their run
//
// Runs are ordered by seq, a logical clock assigned inside the insert
// transaction. All queries order by seq ASC, id ASC COLLATE BINARY.
package store
