// Package folio provides a double-entry portfolio accounting engine. It is
// designed to be auditable and exact: every quantity and monetary amount is a
// decimal truncated at 8 fractional digits, and every trade leaves an
// immutable, balanced pair of ledger entries.
//
// The core functionalities include:
//   - Ledger Engine: deriving the balanced DEBIT/CREDIT entry pair recorded
//     for every buy and sell over the fixed Cash and Asset accounts.
//   - Position Accounting: tracking the quantity and moving-average cost of
//     each (asset, broker) holding, with realized and unrealized gains.
//   - Transaction Processor: the single validated write path, serializing
//     trades per position and committing their four effects atomically.
//   - Portfolio Valuation: point-in-time portfolio values computed by
//     replaying the trade history, independent of live position state.
//   - Market Data: an asset registry with append-only daily close prices,
//     persisted as human-readable, version-controllable JSONL.
//
// This package serves as the foundational logic for the `folio` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package folio
