package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// This file contains code to export and re-read the trade journal as JSONL,
// one transaction or ledger entry per line, with a stable field order so the
// output is diff-friendly.

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	jsonData, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeEntry marshals a single ledger entry to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeEntry(w io.Writer, e LedgerEntry) error {
	jsonData, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}

// DecodeTransactions reads a JSONL stream of transactions, one per line, and
// returns them in the order read.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction line %q: %w", string(lineBytes), err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return txs, nil
}
