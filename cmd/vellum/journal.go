package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vellumlab/vellum/internal/model/transaction"
	"github.com/vellumlab/vellum/internal/session"
	"github.com/vellumlab/vellum/internal/validate"
)

// applyJournal reads a JSON list of transactions and applies each one to
// the session surface in order. The first failing entry stops the run;
// entries already applied stay applied and remain undoable.
func applyJournal(s *session.Session, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}

	var txs []*transaction.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return fmt.Errorf("parsing journal %s: %w", path, err)
	}

	surface := s.Surface()
	checked := s.Config().Validation.Enabled
	for i, tx := range txs {
		if tx == nil {
			return fmt.Errorf("journal %s entry %d: null transaction", path, i)
		}
		if checked {
			if err := validate.TransactionFor(tx, surface.Document().Len()); err != nil {
				return fmt.Errorf("journal %s entry %d: %w", path, i, err)
			}
		}
		if err := surface.Change(tx); err != nil {
			return fmt.Errorf("journal %s entry %d: %w", path, i, err)
		}
	}
	return nil
}
