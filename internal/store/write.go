package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Run is one recorded translation.
type Run struct {
	ID         string
	Seq        int64
	Source     string
	InputHash  string
	ConfigHash string
	OutputHash string
	Output     string
	Incomplete int
	Decls      []Declaration

	// IncompleteTypes are the identifiers rendered as the incomplete marker.
	IncompleteTypes []string
}

// Declaration is one emitted top-level declaration of a run, in emission
// order.
type Declaration struct {
	Seq    int64
	Sclass string
	Name   string
	TypeID string
	Text   string
}

// RecordRun inserts a run and its declarations in a single transaction.
//
// The run's ID is generated when empty. Seq is always assigned here as one
// past the highest recorded seq; any caller-supplied value is ignored.
// Declaration seqs are renumbered from 1 in slice order. Incomplete is the
// number of IncompleteTypes when those are given.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&maxSeq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}
	run.Seq = maxSeq.Int64 + 1
	if len(run.IncompleteTypes) > 0 {
		run.Incomplete = len(run.IncompleteTypes)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, input_hash, config_hash, output_hash, output, incomplete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Source,
		run.InputHash,
		run.ConfigHash,
		run.OutputHash,
		run.Output,
		run.Incomplete,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run %s: %w", run.ID, err)
	}

	decls := make([]Declaration, len(run.Decls))
	for i, d := range run.Decls {
		d.Seq = int64(i + 1)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO declarations (run_id, seq, sclass, name, type_id, text)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, d.Seq, d.Sclass, d.Name, d.TypeID, d.Text)
		if err != nil {
			return Run{}, fmt.Errorf("record declaration %d of run %s: %w", d.Seq, run.ID, err)
		}
		decls[i] = d
	}
	run.Decls = decls

	for _, ident := range run.IncompleteTypes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO incomplete_types (run_id, ident) VALUES (?, ?)
		`, run.ID, ident)
		if err != nil {
			return Run{}, fmt.Errorf("record incomplete type %s of run %s: %w", ident, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}
