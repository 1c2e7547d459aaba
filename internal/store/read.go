package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, source, input_hash, config_hash, output_hash, output, incomplete`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seq, &r.Source, &r.InputHash, &r.ConfigHash, &r.OutputHash, &r.Output, &r.Incomplete)
	return r, err
}

// LatestRunByHash returns the most recent run recorded for the given input
// and configuration hashes. The boolean is false when no run matches.
// The returned run includes its declarations and incomplete types.
func (s *Store) LatestRunByHash(ctx context.Context, inputHash, configHash string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE input_hash = ? AND config_hash = ?
		ORDER BY seq DESC, id DESC
		LIMIT 1
	`, inputHash, configHash)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("latest run by hash: %w", err)
	}

	run.Decls, err = s.RunDeclarations(ctx, run.ID)
	if err != nil {
		return Run{}, false, err
	}
	run.IncompleteTypes, err = s.RunIncompleteTypes(ctx, run.ID)
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// GetRun returns the run with the given ID, without declarations.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent limit runs in ascending seq order.
// A limit <= 0 returns every run.
//
// Declarations are not loaded; use RunDeclarations.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT ` + runColumns + ` FROM (
			SELECT ` + runColumns + ` FROM runs
			ORDER BY seq DESC, id DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunDeclarations returns the declarations of a run in emission order.
func (s *Store) RunDeclarations(ctx context.Context, runID string) ([]Declaration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, sclass, name, type_id, text
		FROM declarations
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run declarations: %w", err)
	}
	defer rows.Close()

	var decls []Declaration
	for rows.Next() {
		var d Declaration
		if err := rows.Scan(&d.Seq, &d.Sclass, &d.Name, &d.TypeID, &d.Text); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declarations: %w", err)
	}
	return decls, nil
}

// RunIncompleteTypes returns the incomplete type identifiers of a run, sorted.
func (s *Store) RunIncompleteTypes(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ident FROM incomplete_types
		WHERE run_id = ?
		ORDER BY ident ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run incomplete types: %w", err)
	}
	defer rows.Close()

	var idents []string
	for rows.Next() {
		var ident string
		if err := rows.Scan(&ident); err != nil {
			return nil, fmt.Errorf("scan incomplete type: %w", err)
		}
		idents = append(idents, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomplete types: %w", err)
	}
	return idents, nil
}
