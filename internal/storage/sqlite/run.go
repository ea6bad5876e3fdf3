package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/internal/storage"
)

type runRepo struct {
	tx *sql.Tx
}

const runColumns = `id, source, source_mode, created_at, max_cases, seed, valid_marker,
	product_size, sampled, variables_json, classes_json, cases_json, annotations_json`

func (r *runRepo) Create(ctx context.Context, run *domain.Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	variablesJSON, err := json.Marshal(run.Variables)
	if err != nil {
		return err
	}
	classesJSON, err := json.Marshal(run.Classes)
	if err != nil {
		return err
	}
	casesJSON, err := json.Marshal(run.Cases)
	if err != nil {
		return err
	}
	var annotationsJSON sql.NullString
	if len(run.Annotations) > 0 {
		data, err := json.Marshal(run.Annotations)
		if err != nil {
			return err
		}
		annotationsJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = r.tx.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, string(run.Mode), run.CreatedAt, run.Config.MaxCases, run.Seed,
		run.Config.ValidMarker, run.ProductSize, run.Sampled,
		string(variablesJSON), string(classesJSON), string(casesJSON), annotationsJSON)
	return err
}

func (r *runRepo) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := r.tx.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) List(ctx context.Context, opts storage.ListOptions) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any

	if opts.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, opts.Source)
	}

	query += ` ORDER BY created_at DESC, id`

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *runRepo) Delete(ctx context.Context, id string) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *runRepo) DeleteAll(ctx context.Context) (int, error) {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	run := &domain.Run{}
	var mode string
	var variablesJSON, classesJSON, casesJSON string
	var annotationsJSON sql.NullString

	err := s.Scan(&run.ID, &run.Source, &mode, &run.CreatedAt, &run.Config.MaxCases, &run.Seed,
		&run.Config.ValidMarker, &run.ProductSize, &run.Sampled,
		&variablesJSON, &classesJSON, &casesJSON, &annotationsJSON)
	if err != nil {
		return nil, err
	}
	run.Mode = domain.SourceMode(mode)
	run.Config.RandomSeed = run.Seed

	if err := json.Unmarshal([]byte(variablesJSON), &run.Variables); err != nil {
		return nil, fmt.Errorf("run %s: variables: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(classesJSON), &run.Classes); err != nil {
		return nil, fmt.Errorf("run %s: classes: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(casesJSON), &run.Cases); err != nil {
		return nil, fmt.Errorf("run %s: cases: %w", run.ID, err)
	}
	if annotationsJSON.Valid && annotationsJSON.String != "" {
		if err := json.Unmarshal([]byte(annotationsJSON.String), &run.Annotations); err != nil {
			return nil, fmt.Errorf("run %s: annotations: %w", run.ID, err)
		}
	}

	return run, nil
}
