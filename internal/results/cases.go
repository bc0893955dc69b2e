package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"a11ydiff/internal/detect"
)

const caseColumns = "id, run_id, app, name, dir, status, skip_reason, error_message, flags_json, similarity, report_dir, short_lived, disappearing, appearing, moving, attribute_changed, duration_ms, created_at"

// RecordCase stores a case and its findings in one transaction and returns
// the new case id.
func (s *Store) RecordCase(ctx context.Context, c *Case) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("case is nil")
	}
	flagsJSON, err := json.Marshal(c.Flags)
	if err != nil {
		return 0, fmt.Errorf("marshal flags: %w", err)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var id int64
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO cases (
                run_id, app, name, dir, status, skip_reason, error_message, window_changed,
                flags_json, similarity, report_dir, short_lived, disappearing, appearing,
                moving, attribute_changed, duration_ms, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.RunID,
			c.App,
			c.Name,
			c.Dir,
			c.Status,
			nullableString(c.SkipReason),
			nullableString(c.Error),
			boolToInt(c.Flags.WindowChanged),
			string(flagsJSON),
			c.Similarity,
			nullableString(c.ReportDir),
			c.Counts.ShortLived,
			c.Counts.Disappearing,
			c.Counts.Appearing,
			c.Counts.Moving,
			c.Counts.AttributeChanged,
			c.Duration.Milliseconds(),
			formatTime(c.CreatedAt),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for _, f := range c.Findings {
			recordJSON, err := json.Marshal(f.Record)
			if err != nil {
				return fmt.Errorf("marshal finding: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO findings (case_id, category, position, resource_id, bounds, focus_status, record_json)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id,
				f.Category.String(),
				f.Position,
				nullableString(f.Record.ResourceID),
				nullableString(f.Record.Bounds),
				nullableString(f.Record.FocusStatus),
				string(recordJSON),
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("record case %s/%s: %w", c.App, c.Name, err)
	}
	c.ID = id
	return id, nil
}

func scanCase(scanner interface{ Scan(dest ...any) error }) (*Case, error) {
	var (
		c          Case
		status     string
		skipReason sql.NullString
		errMsg     sql.NullString
		flagsJSON  sql.NullString
		similarity sql.NullFloat64
		reportDir  sql.NullString
		durationMS int64
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&c.ID,
		&c.RunID,
		&c.App,
		&c.Name,
		&c.Dir,
		&status,
		&skipReason,
		&errMsg,
		&flagsJSON,
		&similarity,
		&reportDir,
		&c.Counts.ShortLived,
		&c.Counts.Disappearing,
		&c.Counts.Appearing,
		&c.Counts.Moving,
		&c.Counts.AttributeChanged,
		&durationMS,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	c.Status = CaseStatus(status)
	c.SkipReason = skipReason.String
	c.Error = errMsg.String
	c.Similarity = similarity.Float64
	c.ReportDir = reportDir.String
	c.Duration = time.Duration(durationMS) * time.Millisecond
	c.CreatedAt = parseTime(createdRaw)
	if flagsJSON.Valid && flagsJSON.String != "" {
		if err := json.Unmarshal([]byte(flagsJSON.String), &c.Flags); err != nil {
			return nil, fmt.Errorf("decode flags: %w", err)
		}
	}
	return &c, nil
}

// ListCases returns every case of a run ordered by app and name.
func (s *Store) ListCases(ctx context.Context, runID string) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE run_id = ? ORDER BY app, name`, runID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}

// Findings returns the stored findings of a case, optionally restricted to
// the given categories, in category then position order.
func (s *Store) Findings(ctx context.Context, caseID int64, only ...detect.Category) ([]Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, position, record_json FROM findings WHERE case_id = ? ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	wanted := func(c detect.Category) bool {
		if len(only) == 0 {
			return true
		}
		for _, o := range only {
			if o == c {
				return true
			}
		}
		return false
	}

	var out []Finding
	for rows.Next() {
		var (
			category string
			f        Finding
			raw      string
		)
		if err := rows.Scan(&category, &f.Position, &raw); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		if err := f.Category.UnmarshalText([]byte(category)); err != nil {
			return nil, err
		}
		if !wanted(f.Category) {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &f.Record); err != nil {
			return nil, fmt.Errorf("decode finding: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return out, nil
}
