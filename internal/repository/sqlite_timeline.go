package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/domain"
)

// SQLiteTimelineRepo implements TimelineRepo using a SQLite database. A
// timeline spans four tables; pass a transaction from db.UnitOfWork when a
// write must be atomic.
type SQLiteTimelineRepo struct {
	db db.DBTX
}

// NewSQLiteTimelineRepo creates a new SQLiteTimelineRepo.
func NewSQLiteTimelineRepo(conn db.DBTX) *SQLiteTimelineRepo {
	return &SQLiteTimelineRepo{db: conn}
}

const timelineColumns = `id, name, months, created_at, updated_at`

func (r *SQLiteTimelineRepo) Create(ctx context.Context, t *domain.Timeline) error {
	months, err := encodeJSON("months", t.Months)
	if err != nil {
		return err
	}

	query := `INSERT INTO timelines (id, name, months, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		months,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting timeline: %w", err)
	}
	return r.insertChildren(ctx, t)
}

func (r *SQLiteTimelineRepo) GetByID(ctx context.Context, id string) (*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE id = ?`
	return r.load(ctx, r.db.QueryRowContext(ctx, query, id))
}

// GetByName looks a timeline up by case-insensitive name.
func (r *SQLiteTimelineRepo) GetByName(ctx context.Context, name string) (*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE name = ? COLLATE NOCASE`
	return r.load(ctx, r.db.QueryRowContext(ctx, query, name))
}

// FindIDsByPrefix returns the IDs starting with prefix, sorted.
func (r *SQLiteTimelineRepo) FindIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(prefix)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM timelines WHERE substr(id, 1, ?) = ? ORDER BY id`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("finding timelines by prefix: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning timeline id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteTimelineRepo) List(ctx context.Context) ([]TimelineSummary, error) {
	query := `SELECT t.id, t.name, t.months, t.updated_at,
			(SELECT COUNT(*) FROM phases p WHERE p.timeline_id = t.id),
			(SELECT COUNT(*) FROM departments d WHERE d.timeline_id = t.id)
		FROM timelines t ORDER BY t.name COLLATE NOCASE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	defer rows.Close()

	var out []TimelineSummary
	for rows.Next() {
		var s TimelineSummary
		var monthsJSON, updatedAtStr string
		if err := rows.Scan(&s.ID, &s.Name, &monthsJSON, &updatedAtStr, &s.PhaseCount, &s.DepartmentCount); err != nil {
			return nil, fmt.Errorf("scanning timeline row: %w", err)
		}
		var months []string
		if err := decodeJSON("months", monthsJSON, &months); err != nil {
			return nil, err
		}
		s.MonthCount = len(months)
		if len(months) > 0 {
			s.FirstMonth, s.LastMonth = months[0], months[len(months)-1]
		}
		if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

// Update rewrites the header and replaces every phase, department and item
// order row of the timeline.
func (r *SQLiteTimelineRepo) Update(ctx context.Context, t *domain.Timeline) error {
	months, err := encodeJSON("months", t.Months)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE timelines SET name = ?, months = ?, updated_at = ? WHERE id = ?`,
		t.Name, months, t.UpdatedAt.Format(time.RFC3339), t.ID)
	if err != nil {
		return fmt.Errorf("updating timeline: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("timeline %s: %w", t.ID, ErrNotFound)
	}

	for _, table := range []string{"item_order", "departments", "phases"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timeline_id = ?`, t.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return r.insertChildren(ctx, t)
}

// Delete removes the timeline; child rows go with it via ON DELETE CASCADE.
func (r *SQLiteTimelineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timeline: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("timeline %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTimelineRepo) insertChildren(ctx context.Context, t *domain.Timeline) error {
	for i, p := range t.Phases {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO phases (timeline_id, idx, name, start_month, end_month) VALUES (?, ?, ?, ?, ?)`,
			t.ID, i, p.Name, p.StartMonth, p.EndMonth)
		if err != nil {
			return fmt.Errorf("inserting phase %q: %w", p.Name, err)
		}
	}

	for i, d := range t.Departments {
		var row domain.CrewRow
		if i < len(t.Crew) {
			row = t.Crew[i]
		}
		crew, err := encodeJSON("crew", domain.FitCounts(row.Counts, t.MonthCount()))
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO departments (timeline_id, idx, name, max_crew, start_month, end_month,
				ramp_up_duration, ramp_down_duration, rate, phase_idx, crew, crew_source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, d.Name, d.MaxCrew, d.StartMonth, d.EndMonth,
			d.RampUpDuration, d.RampDownDuration, d.Rate, nullableIntToValue(d.PhaseRef),
			crew, domain.CoalesceStr(string(row.Source), string(domain.CrewDerived)),
		)
		if err != nil {
			return fmt.Errorf("inserting department %q: %w", d.Name, err)
		}
	}

	for pos, ref := range t.ItemOrder {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO item_order (timeline_id, position, kind, item_idx) VALUES (?, ?, ?, ?)`,
			t.ID, pos, string(ref.Kind), ref.Index)
		if err != nil {
			return fmt.Errorf("inserting item order %d: %w", pos, err)
		}
	}
	return nil
}

// load scans the timeline header and then reads its child tables.
func (r *SQLiteTimelineRepo) load(ctx context.Context, row *sql.Row) (*domain.Timeline, error) {
	var t domain.Timeline
	var monthsJSON, createdAtStr, updatedAtStr string

	if err := row.Scan(&t.ID, &t.Name, &monthsJSON, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("timeline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timeline: %w", err)
	}
	if err := decodeJSON("months", monthsJSON, &t.Months); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}

	if err := r.loadPhases(ctx, &t); err != nil {
		return nil, err
	}
	if err := r.loadDepartments(ctx, &t); err != nil {
		return nil, err
	}
	if err := r.loadItemOrder(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteTimelineRepo) loadPhases(ctx context.Context, t *domain.Timeline) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, start_month, end_month FROM phases WHERE timeline_id = ? ORDER BY idx`, t.ID)
	if err != nil {
		return fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Phase
		if err := rows.Scan(&p.Name, &p.StartMonth, &p.EndMonth); err != nil {
			return fmt.Errorf("scanning phase row: %w", err)
		}
		t.Phases = append(t.Phases, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating phases: %w", err)
	}
	return nil
}

func (r *SQLiteTimelineRepo) loadDepartments(ctx context.Context, t *domain.Timeline) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, max_crew, start_month, end_month, ramp_up_duration, ramp_down_duration,
			rate, phase_idx, crew, crew_source
		FROM departments WHERE timeline_id = ? ORDER BY idx`, t.ID)
	if err != nil {
		return fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Department
		var phaseIdx sql.NullInt64
		var crewJSON, source string
		err := rows.Scan(&d.Name, &d.MaxCrew, &d.StartMonth, &d.EndMonth,
			&d.RampUpDuration, &d.RampDownDuration, &d.Rate, &phaseIdx, &crewJSON, &source)
		if err != nil {
			return fmt.Errorf("scanning department row: %w", err)
		}
		d.PhaseRef = nullableIntFromSQL(phaseIdx)

		var counts []int
		if err := decodeJSON("crew", crewJSON, &counts); err != nil {
			return err
		}
		t.Departments = append(t.Departments, d)
		t.Crew = append(t.Crew, domain.CrewRow{
			Counts: domain.FitCounts(counts, t.MonthCount()),
			Source: domain.CrewSource(source),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating departments: %w", err)
	}
	return nil
}

func (r *SQLiteTimelineRepo) loadItemOrder(ctx context.Context, t *domain.Timeline) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, item_idx FROM item_order WHERE timeline_id = ? ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("listing item order: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var ref domain.ItemRef
		if err := rows.Scan(&kind, &ref.Index); err != nil {
			return fmt.Errorf("scanning item order row: %w", err)
		}
		ref.Kind = domain.ItemKind(kind)
		t.ItemOrder = append(t.ItemOrder, ref)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating item order: %w", err)
	}
	return nil
}
