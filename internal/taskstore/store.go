// Package taskstore provides the SQLite-backed source of declarative task
// records. It sits outside the core pipeline: records are loaded as a batch,
// pushed into the queue manager, and marked submitted. Task history is never
// written back here.
package taskstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/farmm/gantry-engine/internal/domain"
)

// schemaV1 defines the task record schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS task_records (
	task_id    INTEGER PRIMARY KEY,
	operation  TEXT NOT NULL,
	toolhead   TEXT NOT NULL DEFAULT '',
	shape      TEXT NOT NULL,
	point_x    REAL NOT NULL DEFAULT 0,
	point_y    REAL NOT NULL DEFAULT 0,
	box_x0     REAL NOT NULL DEFAULT 0,
	box_y0     REAL NOT NULL DEFAULT 0,
	box_x1     REAL NOT NULL DEFAULT 0,
	box_y1     REAL NOT NULL DEFAULT 0,
	grid_nx    INTEGER NOT NULL DEFAULT 0,
	grid_ny    INTEGER NOT NULL DEFAULT 0,
	submitted  INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_records_submitted ON task_records(submitted, task_id);
`

// NewDB opens the task database at the given path with recommended pragmas
// and runs the V1 schema migration.
func NewDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open task database: %w", err)
	}

	// Single writer is plenty here; WAL still allows concurrent readers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, domain.WrapRobotError(domain.ErrStoreInit.Code, "migrate schema", err)
	}

	return db, nil
}

// Repo handles persistence for declarative task records.
type Repo struct{}

// Insert stores one task record.
func (r *Repo) Insert(ctx context.Context, db *sql.DB, t domain.Task) error {
	const q = `INSERT INTO task_records
(task_id, operation, toolhead, shape, point_x, point_y, box_x0, box_y0, box_x1, box_y1, grid_nx, grid_ny, submitted, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`

	s := t.Shape
	_, err := db.ExecContext(ctx, q,
		t.ID,
		t.Operation,
		t.Toolhead,
		string(s.Kind),
		s.Point.X, s.Point.Y,
		s.BoxFrom.X, s.BoxFrom.Y,
		s.BoxTo.X, s.BoxTo.Y,
		s.GridNX, s.GridNY,
		time.Now().Unix(),
	)
	if err != nil {
		return domain.WrapRobotError(domain.ErrStoreWrite.Code, "insert task record", err)
	}
	return nil
}

// LoadPending returns all unsubmitted task records in id order.
func (r *Repo) LoadPending(ctx context.Context, db *sql.DB) ([]domain.Task, error) {
	const q = `SELECT task_id, operation, toolhead, shape, point_x, point_y, box_x0, box_y0, box_x1, box_y1, grid_nx, grid_ny
FROM task_records WHERE submitted = 0 ORDER BY task_id`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.WrapRobotError(domain.ErrStoreQuery.Code, "load pending tasks", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var t domain.Task
		var kind string
		var s domain.Shape
		err := rows.Scan(&t.ID, &t.Operation, &t.Toolhead, &kind,
			&s.Point.X, &s.Point.Y,
			&s.BoxFrom.X, &s.BoxFrom.Y, &s.BoxTo.X, &s.BoxTo.Y,
			&s.GridNX, &s.GridNY)
		if err != nil {
			return nil, domain.WrapRobotError(domain.ErrStoreQuery.Code, "scan task record", err)
		}
		switch domain.ShapeKind(kind) {
		case domain.ShapePoint, domain.ShapeGrid:
			s.Kind = domain.ShapeKind(kind)
		default:
			return nil, domain.NewRobotError(domain.ErrUnknownShape.Code,
				fmt.Sprintf("task %d has unknown shape %q", t.ID, kind))
		}
		t.Shape = s
		t.Status = domain.StatusAwaitingSlicing
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapRobotError(domain.ErrStoreQuery.Code, "iterate task records", err)
	}
	return out, nil
}

// MarkSubmitted flags records as handed to the queue manager so they are not
// loaded again.
func (r *Repo) MarkSubmitted(ctx context.Context, db *sql.DB, ids []int64) error {
	const q = `UPDATE task_records SET submitted = 1 WHERE task_id = ?`
	for _, id := range ids {
		if _, err := db.ExecContext(ctx, q, id); err != nil {
			return domain.WrapRobotError(domain.ErrStoreWrite.Code,
				fmt.Sprintf("mark task %d submitted", id), err)
		}
	}
	return nil
}

// Seed inserts the stock demo tasks (a watering point and a soil-test grid)
// into an empty store. A store with any records is left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_records`).Scan(&n); err != nil {
		return domain.WrapRobotError(domain.ErrStoreQuery.Code, "count task records", err)
	}
	if n > 0 {
		return nil
	}

	repo := &Repo{}
	demo := []domain.Task{
		{
			ID:        1,
			Operation: "water",
			Toolhead:  "water_nozzle",
			Shape:     domain.PointShape(domain.Vec2{X: 0.5, Y: 0.2}),
		},
		{
			ID:        2,
			Operation: "soil test",
			Toolhead:  "soil_sampler",
			Shape:     domain.GridShape(domain.Vec2{X: 1.2, Y: 0.1}, domain.Vec2{X: 1.5, Y: 1.0}, 2, 3),
		},
	}
	for _, t := range demo {
		if err := repo.Insert(ctx, db, t); err != nil {
			return err
		}
	}
	return nil
}
