package schemacheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
)

// Report lists every correction applied and every check that failed. Success
// means no errors; an empty Actions list on a healthy schema is the expected
// idempotent outcome.
type Report struct {
	Actions []string `json:"actions"`
	Errors  []string `json:"errors"`
	Success bool     `json:"success"`
}

type column struct {
	name string
	ddl  string
}

type table struct {
	name      string
	createSQL string
	columns   []column
}

// Checker reconciles the live schema with the application's expectations by
// additive, idempotent changes only. Columns are never dropped or renamed.
// The forward migration ledger is the primary mechanism; this routine is the
// defensive runtime check behind it.
type Checker struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func New(db *dbpg.DB, log *zerolog.Logger) *Checker {
	return &Checker{db: db, log: log}
}

var expectedTables = []table{
	{
		name: "events",
		createSQL: `CREATE TABLE events (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			start_time TIMESTAMPTZ NOT NULL,
			location TEXT,
			capacity INT NOT NULL DEFAULT 0,
			payment_required BOOLEAN NOT NULL DEFAULT FALSE,
			price NUMERIC(10,2),
			payment_link TEXT,
			public_slug TEXT UNIQUE,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		columns: []column{
			{"title", "TEXT NOT NULL DEFAULT ''"},
			{"description", "TEXT"},
			{"start_time", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
			{"location", "TEXT"},
			{"capacity", "INT NOT NULL DEFAULT 0"},
			{"payment_required", "BOOLEAN NOT NULL DEFAULT FALSE"},
			{"price", "NUMERIC(10,2)"},
			{"payment_link", "TEXT"},
			{"public_slug", "TEXT"},
			{"is_public", "BOOLEAN NOT NULL DEFAULT FALSE"},
			{"created_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
			{"updated_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
		},
	},
	{
		name: "registrations",
		createSQL: `CREATE TABLE registrations (
			id SERIAL PRIMARY KEY,
			event_id INT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			guardian_name TEXT,
			email TEXT NOT NULL,
			phone TEXT,
			attendee_count INT NOT NULL DEFAULT 1,
			confirmation_status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_reference TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (event_id, email)
		)`,
		columns: []column{
			{"event_id", "INT"},
			{"full_name", "TEXT"},
			{"guardian_name", "TEXT"},
			{"email", "TEXT"},
			{"phone", "TEXT"},
			{"attendee_count", "INT NOT NULL DEFAULT 1"},
			{"confirmation_status", "TEXT NOT NULL DEFAULT 'pending'"},
			{"payment_status", "TEXT NOT NULL DEFAULT 'pending'"},
			{"payment_reference", "TEXT"},
			{"created_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
			{"updated_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
		},
	},
	{
		name: "notification_records",
		createSQL: `CREATE TABLE notification_records (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			phone TEXT,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			event_id INT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		columns: []column{
			{"type", "TEXT NOT NULL DEFAULT ''"},
			{"phone", "TEXT"},
			{"email", "TEXT NOT NULL DEFAULT ''"},
			{"message", "TEXT NOT NULL DEFAULT ''"},
			{"event_id", "INT NOT NULL DEFAULT 0"},
			{"status", "TEXT NOT NULL DEFAULT ''"},
			{"created_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
		},
	},
	{
		name: "email_logs",
		createSQL: `CREATE TABLE email_logs (
			id UUID PRIMARY KEY,
			recipient TEXT NOT NULL,
			subject TEXT NOT NULL,
			event_id INT NOT NULL,
			registration_id INT,
			provider_message_id TEXT,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		columns: []column{
			{"recipient", "TEXT NOT NULL DEFAULT ''"},
			{"subject", "TEXT NOT NULL DEFAULT ''"},
			{"event_id", "INT NOT NULL DEFAULT 0"},
			{"registration_id", "INT"},
			{"provider_message_id", "TEXT"},
			{"status", "TEXT NOT NULL DEFAULT ''"},
			{"created_at", "TIMESTAMPTZ NOT NULL DEFAULT NOW()"},
		},
	},
}

// Run checks every expected table and column, applying additive fixes. An
// individual failure is captured and the remaining checks still run; only a
// dead connection up front aborts the whole pass.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	if err := c.db.Master.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	report := &Report{Actions: []string{}, Errors: []string{}}

	for _, t := range expectedTables {
		exists, err := c.tableExists(ctx, t.name)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("check table %s: %v", t.name, err))
			continue
		}

		if !exists {
			if _, err := c.db.Master.ExecContext(ctx, t.createSQL); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("create table %s: %v", t.name, err))
				continue
			}
			report.Actions = append(report.Actions, "created table "+t.name)
			continue
		}

		c.reconcileColumns(ctx, t, report)
	}

	c.backfillSlugs(ctx, report)

	report.Success = len(report.Errors) == 0
	c.log.Info().
		Int("actions", len(report.Actions)).
		Int("errors", len(report.Errors)).
		Msg("schema check finished")
	return report, nil
}

func (c *Checker) tableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.db.Master.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	return exists, err
}

func (c *Checker) reconcileColumns(ctx context.Context, t table, report *Report) {
	actual, err := c.columnSet(ctx, t.name)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("list columns of %s: %v", t.name, err))
		return
	}

	for _, col := range t.columns {
		if actual[col.name] {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t.name, col.name, col.ddl)
		if _, err := c.db.Master.ExecContext(ctx, alter); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("add column %s.%s: %v", t.name, col.name, err))
			continue
		}
		report.Actions = append(report.Actions, fmt.Sprintf("added column %s.%s", t.name, col.name))
	}
}

func (c *Checker) columnSet(ctx context.Context, tableName string) (map[string]bool, error) {
	rows, err := c.db.Master.QueryContext(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		set[name] = true
	}
	return set, rows.Err()
}

// backfillSlugs assigns a deterministic title-derived slug with a random
// suffix to public events that predate the public_slug column. Row-by-row on
// purpose: each row gets its own suffix and a failure skips just that row.
func (c *Checker) backfillSlugs(ctx context.Context, report *Report) {
	rows, err := c.db.Master.QueryContext(ctx, `
		SELECT id, title FROM events
		WHERE is_public = TRUE AND public_slug IS NULL
	`)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("list events without slug: %v", err))
		return
	}
	defer rows.Close()

	type row struct {
		id    int64
		title string
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.title); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("scan event without slug: %v", err))
			return
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("list events without slug: %v", err))
		return
	}

	for _, r := range pending {
		slug := Slugify(r.title) + "-" + uuid.NewString()[:8]
		if _, err := c.db.Master.ExecContext(ctx,
			`UPDATE events SET public_slug = $1 WHERE id = $2 AND public_slug IS NULL`,
			slug, r.id,
		); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("backfill slug for event %d: %v", r.id, err))
			continue
		}
		report.Actions = append(report.Actions, fmt.Sprintf("backfilled slug for event %d", r.id))
	}
}

// Slugify lowercases the title and collapses anything outside [a-z0-9] into
// single dashes.
func Slugify(title string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
