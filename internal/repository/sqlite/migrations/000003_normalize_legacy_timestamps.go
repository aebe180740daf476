package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"app-time-tracker/internal/logging"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_legacy_timestamps, Down_000003_normalize_legacy_timestamps)
}

// storageLayout matches the layout the repository writes.
const storageLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampColumn names a column to normalize and the zone that naive
// values in it were written in.
type timestampColumn struct {
	table  string
	column string
	loc    *time.Location
}

// Databases created by earlier releases hold session bounds as naive local
// times ("2025-06-23 11:47:24.890799") and project timestamps as SQLite
// CURRENT_TIMESTAMP values, which are naive UTC.
func legacyColumns() []timestampColumn {
	return []timestampColumn{
		{table: "projects", column: "created_at", loc: time.UTC},
		{table: "projects", column: "updated_at", loc: time.UTC},
		{table: "time_sessions", column: "start_time", loc: time.Local},
		{table: "time_sessions", column: "end_time", loc: time.Local},
	}
}

// Up_000003_normalize_legacy_timestamps rewrites every stored timestamp into
// the fixed-width UTC layout. Values that are already normalized are left
// as they are.
func Up_000003_normalize_legacy_timestamps(tx *sql.Tx) error {
	if _, err := tx.Exec(`UPDATE projects SET status = 'WIP' WHERE status IS NULL OR status = ''`); err != nil {
		return fmt.Errorf("failed to default project status: %w", err)
	}

	now := time.Now().UTC().Format(storageLayout)
	for _, c := range legacyColumns() {
		updated, skipped, err := normalizeColumn(tx, c, now)
		if err != nil {
			return err
		}
		if updated > 0 || skipped > 0 {
			logging.Debugf("normalized %s.%s: updated %d values, skipped %d\n", c.table, c.column, updated, skipped)
		}
	}
	return nil
}

// Down_000003_normalize_legacy_timestamps converts timestamps back to the
// naive "YYYY-MM-DD HH:MM:SS" form. Sub-second precision is lost.
func Down_000003_normalize_legacy_timestamps(tx *sql.Tx) error {
	for _, c := range legacyColumns() {
		query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = substr(%[2]s, 1, 10) || ' ' || substr(%[2]s, 12, 8)
		WHERE %[2]s GLOB '????-??-??T??:??:??*'`, c.table, c.column)
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to revert %s.%s: %w", c.table, c.column, err)
		}
	}
	return nil
}

func normalizeColumn(tx *sql.Tx, c timestampColumn, fallback string) (updated, skipped int, err error) {
	type row struct {
		id    int64
		value sql.NullString
	}

	// CAST keeps the driver from converting declared TIMESTAMP columns.
	query := fmt.Sprintf("SELECT id, CAST(%s AS TEXT) FROM %s", c.column, c.table)
	rows, err := tx.Query(query)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query %s: %w", c.table, err)
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.value); err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("failed to scan %s row: %w", c.table, err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, 0, fmt.Errorf("error iterating %s: %w", c.table, err)
	}
	rows.Close()

	stmt, err := tx.Prepare(fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", c.table, c.column))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare %s.%s update: %w", c.table, c.column, err)
	}
	defer stmt.Close()

	for _, r := range pending {
		var normalized string
		switch {
		case !r.value.Valid || strings.TrimSpace(r.value.String) == "":
			normalized = fallback
		default:
			t, perr := parseLegacyTime(r.value.String, c.loc)
			if perr != nil {
				logging.Debugf("skipping %s.%s for id %d: %v\n", c.table, c.column, r.id, perr)
				skipped++
				continue
			}
			normalized = t.UTC().Format(storageLayout)
		}
		if normalized == r.value.String {
			continue
		}
		if _, err := stmt.Exec(normalized, r.id); err != nil {
			return updated, skipped, fmt.Errorf("failed to update %s.%s for id %d: %w", c.table, c.column, r.id, err)
		}
		updated++
	}
	return updated, skipped, nil
}

// parseLegacyTime accepts RFC3339 values and the naive space-separated form,
// interpreting the latter in loc.
func parseLegacyTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	layouts := []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", value)
}
