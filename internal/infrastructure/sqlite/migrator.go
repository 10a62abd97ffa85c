package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/golang-migrate/migrate/v4/database"
)

// migrationDriver adapts an open connection to the migrate database
// driver interface. The stock sqlite drivers register their own
// database/sql drivers, which collides with the one already registered
// by the ncruces driver.
type migrationDriver struct {
	conn *sql.DB
}

var _ database.Driver = (*migrationDriver)(nil)

func newMigrationDriver(conn *sql.DB) *migrationDriver {
	return &migrationDriver{conn: conn}
}

func (d *migrationDriver) Open(url string) (database.Driver, error) {
	return nil, errors.New("open by URL is not supported, use an existing connection")
}

func (d *migrationDriver) Close() error {
	// The connection is owned by DB.
	return nil
}

func (d *migrationDriver) Lock() error {
	// Single writer, busy_timeout covers concurrent opens.
	return nil
}

func (d *migrationDriver) Unlock() error {
	return nil
}

func (d *migrationDriver) Run(migration io.Reader) error {
	statements, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	if _, err := d.conn.Exec(string(statements)); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (d *migrationDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations"); err != nil {
		tx.Rollback()
		return err
	}
	if version >= 0 {
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)",
			version, dirty,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (d *migrationDriver) Version() (int, bool, error) {
	if err := d.ensureVersionTable(); err != nil {
		return database.NilVersion, false, err
	}
	var version int
	var dirty bool
	err := d.conn.QueryRow("SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return database.NilVersion, false, nil
	}
	if err != nil {
		return database.NilVersion, false, err
	}
	return version, dirty, nil
}

func (d *migrationDriver) Drop() error {
	rows, err := d.conn.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	)
	if err != nil {
		return err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, table := range tables {
		if _, err := d.conn.Exec("DROP TABLE " + table); err != nil {
			return err
		}
	}
	return nil
}

func (d *migrationDriver) ensureVersionTable() error {
	_, err := d.conn.Exec(
		"CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL, dirty INTEGER NOT NULL)",
	)
	return err
}
