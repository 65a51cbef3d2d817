package steps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/provisioning"
)

// MySQL error numbers that indicate a resource already exists.
const (
	mysqlErrDBExists    = 1007 // ER_DB_CREATE_EXISTS
	mysqlErrTableExists = 1050 // ER_TABLE_EXISTS_ERROR
	mysqlErrDupEntry    = 1062 // ER_DUP_ENTRY
	mysqlErrCannotUser  = 1396 // ER_CANNOT_USER (CREATE USER on existing user)
)

// rowScanner is the subset of *sql.Row the steps consume.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// dbConn is the slice of *sql.DB the database steps use, extracted so tests
// can substitute a recording fake through the connectDB factory variable.
type dbConn interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) rowScanner
	PingContext(ctx context.Context) error
	Close() error
}

// sqlConn adapts *sql.DB to dbConn.
type sqlConn struct {
	*sql.DB
}

func (c sqlConn) QueryRowContext(ctx context.Context, query string, args ...interface{}) rowScanner {
	return c.DB.QueryRowContext(ctx, query, args...)
}

// connectDB opens a database connection. Replaced in tests.
var connectDB = func(dsn string) (dbConn, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return sqlConn{DB: db}, nil
}

// adminDSN builds the DSN for administrative statements.
func adminDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/", db.AdminUser, db.AdminPassword, db.Host, db.Port)
}

// schemaDSN builds the DSN for statements against the application schema.
func schemaDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", db.AdminUser, db.AdminPassword, db.Host, db.Port, db.Name)
}

// isDuplicate reports whether err is a MySQL "already exists" error.
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	switch mysqlErr.Number {
	case mysqlErrDBExists, mysqlErrTableExists, mysqlErrDupEntry, mysqlErrCannotUser:
		return true
	}
	return false
}

// CreateDatabaseAndUser creates the application schema and its database
// user, then grants the user access.
//
// This step is not idempotent on its own: CREATE DATABASE and CREATE USER
// fail against an existing resource. Guarded mode uses IF NOT EXISTS;
// unguarded mode surfaces the collision as a duplicate-resource error.
type CreateDatabaseAndUser struct{}

// Name implements provisioning.Step.
func (s *CreateDatabaseAndUser) Name() string { return "create-database-and-user" }

// Checks implements provisioning.Step.
func (s *CreateDatabaseAndUser) Checks() []string { return []string{"tcp:db"} }

// Run implements provisioning.Step.
func (s *CreateDatabaseAndUser) Run(ctx *provisioning.Context) error {
	dbCfg := ctx.Target.Database
	if dbCfg.Name == "" || dbCfg.User == "" {
		return provisioning.ConfigError(s.Name(), "database.name and database.user are required")
	}

	conn, err := connectDB(adminDSN(dbCfg))
	if err != nil {
		return fmt.Errorf("failed to open admin connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("database not reachable at %s:%d: %w", dbCfg.Host, dbCfg.Port, err)
	}

	statements := s.statements(dbCfg, ctx.Target.Guarded())

	for _, stmt := range statements {
		ctx.Observer.Printf("[%s] %s", s.Name(), stmt.description)
		if _, err := conn.ExecContext(ctx, stmt.sql, stmt.args...); err != nil {
			if isDuplicate(err) {
				return provisioning.DuplicateError(s.Name(),
					fmt.Errorf("%s: %w (re-run with guard enabled to make this a no-op)", stmt.description, err))
			}
			return fmt.Errorf("%s: %w", stmt.description, err)
		}
	}

	return nil
}

type adminStatement struct {
	description string
	sql         string
	args        []interface{}
}

func (s *CreateDatabaseAndUser) statements(db config.DatabaseConfig, guarded bool) []adminStatement {
	ifNotExists := ""
	if guarded {
		ifNotExists = "IF NOT EXISTS "
	}

	// Identifiers cannot be bound as placeholders; they come from the
	// operator's own config, not remote input.
	return []adminStatement{
		{
			description: fmt.Sprintf("creating database %s", db.Name),
			sql:         fmt.Sprintf("CREATE DATABASE %s`%s`", ifNotExists, db.Name),
		},
		{
			description: fmt.Sprintf("creating user %s", db.User),
			sql:         fmt.Sprintf("CREATE USER %s'%s'@'%%' IDENTIFIED BY ?", ifNotExists, db.User),
			args:        []interface{}{db.Password},
		},
		{
			description: fmt.Sprintf("granting %s access to %s", db.User, db.Name),
			sql:         fmt.Sprintf("GRANT ALL PRIVILEGES ON `%s`.* TO '%s'@'%%'", db.Name, db.User),
		},
		{
			description: "flushing privileges",
			sql:         "FLUSH PRIVILEGES",
		},
	}
}
