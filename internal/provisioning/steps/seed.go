package steps

import (
	"fmt"
	"os"
	"strings"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// LoadSeedData executes the statements of the configured seed file against
// the application schema.
//
// Seeding is not idempotent: re-running inserts duplicates or trips unique
// keys. Guarded mode skips seeding when the schema already contains tables;
// unguarded mode surfaces duplicate-key failures as duplicate-resource
// errors.
type LoadSeedData struct{}

// Name implements provisioning.Step.
func (s *LoadSeedData) Name() string { return "load-seed-data" }

// Checks implements provisioning.Step.
func (s *LoadSeedData) Checks() []string { return []string{"tcp:db"} }

// Run implements provisioning.Step.
func (s *LoadSeedData) Run(ctx *provisioning.Context) error {
	dbCfg := ctx.Target.Database
	if dbCfg.SeedFile == "" {
		return provisioning.ConfigError(s.Name(), "database.seed_file is not set")
	}

	// #nosec G304
	data, err := os.ReadFile(dbCfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	statements := splitStatements(string(data))
	if len(statements) == 0 {
		return provisioning.ConfigError(s.Name(), "seed file %s contains no statements", dbCfg.SeedFile)
	}

	conn, err := connectDB(schemaDSN(dbCfg))
	if err != nil {
		return fmt.Errorf("failed to open schema connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if ctx.Target.Guarded() {
		seeded, err := schemaHasTables(ctx, conn, dbCfg.Name)
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if seeded {
			ctx.Observer.Printf("[%s] schema %s already has tables, skipping seed", s.Name(), dbCfg.Name)
			return nil
		}
	}

	ctx.Observer.Printf("[%s] executing %d statements from %s", s.Name(), len(statements), dbCfg.SeedFile)

	for i, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			if isDuplicate(err) {
				return provisioning.DuplicateError(s.Name(),
					fmt.Errorf("statement %d: %w (target already seeded?)", i+1, err))
			}
			return fmt.Errorf("statement %d failed: %w", i+1, err)
		}
	}

	return nil
}

// schemaHasTables reports whether the schema already contains base tables.
func schemaHasTables(ctx *provisioning.Context, conn dbConn, schema string) (bool, error) {
	var count int
	row := conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_type = 'BASE TABLE'",
		schema)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// splitStatements breaks a SQL script into executable statements. Line
// comments and empty statements are dropped. Semicolons inside string
// literals are not handled; seed files with them should use one statement
// per line.
func splitStatements(script string) []string {
	var cleaned []string
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var statements []string
	for _, raw := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		stmt := strings.TrimSpace(raw)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
