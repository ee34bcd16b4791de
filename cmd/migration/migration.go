package migration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	migrate "github.com/rubenv/sql-migrate"
)

// Run applies every pending migration in dir. A relative dir is resolved
// against the working directory.
func Run(db *sql.DB, dir string) (int, error) {
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return 0, fmt.Errorf("getting working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("executing migrations from %s: %w", dir, err)
	}
	return n, nil
}
