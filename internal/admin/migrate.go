package admin

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/examsheet/internal/database"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator is the subset of *migrate.Migrate used by RunMigration.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
}

// MigrationCommands lists what RunMigration accepts.
var MigrationCommands = []string{"up", "down", "steps N", "version"}

// NewMigrator opens the embedded migrations against databaseURL.
// postgres:// and postgresql:// URLs are rewritten to the pgx5 driver scheme.
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(database.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("open migrator: %w", err)
	}
	return m, nil
}

func pgx5URL(u string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(u, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return u
}

// RunMigration executes one migration command and reports the resulting
// schema version on out. "No change" is not an error.
func RunMigration(m Migrator, command string, args []string, out io.Writer) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) == 0 {
			return errors.New("steps must be of form: migrate steps N")
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n == 0 {
			return fmt.Errorf("steps must be a non-zero number (got '%s')", args[0])
		}
		err = m.Steps(n)
	case "version":
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "no change")
	} else if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}

	return printVersion(m, out)
}

func printVersion(m Migrator, out io.Writer) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if dirty {
		fmt.Fprintf(out, "version: %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(out, "version: %d\n", version)
	return nil
}
