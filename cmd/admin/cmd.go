package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/examsheet/internal/admin"
	"github.com/JonMunkholm/examsheet/internal/core"
)

var errHelp = errors.New("help provided")

// failureArgs returns the log attributes of a failed command, with an
// operator hint when the cause is a known one.
func failureArgs(err error) []any {
	args := []any{"error", err}
	if core.IsUserFacing(err) {
		args = append(args, "hint", core.FormatUserError(err))
	}
	return args
}

type commandLine struct {
	out io.Writer

	// openMigrator returns a migrator and the func that closes it.
	openMigrator func() (admin.Migrator, func(), error)
	resetResults func(ctx context.Context) error
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintf(cli.out, "  migrate %s - apply or inspect schema migrations\n", strings.Join(admin.MigrationCommands, "|"))
	fmt.Fprintln(cli.out, "  reset -yes - delete every exam result and item")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetCmd := flag.NewFlagSet("reset", flag.ContinueOnError)
	resetCmd.SetOutput(cli.out)
	resetYes := resetCmd.Bool("yes", false, "Confirm deleting all exam results.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2], args[3:])
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return errHelp
			}
			return err
		}
		if !*resetYes {
			fmt.Fprintln(cli.out, "refusing to reset without -yes")
			resetCmd.Usage()
			return errHelp
		}
		if err := cli.resetResults(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "exam results reset")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(command string, args []string) error {
	m, closeFn, err := cli.openMigrator()
	if err != nil {
		return err
	}
	defer closeFn()
	return admin.RunMigration(m, command, args, cli.out)
}
