package main

import (
	"errors"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/trezcool/mentor/apps/shared"
	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer

	// opened on demand, tests set them directly
	db   *sqlx.DB
	deps *shared.Deps

	closers []func() error
}

func newCommandLine(conf *core.Config, logger core.Logger, out io.Writer) *commandLine {
	return &commandLine{conf: conf, logger: logger, out: out}
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Student dashboard administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.seedCmd(),
		cli.indexCmd(),
		cli.contextCmd(),
		cli.askCmd(),
		cli.providersCmd(),
	)
	return root
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args[1:])
	return root.Execute()
}

// database opens the database without migrating it.
func (cli *commandLine) database() (*sqlx.DB, error) {
	if cli.db != nil {
		return cli.db, nil
	}
	if cli.deps != nil {
		return cli.deps.DB, nil
	}

	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return nil, err
	}
	db, err := database.Open(cli.conf)
	if err != nil {
		return nil, err
	}
	cli.db = db
	cli.closers = append(cli.closers, db.Close)
	return db, nil
}

func (cli *commandLine) dependencies() (*shared.Deps, error) {
	if cli.deps != nil {
		return cli.deps, nil
	}

	deps, err := shared.NewDeps(cli.conf, cli.logger, cli.logger, nil)
	if err != nil {
		return nil, err
	}
	cli.deps = deps
	cli.closers = append(cli.closers, deps.Close)
	return deps, nil
}

func (cli *commandLine) close() error {
	var firstErr error
	for i := len(cli.closers) - 1; i >= 0; i-- {
		if err := cli.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cli.closers = nil
	return firstErr
}
