package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/mentor/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose migration command (up, down, status, version, redo, reset, up-to, down-to...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			db, err := cli.database()
			if err != nil {
				return err
			}
			return gooseRunFunc(db, cli.logger, args[0], args[1:]...)
		},
	}
}
