package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trezcool/mentor/storage/database"
)

func (cli *commandLine) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and insert the demo data into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := cli.database()
			if err != nil {
				return err
			}
			if err = database.Migrate(db, cli.logger); err != nil {
				return err
			}

			stats, err := database.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				cmd.Println("database already seeded")
				return nil
			}

			tables := make([]string, 0, len(stats))
			for table := range stats {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				cmd.Println(fmt.Sprintf("%s: %d rows", table, stats[table]))
			}
			return nil
		},
	}
}
