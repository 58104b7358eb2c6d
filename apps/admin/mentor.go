package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/mentor/core/mentor"
	"github.com/trezcool/mentor/llm"
	"github.com/trezcool/mentor/storage/database/sqlx"
)

func (cli *commandLine) indexCmd() *cobra.Command {
	index := &cobra.Command{
		Use:   "index",
		Short: "Manage the document index",
	}
	index.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Re-embed every document and replace the stored index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := cli.dependencies()
			if err != nil {
				return err
			}
			n, err := deps.Index.Rebuild(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(fmt.Sprintf("indexed %d chunks", n))
			return nil
		},
	})
	return index
}

func (cli *commandLine) contextCmd() *cobra.Command {
	var studentID, kind string

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the context block the mentor is given for a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := mentor.ParseKind(kind)
			if err != nil {
				return err
			}
			db, err := cli.database()
			if err != nil {
				return err
			}
			assembler := mentor.NewAssembler(sqlxrepos.NewStudentRepository(db))
			block, err := assembler.Context(cmd.Context(), studentID, k)
			if err != nil {
				return err
			}
			cmd.Println(block)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "the student ID")
	cmd.Flags().StringVar(&kind, "kind", string(mentor.KindFull), "attendance, marks or full")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func (cli *commandLine) askCmd() *cobra.Command {
	var studentID string

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask the mentor a question on behalf of a student",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cli.dependencies()
			if err != nil {
				return err
			}
			answer, err := deps.MentorSvc.Answer(cmd.Context(), studentID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			cmd.Println(answer.Text)
			cmd.Println()
			cmd.Println("query type: " + string(answer.QueryType))
			if len(answer.Sources) > 0 {
				cmd.Println("sources: " + strings.Join(answer.Sources, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "the student ID")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func (cli *commandLine) providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported LLM providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range llm.ListProviders() {
				p, _ := llm.GetProvider(name)
				line := name
				if name == cli.conf.LLM.Provider {
					line += " (chat)"
				}
				if name == cli.conf.LLM.EmbedProvider {
					line += " (embeddings)"
				}
				if !p.SupportsEmbeds {
					line += " [no embeddings]"
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}
