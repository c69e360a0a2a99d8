package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search by sender, subject or ref id",
		Long: `Search every column of the register. Matching ignores case, so
"acme" finds "Acme Traders".`,
		Example: `  registry search acme
  registry search MOTI-SME-1004`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(out, cli.FormatInfo("Enter a search term, e.g. 'registry search acme'."))
		return nil
	}

	reg, closeStore, err := openRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	matches, err := reg.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No records match %q.", query)))
		return nil
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Found %d matching records:", len(matches))))
	return cli.WriteTable(out, matches, cli.SearchColumns)
}
