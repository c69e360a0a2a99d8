package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/tui"
	"github.com/Veraticus/moti-registry/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"overview"},
		Short:   "Show the directorate overview",
		Long: `Show the register metrics (total received, pending actions and average
turnaround in days) followed by every logged item.

Use --interactive for a live dashboard with search.`,
		RunE: runDashboard,
	}

	cmd.Flags().BoolP("interactive", "i", false, "Open the interactive dashboard")
	cmd.Flags().String("theme", "", "Dashboard theme (default, catppuccin)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	interactive, _ := cmd.Flags().GetBool("interactive")

	reg, closeStore, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if interactive {
		theme, err := themes.ByName(viper.GetString("tui.theme"))
		if err != nil {
			return err
		}
		return tui.RunDashboard(ctx, reg, theme)
	}

	summary, table, err := reg.Dashboard(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Directorate Overview"))
	fmt.Fprintln(out, cli.RenderSummary(summary))
	fmt.Fprintln(out)

	if len(table) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No correspondence logged yet. Use 'registry log' to add the first item."))
		return nil
	}

	fmt.Fprintln(out, cli.StyleTitle("Full Correspondence Registry"))
	return cli.WriteTable(out, table, nil)
}
