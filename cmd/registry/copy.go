package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/config"
)

func copyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the register between backends",
		Long: `Copy the whole register from one backend to another, for example to move
an Excel tracker into Google Sheets or to keep a local SQLite backup.

The target is overwritten. A target that already holds records is left
alone unless --force is given.`,
		Example: `  registry copy --from xlsx --to sheets
  registry copy --from sheets --to sqlite --force`,
		RunE: runCopy,
	}

	backends := strings.Join(config.Backends, ", ")
	cmd.Flags().String("from", "", "Source backend ("+backends+")")
	cmd.Flags().String("to", "", "Target backend ("+backends+")")
	cmd.Flags().Bool("force", false, "Overwrite a target that already holds records")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runCopy(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ctx := cli.NewInterruptHandler(out).HandleInterrupts(cmd.Context(), "Copy")

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	force, _ := cmd.Flags().GetBool("force")

	if strings.EqualFold(strings.TrimSpace(from), strings.TrimSpace(to)) {
		return common.NewUserError("--from and --to must name different backends", common.ErrInvalidInput)
	}

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), 4, "Opening "+from)

	source, closeSource, err := openStore(ctx, from)
	if err != nil {
		return err
	}
	defer closeSource()
	cli.Step(bar, "Reading "+from)

	table, err := source.Read(ctx)
	if err != nil {
		return common.NewUserError("Could not read the source register",
			fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
	}
	cli.Step(bar, "Opening "+to)

	target, closeTarget, err := openStore(ctx, to)
	if err != nil {
		return err
	}
	defer closeTarget()

	if !force {
		existing, err := target.Read(ctx)
		if err != nil {
			return common.NewUserError("Could not read the target register",
				fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
		}
		if len(existing) > 0 {
			return common.NewUserError(
				fmt.Sprintf("The %s register already holds %d records; use --force to overwrite it", to, len(existing)),
				common.ErrInvalidInput)
		}
	}
	cli.Step(bar, fmt.Sprintf("Writing %d records to %s", len(table), to))

	if err := target.Write(ctx, table); err != nil {
		return common.NewUserError("Could not write the target register",
			fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
	}
	cli.Step(bar, "Done")

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Copied %d records from %s to %s", len(table), from, to)))
	return nil
}
