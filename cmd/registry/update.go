package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/tui"
)

// errNoChange means the user backed out before confirming an update.
var errNoChange = errors.New("no change requested")

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [ref-id]",
		Short: "Update the status of logged correspondence",
		Long: `Move a correspondence item to In-Progress or Completed.

Completing an item stamps today as the completion date and records the
turnaround in days. Without a ref id you are asked for a search term, then
pick the item and the new status from the matches.`,
		Example: `  registry update MOTI-SME-1004 --status completed
  registry update`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().StringP("status", "s", "", "New status: In-Progress or Completed (required with a ref id)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cli.NewInterruptHandler(out).HandleInterrupts(cmd.Context(), "Update")

	reg, closeStore, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		refID  string
		status model.Status
	)
	if len(args) == 1 {
		refID = args[0]
		flag, _ := cmd.Flags().GetString("status")
		if flag == "" {
			return common.NewUserError("--status is required when a ref id is given", common.ErrInvalidInput)
		}
		if status, err = model.ParseUpdateStatus(flag); err != nil {
			return common.NewUserError(fmt.Sprintf("Unknown status %q; use In-Progress or Completed", flag), err)
		}
	} else {
		refID, status, err = chooseUpdate(ctx, cmd, reg)
		switch {
		case errors.Is(err, errNoChange), errors.Is(err, tui.ErrFormCanceled), errors.Is(err, cli.ErrInputCancelled):
			fmt.Fprintln(out, cli.FormatInfo("No changes made."))
			return nil
		case err != nil:
			return err
		}
	}

	rec, err := reg.UpdateStatus(ctx, refID, status)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess("Record Updated Online!"))
	fmt.Fprintln(out, cli.RenderRecord(rec.RefID, rec))
	return nil
}

// chooseUpdate searches the register and lets the user pick a record and a
// status. Nothing is chosen until the user confirms.
func chooseUpdate(ctx context.Context, cmd *cobra.Command, reg *registry.Registry) (string, model.Status, error) {
	out := cmd.OutOrStdout()
	interactive := isInteractive(cmd)
	prompter := cli.NewCLIPrompter(cmd.InOrStdin(), out)

	var (
		query string
		err   error
	)
	if interactive {
		query, err = tui.PromptQuery(ctx)
	} else {
		query, err = prompter.PromptLine(ctx, "Search by Sender, Subject or Ref ID")
	}
	if err != nil {
		return "", "", err
	}

	matches, err := reg.Search(ctx, query)
	if err != nil {
		return "", "", err
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No matching records."))
		return "", "", errNoChange
	}

	if interactive {
		return tui.NewUpdateForm(matches).Run(ctx)
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Found %d matching records:", len(matches))))
	if err := cli.WriteTable(out, matches, cli.SearchColumns); err != nil {
		return "", "", err
	}

	refIDs := make([]string, len(matches))
	for i, rec := range matches {
		refIDs[i] = rec.RefID
	}
	refID, err := prompter.PromptChoice(ctx, "Select Correspondence", refIDs, 0)
	if err != nil {
		return "", "", err
	}
	choice, err := prompter.PromptChoice(ctx, "New Status", cli.Labels(model.UpdateStatuses), len(model.UpdateStatuses)-1)
	if err != nil {
		return "", "", err
	}

	ok, err := prompter.Confirm(ctx, fmt.Sprintf("Set %s to %s?", refID, choice))
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", errNoChange
	}
	return refID, model.Status(choice), nil
}
