package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/tui"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"new", "add"},
		Short:   "Log new correspondence",
		Long: `Log a newly received letter, memo or circular.

An interactive form asks for the details; the received date defaults to
today. With --no-input the details come from flags instead, which suits
scripts and bulk loading.`,
		Example: `  registry log
  registry log --no-input --type external --classification "SME Development" \
    --sender "Acme Traders" --subject "Loan request" --assigned-to "J. Kamara"`,
		RunE: runLog,
	}

	cmd.Flags().Bool("no-input", false, "Take the entry from flags without prompting")
	cmd.Flags().String("date", "", "Date received, YYYY-MM-DD (default: today)")
	cmd.Flags().String("type", string(model.TypeExternal), "Type (External, Internal, Circular)")
	cmd.Flags().String("classification", string(model.ClassificationSMEDevelopment), "Classification (SME Development, Administration)")
	cmd.Flags().String("sender", "", "Sender or organization")
	cmd.Flags().String("subject", "", "Subject or description")
	cmd.Flags().String("assigned-to", "", "Assigned officer")

	return cmd
}

func runLog(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ctx := cli.NewInterruptHandler(out).HandleInterrupts(cmd.Context(), "Logging")

	entry, err := readEntry(ctx, cmd)
	if errors.Is(err, tui.ErrFormCanceled) || errors.Is(err, cli.ErrInputCancelled) {
		fmt.Fprintln(out, cli.FormatInfo("Nothing was logged."))
		return nil
	}
	if err != nil {
		return err
	}

	reg, closeStore, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	rec, err := reg.Submit(ctx, entry)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess("Successfully Logged! Reference ID: "+rec.RefID))
	return nil
}

// readEntry collects the entry from flags, the interactive form or, when
// stdin is not a terminal, line prompts.
func readEntry(ctx context.Context, cmd *cobra.Command) (model.Entry, error) {
	if noInput, _ := cmd.Flags().GetBool("no-input"); noInput {
		return entryFromFlags(cmd, time.Now())
	}
	if isInteractive(cmd) {
		return tui.NewEntryForm(time.Now()).Run(ctx)
	}
	return cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).PromptEntry(ctx)
}

func entryFromFlags(cmd *cobra.Command, now time.Time) (model.Entry, error) {
	flags := cmd.Flags()
	date, _ := flags.GetString("date")
	typ, _ := flags.GetString("type")
	class, _ := flags.GetString("classification")

	entry := model.Entry{DateReceived: model.CivilDate(now)}
	if date != "" {
		received, err := model.ParseInputDate(date)
		if err != nil {
			return entry, common.NewUserError("--date must look like 2024-01-31", err)
		}
		entry.DateReceived = received
	}

	var err error
	if entry.Type, err = model.ParseType(typ); err != nil {
		return entry, common.NewUserError(fmt.Sprintf("Unknown type %q", typ), err)
	}
	if entry.Classification, err = model.ParseClassification(class); err != nil {
		return entry, common.NewUserError(fmt.Sprintf("Unknown classification %q", class), err)
	}

	entry.Sender, _ = flags.GetString("sender")
	entry.Subject, _ = flags.GetString("subject")
	entry.AssignedTo, _ = flags.GetString("assigned-to")
	return entry, nil
}
