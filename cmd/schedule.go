package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var batchActor string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Auto-schedule every requirement that is not fully scheduled",
	RunE:  runBatch,
}

var slotCmd = &cobra.Command{
	Use:   "slot <requirement-id>",
	Short: "Preview the best available slot for a requirement without committing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlot,
}

func init() {
	batchCmd.Flags().StringVar(&batchActor, "actor", "batch-cli", "actor recorded in the audit trail")
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(slotCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Scheduler.ScheduleAllPending(batchActor)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scheduled: %d\n", res.Scheduled)
	fmt.Fprintf(out, "skipped (no staff): %d\n", res.SkippedNoStaff)
	fmt.Fprintf(out, "failed: %d\n", res.Failed)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  %s: %s\n", f.RequirementID, f.Reason)
	}
	return nil
}

func runSlot(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("requirement id: %w", err)
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	best, err := svc.Scheduler.FindBestSlot(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s-%s (score %.3f)\n", best.Day, best.Start, best.End, best.Score)
	return nil
}
