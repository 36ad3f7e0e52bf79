package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the school-wide compliance roll-up",
	RunE:  runSummary,
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Sweep the committed schedule for double-bookings",
	RunE:  runConflicts,
}

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the most recent scheduling audit entries",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(auditCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	sum, err := svc.Scheduler.Summary()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "requirements: %d\n", sum.Requirements)
	fmt.Fprintf(out, "  unscheduled: %d\n", sum.Unscheduled)
	fmt.Fprintf(out, "  partially scheduled: %d\n", sum.PartiallyScheduled)
	fmt.Fprintf(out, "  fully scheduled: %d\n", sum.FullyScheduled)
	fmt.Fprintf(out, "minutes: %d scheduled of %d required (%.1f%%)\n",
		sum.ScheduledMinutes, sum.RequiredMinutes, sum.OverallPercentage)
	return nil
}

func runConflicts(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	conflicts, err := svc.Scheduler.DetectConflicts()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(conflicts) == 0 {
		fmt.Fprintln(out, "no conflicts")
		return nil
	}
	for _, c := range conflicts {
		fmt.Fprintf(out, "%s conflict on %s: %s (%s-%s) vs %s (%s-%s)\n",
			c.Kind, c.A.Day, c.A.ID, c.A.Start, c.A.End, c.B.ID, c.B.Start, c.B.End)
	}
	return fmt.Errorf("%d conflicts found", len(conflicts))
}

func runAudit(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	entries, err := svc.Store.Audit(auditLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s %s session=%s %s\n",
			e.Time.Format("2006-01-02 15:04:05"), e.Actor, e.Action, e.SessionID, e.Detail)
	}
	return nil
}
