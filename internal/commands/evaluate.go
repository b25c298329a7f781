package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/notify"
	"github.com/spf13/cobra"
)

func newEvaluateCommand(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate all budgets of an owner and send alerts",
		Long: "Evaluates all budgets of an owner against their spending. Alerts are created and sent " +
			"for every budget whose alert level rose since the last evaluation.\n\n" +
			"Without --owner and OWNER_ID, the budgets of all owners are evaluated.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.owner(owner, false)
			if err != nil {
				return err
			}

			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), a.cfg.Policy, notify.New(a.cfg.Notify), id)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ID of the owner. Defaults to OWNER_ID")

	return cmd
}

// owner returns the owner from the flag value or the configured default owner.
// If neither is set and required is false, uuid.Nil is returned.
func (a *app) owner(flag string, required bool) (uuid.UUID, error) {
	if flag == "" {
		if required && a.cfg.Owner == uuid.Nil {
			return uuid.Nil, errOwnerMissing
		}
		return a.cfg.Owner, nil
	}

	id, err := uuid.Parse(flag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--owner must be a UUID: %w", err)
	}
	return id, nil
}

func runEvaluate(ctx context.Context, out io.Writer, policy models.AlertPolicy, notifier notify.Notifier, owner uuid.UUID) error {
	alerts, err := models.EvaluateBudgets(models.DB, policy, owner)
	if err != nil {
		return fmt.Errorf("evaluating budgets: %w", err)
	}

	failed := 0
	for _, alert := range alerts {
		fmt.Fprintf(out, "%s: %s\n", alert.Level, alert.Message)

		if err := notifier.Notify(ctx, alert); err != nil {
			fmt.Fprintf(out, "notification failed: %v\n", err)
			failed++
		}
	}

	fmt.Fprintf(out, "%d alerts raised\n", len(alerts))

	if failed > 0 {
		return fmt.Errorf("%d of %d notifications failed", failed, len(alerts))
	}
	return nil
}
