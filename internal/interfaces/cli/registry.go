package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemNomen/pkg/client"
)

// NewRegistryCommand creates the registry command group for working with
// the persisted name registry of a running API server.
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and manage the persisted name registry",
	}

	cmd.AddCommand(
		newRegistryGetCommand(),
		newRegistryListCommand(),
		newRegistryDeleteCommand(),
	)

	return cmd
}

func newRegistryGetCommand() *cobra.Command {
	var withTrace bool

	cmd := &cobra.Command{
		Use:   "get <structure-hash>",
		Short: "Fetch a name record by structure hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := requireClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			record, err := cliCtx.Client.Names().Get(ctx, args[0], withTrace)
			if err != nil {
				return registryError(err)
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return PrintResult(cmd, record)
			}
			printRecord(cmd, record)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTrace, "trace", false, "include the stored decision trace")
	return cmd
}

func newRegistryListCommand() *cobra.Command {
	opts := client.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted name records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := requireClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			records, page, err := cliCtx.Client.Names().List(ctx, opts)
			if err != nil {
				return registryError(err)
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return PrintResult(cmd, records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					truncate(r.StructureHash, 16),
					r.Name,
					string(r.Method),
					fmt.Sprintf("%.2f", r.Confidence),
					r.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"HASH", "NAME", "METHOD", "CONFIDENCE", "CREATED"}, rows))
			if page != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d (page size %d, %d total)\n",
					page.Page, page.PageSize, page.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Method, "method", "", "filter by naming method (substitutive, functional_class, ...)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "records per page")
	return cmd
}

func newRegistryDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <structure-hash>",
		Short: "Delete a name record by structure hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := requireClient(cmd)
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deletion requires --yes")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			if err := cliCtx.Client.Names().Delete(ctx, args[0]); err != nil {
				return registryError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func requireClient(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	if cliCtx.Client == nil {
		return nil, fmt.Errorf("no API client available, check --server")
	}
	return cliCtx, nil
}

// registryError rewrites SDK errors into operator-friendly messages.
func registryError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return fmt.Errorf("record not found: %s", apiErr.Message)
		case apiErr.IsRateLimited():
			return fmt.Errorf("rate limited by server, retry later")
		}
	}
	return err
}

func printRecord(cmd *cobra.Command, r *client.NameRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:       %s\n", r.Name)
	fmt.Fprintf(out, "Method:     %s\n", r.Method)
	fmt.Fprintf(out, "Hash:       %s\n", r.StructureHash)
	fmt.Fprintf(out, "Confidence: %.2f\n", r.Confidence)
	if len(r.FiredRuleIDs) > 0 {
		fmt.Fprintf(out, "Rules:      %s\n", strings.Join(r.FiredRuleIDs, ", "))
	}
	for _, c := range r.Conflicts {
		fmt.Fprintf(out, "Conflict:   [%s] %s\n", c.RuleID, c.Description)
	}
	fmt.Fprintf(out, "Created:    %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:    %s\n", r.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(r.Trace) > 0 {
		fmt.Fprintln(out, "Trace:")
		for _, entry := range r.Trace {
			fmt.Fprintf(out, "  %-12s %-28s %s\n", entry.Phase, entry.RuleID, entry.Description)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
