package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemNomen/internal/nomenclature"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// NameOptions holds flags for the name command.
type NameOptions struct {
	File    string
	Trace   bool
	Remote  bool
	Persist bool
}

// NewNameCommand creates the name command.  It runs the decision engine
// in-process by default; --remote sends the molecule to an API server,
// which also persists the result in the registry.
func NewNameCommand() *cobra.Command {
	opts := &NameOptions{}

	cmd := &cobra.Command{
		Use:   "name",
		Short: "Compute the IUPAC name of a molecule",
		Long: `Compute the systematic IUPAC name of a molecular graph.

The molecule is read as JSON from --file, or from stdin when --file is
"-" or omitted with piped input. Example input:

  {"atoms": [{"id": 0, "symbol": "C"}, {"id": 1, "symbol": "C"},
             {"id": 2, "symbol": "O"}],
   "bonds": [{"atom1": 0, "atom2": 1, "order": "single"},
             {"atom1": 1, "atom2": 2, "order": "single"}]}`,
		Example: `  chemnomen name -f ethanol.json
  cat ethanol.json | chemnomen name --trace
  chemnomen name -f ethanol.json --remote --server http://api:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runName(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "-", "molecule JSON file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the full rule-firing trace in the output")
	cmd.Flags().BoolVar(&opts.Remote, "remote", false, "name via the API server instead of the local engine")

	return cmd
}

func runName(cmd *cobra.Command, opts *NameOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	mol, err := readMolecule(cmd, opts.File)
	if err != nil {
		return err
	}
	if err := mol.Validate(); err != nil {
		return fmt.Errorf("invalid molecule: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	var result *naming.Result
	if opts.Remote {
		result, err = nameRemote(ctx, cliCtx, mol, opts.Trace)
	} else {
		engine := nomenclature.NewEngine(cliCtx.Logger)
		result, err = engine.Name(ctx, mol)
	}
	if err != nil {
		return err
	}

	if !opts.Trace {
		result.Trace = nil
	}
	return printNameResult(cmd, cliCtx, result)
}

func nameRemote(ctx context.Context, cliCtx *CLIContext, mol *mtypes.Molecule, trace bool) (*naming.Result, error) {
	if cliCtx.Client == nil {
		return nil, fmt.Errorf("no API client available, check --server")
	}
	return cliCtx.Client.Names().Generate(ctx, mol, trace)
}

// readMolecule reads and decodes a molecule JSON document from a file or
// stdin.
func readMolecule(cmd *cobra.Command, path string) (*mtypes.Molecule, error) {
	var r io.Reader
	switch path {
	case "", "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open molecule file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var mol mtypes.Molecule
	if err := dec.Decode(&mol); err != nil {
		return nil, fmt.Errorf("cannot parse molecule JSON: %w", err)
	}
	return &mol, nil
}

func printNameResult(cmd *cobra.Command, cliCtx *CLIContext, result *naming.Result) error {
	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:       %s\n", result.Name)
	fmt.Fprintf(out, "Method:     %s\n", result.Method)
	fmt.Fprintf(out, "Hash:       %s\n", result.StructureHash)
	fmt.Fprintf(out, "Confidence: %.2f\n", result.Confidence)
	if len(result.FiredRuleIDs) > 0 {
		fmt.Fprintf(out, "Rules:      %s\n", strings.Join(result.FiredRuleIDs, ", "))
	}
	for _, c := range result.Conflicts {
		fmt.Fprintf(out, "Conflict:   [%s] %s\n", c.RuleID, c.Description)
	}
	if len(result.Trace) > 0 {
		fmt.Fprintln(out, "Trace:")
		for _, entry := range result.Trace {
			fmt.Fprintf(out, "  %-12s %-28s %s\n", entry.Phase, entry.RuleID, entry.Description)
		}
	}
	return nil
}
