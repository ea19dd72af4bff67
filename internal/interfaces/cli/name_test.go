package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ethanolJSON = `{
	"atoms": [
		{"id": 0, "symbol": "C", "hydrogens": 3},
		{"id": 1, "symbol": "C", "hydrogens": 2},
		{"id": 2, "symbol": "O", "hydrogens": 1}
	],
	"bonds": [
		{"atom1": 0, "atom2": 1, "order": "single"},
		{"atom1": 1, "atom2": 2, "order": "single"}
	]
}`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNameCommand_Stdin(t *testing.T) {
	out, err := runCLI(t, ethanolJSON, "name")
	if err != nil {
		t.Fatalf("name command failed: %v", err)
	}
	if !strings.Contains(out, "ethanol") {
		t.Errorf("expected ethanol in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Method:") {
		t.Errorf("text output should include the method line, got:\n%s", out)
	}
	if strings.Contains(out, "Trace:") {
		t.Errorf("trace should be omitted without --trace, got:\n%s", out)
	}
}

func TestNameCommand_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ethanol.json")
	if err := os.WriteFile(path, []byte(ethanolJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "name", "-f", path)
	if err != nil {
		t.Fatalf("name command failed: %v", err)
	}
	if !strings.Contains(out, "ethanol") {
		t.Errorf("expected ethanol in output, got:\n%s", out)
	}
}

func TestNameCommand_JSONOutput(t *testing.T) {
	out, err := runCLI(t, ethanolJSON, "name", "-o", "json")
	if err != nil {
		t.Fatalf("name command failed: %v", err)
	}

	var result struct {
		Name          string  `json:"name"`
		Method        string  `json:"method"`
		StructureHash string  `json:"structure_hash"`
		Confidence    float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if result.Name != "ethanol" {
		t.Errorf("expected name ethanol, got %q", result.Name)
	}
	if result.Method != "substitutive" {
		t.Errorf("expected substitutive method, got %q", result.Method)
	}
	if result.StructureHash == "" {
		t.Error("structure hash should be set")
	}
	if result.Confidence <= 0 {
		t.Errorf("confidence should be positive, got %f", result.Confidence)
	}
}

func TestNameCommand_Trace(t *testing.T) {
	out, err := runCLI(t, ethanolJSON, "name", "--trace")
	if err != nil {
		t.Fatalf("name command failed: %v", err)
	}
	if !strings.Contains(out, "Trace:") {
		t.Errorf("expected trace section in output, got:\n%s", out)
	}
}

func TestNameCommand_ClientOnlyConfig(t *testing.T) {
	// Offline naming needs no database or broker credentials: a config file
	// carrying only the client sections must be accepted.
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "chemnomen.yaml")
	cfg := "server:\n  port: 9090\nlog:\n  level: \"warn\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, ethanolJSON, "name", "--config", cfgPath)
	if err != nil {
		t.Fatalf("name command failed: %v", err)
	}
	if !strings.Contains(out, "ethanol") {
		t.Errorf("expected ethanol in output, got:\n%s", out)
	}
}

func TestNameCommand_MalformedJSON(t *testing.T) {
	_, err := runCLI(t, "{not json", "name")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing, got: %v", err)
	}
}

func TestNameCommand_InvalidMolecule(t *testing.T) {
	// Bond references an atom that does not exist.
	input := `{
		"atoms": [{"id": 0, "symbol": "C"}],
		"bonds": [{"atom1": 0, "atom2": 7, "order": "single"}]
	}`
	_, err := runCLI(t, input, "name")
	if err == nil {
		t.Fatal("expected error for invalid molecule")
	}
}

func TestNameCommand_MissingFile(t *testing.T) {
	_, err := runCLI(t, "", "name", "-f", "/nonexistent/molecule.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
