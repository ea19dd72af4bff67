package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// registryServer fakes just enough of the API for the registry commands.
func registryServer(t *testing.T) *httptest.Server {
	t.Helper()
	record := map[string]interface{}{
		"id":             "3f0a1a9e-0c2f-4c3d-9a1b-6c8e5d4f2a10",
		"structure_hash": "a1b2c3d4e5f6a7b8",
		"name":           "ethanol",
		"method":         "substitutive",
		"confidence":     1.0,
		"fired_rule_ids": []string{"parent.longest-chain"},
		"created_at":     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		"updated_at":     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/names/a1b2c3d4e5f6a7b8", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, record, nil)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/names/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]string{
				"code":    "REG_001",
				"message": "name record not found",
			},
		})
	})
	mux.HandleFunc("/api/v1/names", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []interface{}{record}, map[string]int64{
			"page": 1, "page_size": 20, "total": 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, pagination interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{"success": true, "data": data}
	if pagination != nil {
		body["pagination"] = pagination
	}
	json.NewEncoder(w).Encode(body)
}

func TestRegistryGet(t *testing.T) {
	srv := registryServer(t)

	out, err := runCLI(t, "", "registry", "get", "a1b2c3d4e5f6a7b8", "--server", srv.URL)
	if err != nil {
		t.Fatalf("registry get failed: %v", err)
	}
	if !strings.Contains(out, "ethanol") {
		t.Errorf("expected record name in output, got:\n%s", out)
	}
	if !strings.Contains(out, "substitutive") {
		t.Errorf("expected method in output, got:\n%s", out)
	}
}

func TestRegistryGet_NotFound(t *testing.T) {
	srv := registryServer(t)

	_, err := runCLI(t, "", "registry", "get", "missing", "--server", srv.URL)
	if err == nil {
		t.Fatal("expected error for missing record")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should mention not found, got: %v", err)
	}
}

func TestRegistryGet_JSONOutput(t *testing.T) {
	srv := registryServer(t)

	out, err := runCLI(t, "", "registry", "get", "a1b2c3d4e5f6a7b8", "--server", srv.URL, "-o", "json")
	if err != nil {
		t.Fatalf("registry get failed: %v", err)
	}
	var rec struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if rec.Name != "ethanol" {
		t.Errorf("expected ethanol, got %q", rec.Name)
	}
}

func TestRegistryList(t *testing.T) {
	srv := registryServer(t)

	out, err := runCLI(t, "", "registry", "list", "--server", srv.URL)
	if err != nil {
		t.Fatalf("registry list failed: %v", err)
	}
	if !strings.Contains(out, "HASH") || !strings.Contains(out, "NAME") {
		t.Errorf("expected table headers, got:\n%s", out)
	}
	if !strings.Contains(out, "ethanol") {
		t.Errorf("expected record row, got:\n%s", out)
	}
	if !strings.Contains(out, "1 total") {
		t.Errorf("expected pagination summary, got:\n%s", out)
	}
}

func TestRegistryDelete(t *testing.T) {
	srv := registryServer(t)

	out, err := runCLI(t, "", "registry", "delete", "a1b2c3d4e5f6a7b8", "--yes", "--server", srv.URL)
	if err != nil {
		t.Fatalf("registry delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted") {
		t.Errorf("expected deletion confirmation, got:\n%s", out)
	}
}

func TestRegistryDelete_RequiresConfirmation(t *testing.T) {
	srv := registryServer(t)

	_, err := runCLI(t, "", "registry", "delete", "a1b2c3d4e5f6a7b8", "--server", srv.URL)
	if err == nil {
		t.Fatal("expected error without --yes")
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Errorf("error should mention --yes, got: %v", err)
	}
}
