package main

// Notes:
// - Black-box through runDoctorCmd; Chrome detection depends on the host, so
//   only fields that do not depend on it are asserted strictly.
// - The environment is injected, so these tests run in parallel.

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alnah/go-ebookgen/internal/config"
	"github.com/alnah/go-ebookgen/internal/provider"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - JSON and text output
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(map[string]string{provider.APIKeyEnv: "sk-test"})
	runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal([]byte(te.stdout.String()), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, te.stdout.String())
	}

	if !result.Provider.APIKeySet {
		t.Error("APIKeySet should be true")
	}
	if result.Provider.Model != config.DefaultModel {
		t.Errorf("Model = %q, want %q", result.Provider.Model, config.DefaultModel)
	}
	if result.Config.Source != "defaults" || !result.Config.Valid {
		t.Errorf("Config = %+v, want valid defaults", result.Config)
	}
	if result.Env.OS == "" || result.Env.Arch == "" {
		t.Error("platform should be reported")
	}
	valid := map[string]bool{statusReady: true, statusWarnings: true, statusErrors: true}
	if !valid[result.Status] {
		t.Errorf("Status = %q", result.Status)
	}
	if strings.Contains(te.stdout.String(), "sk-test") {
		t.Error("doctor must not print the API key")
	}
}

func TestRunDoctorCmd_MissingKeyIsError(t *testing.T) {
	t.Parallel()

	te := newTestEnv(nil)
	code := runDoctorCmd([]string{"--json"}, te.Environment)

	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	var result doctorResult
	if err := json.Unmarshal([]byte(te.stdout.String()), &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != statusErrors {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, provider.APIKeyEnv) {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors should mention %s, got %v", provider.APIKeyEnv, result.Errors)
	}
}

func TestRunDoctorCmd_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "export:\n  margin: 9\n")
	te := newTestEnv(map[string]string{provider.APIKeyEnv: "sk-test"})

	code := runDoctorCmd([]string{"-c", path}, te.Environment)

	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	out := te.stdout.String()
	for _, want := range []string{"ebookgen doctor", "(invalid)", "export.margin", "Status: Not ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_ContainerWarning(t *testing.T) {
	t.Parallel()

	te := newTestEnv(map[string]string{provider.APIKeyEnv: "sk-test", "EBOOKGEN_CONTAINER": "1"})
	runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal([]byte(te.stdout.String()), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Env.Container || result.Env.ContainerHint != "EBOOKGEN_CONTAINER=1" {
		t.Errorf("Env = %+v, want container from EBOOKGEN_CONTAINER", result.Env)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "ROD_NO_SANDBOX") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings should suggest ROD_NO_SANDBOX, got %v", result.Warnings)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	te := newTestEnv(nil)
	if code := runDoctorCmd([]string{"--nope"}, te.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}
