package hook

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// scriptHook writes a shell script into a temp dir and returns it as a Hook.
func scriptHook(t *testing.T, name, script string) *Hook {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Hook{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Events:     []string{EventPoint},
		},
		Path:       dir,
		Executable: path,
	}
}

func pointRequest(team string) *Request {
	return &Request{
		Event:     EventPoint,
		Team:      team,
		Mode:      "ball",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExecutor_Execute(t *testing.T) {
	h := scriptHook(t, "ok-hook", `#!/bin/sh
echo '{"success":true,"data":{"message":"scored"}}'
`)

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), h, pointRequest("home"))
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !response.Success {
		t.Errorf("expected success=true, got false")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "scored" {
		t.Errorf("expected message 'scored', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	h := scriptHook(t, "echo-hook", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	req := pointRequest("away")
	req.Config = json.RawMessage(`{"volume":3}`)

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), h, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Received.Event != EventPoint || data.Received.Team != "away" || data.Received.Mode != "ball" {
		t.Errorf("hook received %+v", data.Received)
	}
	if string(data.Received.Config) != `{"volume":3}` {
		t.Errorf("hook received config %s", data.Received.Config)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	h := scriptHook(t, "slow-hook", `#!/bin/sh
exec sleep 10
`)

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), h, pointRequest("home"))

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestExecutor_ParentContextCancelled(t *testing.T) {
	h := scriptHook(t, "never-hook", `#!/bin/sh
echo '{"success":true}'
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExecutor(time.Second).Execute(ctx, h, pointRequest("home")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	h := scriptHook(t, "error-hook", `#!/bin/sh
echo '{"success":false,"error":"scoreboard offline"}'
`)

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), h, pointRequest("home"))
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success {
		t.Errorf("expected success=false, got true")
	}
	if response.Error != "scoreboard offline" {
		t.Errorf("expected error 'scoreboard offline', got %q", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	h := scriptHook(t, "bad-hook", `#!/bin/sh
echo 'not valid json'
`)

	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), h, pointRequest("home")); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	h := scriptHook(t, "exit-hook", `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`)

	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), h, pointRequest("home")); err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %s, want 3s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %s, want default %s", got, DefaultTimeout)
	}
}
