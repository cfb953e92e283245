// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ampel360/utcs/internal/config"
	"github.com/ampel360/utcs/internal/issue"
)

const (
	validCode   = "090101-BWBQ100-QNS-[1-10,17,54]"
	warningCode = "090101-BWBQ100-QNS-[0-5]"
	invalidCode = "999999-BWBQ100-QNS-[ALL]"

	smallTOML = "../../pkg/registry/testdata/small.toml"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree with args and captured output.
func runCLI(t *testing.T, deps Dependencies, stdin string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout, deps.Stderr = &stdout, &stderr
	if deps.Config == nil {
		deps.Config = config.StaticProvider{}
	}
	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	err = root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// wantExitCode fails unless err is an ExitError with code.
func wantExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != code {
		t.Errorf("exit code = %d, want %d", exitErr.Code, code)
	}
}

// wantIssue fails unless err is an ActionableError linked to id.
func wantIssue(t *testing.T, err error, id issue.Id) {
	t.Helper()

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %v", err)
	}
	if ae.Issue != id {
		t.Errorf("issue = %d, want %d", ae.Issue, id)
	}
}
