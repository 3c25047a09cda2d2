package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultBashTimeout = 30 * time.Second
	emptyOutput        = "(empty)"
)

// BashTool runs a shell command with a hard wall-clock timeout. On timeout
// or cancellation the whole process group is killed.
type BashTool struct {
	Dir     string
	Timeout time.Duration
}

func (t *BashTool) Spec() Spec {
	return Spec{
		Name:        "bash",
		Description: "Run shell command",
		Params: []Param{
			{Name: "cmd", Type: TypeString, Description: "Command line passed to /bin/sh -c."},
		},
	}
}

func (t *BashTool) Execute(ctx context.Context, args Args) (string, error) {
	command, err := args.RequireString("cmd")
	if err != nil {
		return "", err
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultBashTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(runCtx, command)
	cmd.Dir = t.Dir
	// Orphaned grandchildren may hold the pipes open after the kill.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return "", fmt.Errorf("command timed out after %s", timeout)
	case ctx.Err() != nil:
		return "", ctx.Err()
	}
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return "", runErr
	}

	// A non-zero exit is a normal result; the model reads the output.
	out := strings.TrimSpace(stdout.String() + stderr.String())
	if out == "" {
		return emptyOutput, nil
	}
	return out, nil
}
