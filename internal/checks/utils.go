package checks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// splitArgs splits a shell-like argument string on whitespace. Quoting is not
// supported.
func splitArgs(args string) []string {
	return strings.Fields(args)
}

// joinLines normalizes line endings and joins the lines of output with "\n".
func joinLines(output []byte) string {
	lines := splitLines(string(output))
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return strings.Join(lines, "\n")
}

// splitLines splits output on "\n" without a trailing empty line. Lines of
// any length are kept whole.
func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(output, "\n"), "\n")
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// commandError describes why command failed, for logging.
func commandError(ctx context.Context, command string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(ctxErr, "%s did not finish", command)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return errors.Wrapf(ErrCommandNotFound, "%s", command)
	case errors.As(err, &exitErr):
		return errors.Wrapf(err, "%s exited with code %d", command, exitErr.ExitCode())
	}

	return errors.Wrapf(err, "running %s", command)
}

func formatMilliseconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.3f", float64(d.Microseconds())/1000.0)
}
