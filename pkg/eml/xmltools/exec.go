// Package xmltools runs the libxml2 command-line tools as EML collaborators:
// xmllint for schema validation and xsltproc for reference dereferencing.
package xmltools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// resolveBinary finds a tool on PATH. A missing tool is a configuration error.
func resolveBinary(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", eml.ErrConfiguration, path, err)
	}
	return resolved, nil
}

// run executes bin with stdin and returns stdout.
// A non-zero exit returns the trimmed stderr as the error message.
func run(ctx context.Context, logger *slog.Logger, bin string, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running xml tool", "bin", bin, "args", args)
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = exitErr.Error()
		}
		return "", errors.New(msg)
	}
	return "", fmt.Errorf("%w: %s: %v", eml.ErrConfiguration, bin, err)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
