package connector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conn-castle/engagectl/internal/messages"
)

// execCommand is a seam for tests.
var execCommand = exec.CommandContext

// TokenSource obtains a session token for the given tenant by invoking the
// loaded connector. The connector owns credential storage and refresh; this
// tool only consumes the token it prints.
type TokenSource struct {
	Connector Connector
	Tenant    string
}

// Token runs the connector's token subcommand and returns the token it emits
// on stdout.
func (t TokenSource) Token(ctx context.Context) (string, error) {
	cmd := execCommand(ctx, t.Connector.Path, "token", "--tenant", t.Tenant)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", fmt.Errorf(messages.ConnectorTokenErrFmt, err)
	}
	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return "", errors.New(messages.ConnectorTokenEmptyErr)
	}
	return token, nil
}
