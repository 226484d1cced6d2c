package kubeconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ExecCredential is the document a credential plugin writes to stdout.
type ExecCredential struct {
	APIVersion string                `json:"apiVersion,omitempty"`
	Kind       string                `json:"kind,omitempty"`
	Status     *ExecCredentialStatus `json:"status,omitempty"`
}

// ExecCredentialStatus carries the credentials produced by the plugin.
// ExpirationTimestamp is surfaced as-is; this package never refreshes an
// expired credential on its own, callers re-resolve instead.
type ExecCredentialStatus struct {
	ExpirationTimestamp   *time.Time `json:"expirationTimestamp,omitempty"`
	Token                 string     `json:"token,omitempty"`
	ClientCertificateData string     `json:"clientCertificateData,omitempty"`
	ClientKeyData         string     `json:"clientKeyData,omitempty"`
}

// invokeExecPlugin runs the configured credential plugin and parses its
// stdout. The plugin's environment is the inherited environment with the
// configured variables merged on top. A failure is never retried; the exit
// code and stderr are surfaced verbatim for diagnosability.
func invokeExecPlugin(ctx context.Context, ec *ExecConfig) (*ExecCredentialStatus, error) {
	if ec.Command == "" {
		return nil, newError(ExecProtocolError, "exec plugin has no command configured")
	}

	cmd := exec.CommandContext(ctx, ec.Command, ec.Args...)
	env := os.Environ()
	for _, v := range ec.Env {
		env = append(env, fmt.Sprintf("%s=%s", v.Name, v.Value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// ProcessState is nil when the command never started.
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return nil, newErrorCause(ExecProtocolError, err,
			"exec plugin %q failed (exit code %d), stderr: %s",
			ec.Command, exitCode, stderr.String())
	}

	cred := &ExecCredential{}
	if err := json.Unmarshal(stdout.Bytes(), cred); err != nil {
		return nil, newErrorCause(ExecProtocolError, err,
			"failed to parse exec plugin %q output", ec.Command)
	}
	if cred.Status == nil {
		return nil, newError(ExecProtocolError,
			"exec plugin %q response did not contain a status", ec.Command)
	}
	return cred.Status, nil
}
