package kubeconfig

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultTimeout is generous on purpose: watch-style requests against the
// API server legitimately stay open for minutes.
const DefaultTimeout = 295 * time.Second

// ClientConfig is the final resolved configuration, ready to hand to an
// HTTP client builder. It is immutable after construction and owned by the
// caller that requested it; this package never performs network requests
// with it.
type ClientConfig struct {
	// ClusterURL is the API server base URL.
	ClusterURL *url.URL

	// Namespace is the default namespace for requests: the pod's namespace
	// in-cluster, the context's namespace from a kubeconfig, else "default".
	Namespace string

	// RootCAs holds the trust material for verifying the server, when the
	// source configured any.
	RootCAs []*x509.Certificate

	// Identity is the client certificate/key pair, when one is configured.
	Identity *tls.Certificate

	// Headers carries at most one Authorization entry.
	Headers http.Header

	// Timeout is the suggested per-request timeout.
	Timeout time.Duration

	// AcceptInvalidCerts is set when the cluster asks to skip verification,
	// or as the platform trust-policy workaround for long-lived roots.
	AcceptInvalidCerts bool
}

// assemble combines the resolved cluster and user records into a
// ClientConfig: picks trust material, builds the Authorization header via a
// fixed precedence order, and applies the platform trust policy. It either
// fully succeeds or returns an error; no partial config is ever produced.
func assemble(ctx context.Context, fs afero.Fs, l *Loader, policy TrustPolicy, timeout time.Duration) (*ClientConfig, error) {
	if l.Cluster.Server == "" {
		return nil, newError(SelectionMissing, "cluster %q has no server URL", l.ClusterName)
	}
	clusterURL, err := url.Parse(l.Cluster.Server)
	if err != nil {
		return nil, newErrorCause(DecodeError, err, "malformed server URL for cluster %q", l.ClusterName)
	}

	// The exec plugin runs at most once, and only if a lower-precedence
	// source doesn't need it.
	var execStatus *ExecCredentialStatus
	execOnce := func() (*ExecCredentialStatus, error) {
		if execStatus != nil || l.User.Exec == nil {
			return execStatus, nil
		}
		status, err := invokeExecPlugin(ctx, l.User.Exec)
		if err != nil {
			return nil, err
		}
		execStatus = status
		return execStatus, nil
	}

	// Authorization precedence, first match wins: static or file token,
	// exec-derived token, basic auth, nothing. Each attempt returns the
	// full header value or "".
	attempts := []func() (string, error){
		func() (string, error) {
			token, err := valueOrFileContents(fs, l.User.Token, l.User.TokenFile)
			if err != nil || token == "" {
				return "", err
			}
			return "Bearer " + strings.TrimSpace(token), nil
		},
		func() (string, error) {
			status, err := execOnce()
			if err != nil {
				return "", err
			}
			if status == nil || status.Token == "" {
				return "", nil
			}
			return "Bearer " + status.Token, nil
		},
		func() (string, error) {
			if l.User.Username == "" || l.User.Password == "" {
				return "", nil
			}
			basic := base64.StdEncoding.EncodeToString(
				[]byte(fmt.Sprintf("%s:%s", l.User.Username, l.User.Password)),
			)
			return "Basic " + basic, nil
		},
	}

	headers := http.Header{}
	for _, attempt := range attempts {
		value, err := attempt()
		if err != nil {
			return nil, err
		}
		if value != "" {
			headers.Set("Authorization", value)
			break
		}
	}

	acceptInvalidCerts := false

	rootCAs, err := l.CABundle()
	if err != nil {
		return nil, err
	}
	for _, ca := range rootCAs {
		if policy.RequiresInsecureWorkaround(ca) {
			acceptInvalidCerts = true
		}
	}

	identity, err := l.Identity()
	if err != nil {
		identity = nil
		// Only the cached status from the token attempt is consulted here:
		// when a static or file token already won, the plugin never runs.
		if status := execStatus; status != nil &&
			status.ClientCertificateData != "" && status.ClientKeyData != "" {
			cert, pairErr := tls.X509KeyPair(
				[]byte(status.ClientCertificateData), []byte(status.ClientKeyData),
			)
			if pairErr != nil {
				return nil, newErrorCause(DecodeError, pairErr,
					"failed to load client certificate from exec plugin %q", l.User.Exec.Command)
			}
			identity = &cert
		} else {
			logrus.Debugf("no client identity for user %q: %v", l.UserName, err)
			// Last resort, only when the cluster explicitly asks for it.
			if l.Cluster.InsecureSkipTLSVerify {
				acceptInvalidCerts = true
			}
		}
	}

	namespace := l.Context.Namespace
	if namespace == "" {
		namespace = "default"
	}

	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &ClientConfig{
		ClusterURL:         clusterURL,
		Namespace:          namespace,
		RootCAs:            rootCAs,
		Identity:           identity,
		Headers:            headers,
		Timeout:            timeout,
		AcceptInvalidCerts: acceptInvalidCerts,
	}, nil
}
