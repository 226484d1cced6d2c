package kubeconfig

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Selectors pin the context, cluster and/or user to resolve. Unset fields
// fall back to the values implied by the document's current-context.
type Selectors struct {
	Context string
	Cluster string
	User    string
}

// Loader holds the cluster/context/user triple resolved from a Config plus
// accessors for the trust and identity material they reference.
type Loader struct {
	ClusterName string
	Cluster     Cluster
	ContextName string
	Context     Context
	UserName    string
	User        AuthInfo

	fs afero.Fs
}

// NewLoader resolves the effective cluster, context and user from raw using
// the given selectors. Each selector falls back to the name embedded in the
// current-context record; if neither yields a name the load fails. File
// paths referenced by the resolved records are later read through fs.
func NewLoader(fs afero.Fs, raw *Config, sel Selectors) (*Loader, error) {
	contextName := sel.Context
	if contextName == "" {
		contextName = raw.CurrentContext
	}
	if contextName == "" {
		return nil, newError(SelectionMissing, "no context chosen: pass a context name or set current-context")
	}
	named, ok := lo.Find(raw.Contexts, func(c NamedContext) bool {
		return c.Name == contextName
	})
	if !ok {
		return nil, newError(NotFound, "context %q not found in kubeconfig", contextName)
	}
	context := named.Context

	clusterName := sel.Cluster
	if clusterName == "" {
		clusterName = context.Cluster
	}
	if clusterName == "" {
		return nil, newError(SelectionMissing, "no cluster chosen: pass a cluster name or set one on context %q", contextName)
	}
	namedCluster, ok := lo.Find(raw.Clusters, func(c NamedCluster) bool {
		return c.Name == clusterName
	})
	if !ok {
		return nil, newError(NotFound, "cluster %q not found in kubeconfig", clusterName)
	}

	userName := sel.User
	if userName == "" {
		userName = context.AuthInfo
	}
	if userName == "" {
		return nil, newError(SelectionMissing, "no user chosen: pass a user name or set one on context %q", contextName)
	}
	namedUser, ok := lo.Find(raw.AuthInfos, func(u NamedAuthInfo) bool {
		return u.Name == userName
	})
	if !ok {
		return nil, newError(NotFound, "user %q not found in kubeconfig", userName)
	}

	return &Loader{
		ClusterName: clusterName,
		Cluster:     namedCluster.Cluster,
		ContextName: contextName,
		Context:     context,
		UserName:    userName,
		User:        namedUser.AuthInfo,
		fs:          fs,
	}, nil
}

// CABundle returns the cluster's CA material as parsed certificates, sourced
// from inline base64 data if present, else from the referenced file. It
// returns nil with no error when the cluster configures neither.
func (l *Loader) CABundle() ([]*x509.Certificate, error) {
	pemBytes, err := dataOrFile(l.fs, l.Cluster.CertificateAuthorityData, l.Cluster.CertificateAuthority)
	if err != nil {
		return nil, err
	}
	if pemBytes == nil {
		return nil, nil
	}
	certs, err := parseCertificates(pemBytes)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, newError(DecodeError, "certificate authority for cluster %q contains no certificates", l.ClusterName)
	}
	return certs, nil
}

// Identity builds the client certificate/key pair configured on the user,
// from inline data or the referenced files.
func (l *Loader) Identity() (*tls.Certificate, error) {
	certPEM, err := dataOrFile(l.fs, l.User.ClientCertificateData, l.User.ClientCertificate)
	if err != nil {
		return nil, err
	}
	keyPEM, err := dataOrFile(l.fs, l.User.ClientKeyData, l.User.ClientKey)
	if err != nil {
		return nil, err
	}
	switch {
	case certPEM == nil && keyPEM == nil:
		return nil, newError(IdentityUnavailable, "user %q has no client certificate and key configured", l.UserName)
	case keyPEM == nil:
		return nil, newError(IdentityUnavailable, "user %q has a client certificate but no key configured", l.UserName)
	case certPEM == nil:
		return nil, newError(IdentityUnavailable, "user %q has a client key but no certificate configured", l.UserName)
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, newErrorCause(DecodeError, err, "failed to load client certificate for user %q", l.UserName)
	}
	return &cert, nil
}

// dataOrFile prefers inline base64 data over a file path. Returns nil when
// neither source is configured.
func dataOrFile(fs afero.Fs, data string, file string) ([]byte, error) {
	if data != "" {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, newErrorCause(DecodeError, err, "failed to base64-decode inline data")
		}
		return decoded, nil
	}
	if file != "" {
		contents, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, newErrorCause(ConfigMissing, err, "failed to read %q", file)
		}
		return contents, nil
	}
	return nil, nil
}

// valueOrFileContents prefers an inline plaintext value over a file path.
func valueOrFileContents(fs afero.Fs, value string, file string) (string, error) {
	if value != "" {
		return value, nil
	}
	if file != "" {
		contents, err := afero.ReadFile(fs, file)
		if err != nil {
			return "", newErrorCause(ConfigMissing, err, "failed to read %q", file)
		}
		return string(contents), nil
	}
	return "", nil
}

func parseCertificates(pemBytes []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	sawPEM := false
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		sawPEM = true
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, newErrorCause(DecodeError, err, "failed to parse certificate")
		}
		certs = append(certs, cert)
	}
	if !sawPEM {
		// Not PEM at all: try a single DER certificate.
		cert, err := x509.ParseCertificate(pemBytes)
		if err != nil {
			return nil, newErrorCause(DecodeError, err, "certificate data is neither PEM nor DER")
		}
		certs = append(certs, cert)
	}
	return certs, nil
}
