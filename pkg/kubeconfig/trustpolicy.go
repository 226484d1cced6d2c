package kubeconfig

import (
	"crypto/x509"
	"time"
)

// TrustPolicy decides, per root certificate, whether the platform's TLS
// backend needs the accept-invalid-certs workaround to trust it. The default
// policy is selected by build target (see trustpolicy_darwin.go); tests and
// callers may substitute their own via Options.TrustPolicy.
type TrustPolicy interface {
	RequiresInsecureWorkaround(ca *x509.Certificate) bool
}

// certLifetimePolicy flags roots whose validity window exceeds maxValidity.
// Apple's TLS stack refuses certificates valid for more than 824 days, which
// many long-lived cluster CAs are; flagging them lets the client fall back
// to skipping verification instead of failing outright.
type certLifetimePolicy struct {
	maxValidity time.Duration
}

func (p certLifetimePolicy) RequiresInsecureWorkaround(ca *x509.Certificate) bool {
	return ca.NotAfter.Sub(ca.NotBefore) > p.maxValidity
}

// permissiveTrustPolicy never requires the workaround.
type permissiveTrustPolicy struct{}

func (permissiveTrustPolicy) RequiresInsecureWorkaround(*x509.Certificate) bool {
	return false
}
