//go:build darwin

package kubeconfig

import "time"

const appleMaxCertValidity = 824 * 24 * time.Hour

func defaultTrustPolicy() TrustPolicy {
	return certLifetimePolicy{maxValidity: appleMaxCertValidity}
}
