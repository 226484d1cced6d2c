//go:build !darwin

package kubeconfig

func defaultTrustPolicy() TrustPolicy {
	return permissiveTrustPolicy{}
}
