package kubeconfig

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/afero"
)

const (
	serviceHostEnvVar = "KUBERNETES_SERVICE_HOST"
	servicePortEnvVar = "KUBERNETES_SERVICE_PORT"

	serviceAccountDir       = "/var/run/secrets/kubernetes.io/serviceaccount"
	serviceAccountTokenFile = serviceAccountDir + "/token"
	serviceAccountCAFile    = serviceAccountDir + "/ca.crt"
	serviceAccountNSFile    = serviceAccountDir + "/namespace"
)

// InClusterPossible determines whether the service-account environment looks
// usable, without performing a full resolution.
func InClusterPossible() bool {
	fi, err := os.Stat(serviceAccountTokenFile)
	return os.Getenv(serviceHostEnvVar) != "" &&
		os.Getenv(servicePortEnvVar) != "" &&
		err == nil && !fi.IsDir()
}

// resolveInCluster reads the service-account environment and mounted files
// into a ClientConfig. Nothing is cached: every call re-reads the
// environment and files, so a rotated token is picked up on the next
// resolution.
func resolveInCluster(fs afero.Fs) (*ClientConfig, error) {
	host := os.Getenv(serviceHostEnvVar)
	port := os.Getenv(servicePortEnvVar)
	if host == "" || port == "" {
		return nil, newError(ConfigMissing,
			"unable to load in-cluster config: %s and %s must be defined",
			serviceHostEnvVar, servicePortEnvVar)
	}

	clusterURL, err := url.Parse(fmt.Sprintf("https://%s:%s", host, port))
	if err != nil {
		return nil, newErrorCause(DecodeError, err, "malformed in-cluster server URL")
	}

	caPEM, err := afero.ReadFile(fs, serviceAccountCAFile)
	if err != nil {
		return nil, newErrorCause(ConfigMissing, err, "failed to read service-account CA certificate %q", serviceAccountCAFile)
	}
	rootCAs, err := parseCertificates(caPEM)
	if err != nil {
		return nil, err
	}

	token, err := afero.ReadFile(fs, serviceAccountTokenFile)
	if err != nil {
		return nil, newErrorCause(ConfigMissing, err, "failed to read service-account token %q", serviceAccountTokenFile)
	}

	namespace, err := afero.ReadFile(fs, serviceAccountNSFile)
	if err != nil {
		return nil, newErrorCause(ConfigMissing, err, "failed to read service-account namespace %q", serviceAccountNSFile)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+strings.TrimSpace(string(token)))

	return &ClientConfig{
		ClusterURL: clusterURL,
		Namespace:  strings.TrimSpace(string(namespace)),
		RootCAs:    rootCAs,
		Headers:    headers,
		Timeout:    DefaultTimeout,
	}, nil
}
