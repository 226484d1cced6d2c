package kubeconfig

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKubeconfigYAML = `apiVersion: v1
kind: Config
current-context: prod-ctx
clusters:
- name: prod
  cluster:
    server: https://10.0.0.1:6443
contexts:
- name: prod-ctx
  context:
    cluster: prod
    user: bob
    namespace: payments
users:
- name: bob
  user:
    token: abc123
`

func TestLoad(t *testing.T) {
	cfg, err := Load([]byte(testKubeconfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "prod-ctx", cfg.CurrentContext)
	require.Len(t, cfg.Clusters, 1)
	assert.Equal(t, "https://10.0.0.1:6443", cfg.Clusters[0].Cluster.Server)
	require.Len(t, cfg.AuthInfos, 1)
	assert.Equal(t, "abc123", cfg.AuthInfos[0].AuthInfo.Token)
	require.Len(t, cfg.Contexts, 1)
	assert.Equal(t, "payments", cfg.Contexts[0].Context.Namespace)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load([]byte("clusters: [unterminated"))
	require.Error(t, err)
	assert.True(t, IsKind(err, DecodeError))
}

func TestResolveFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/bob/.kube/config", []byte(testKubeconfigYAML), 0o600))

	cc, err := ResolveFile(context.Background(), Options{
		Path:        "/home/bob/.kube/config",
		Fs:          fs,
		TrustPolicy: permissiveTrustPolicy{},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://10.0.0.1:6443", cc.ClusterURL.String())
	assert.Equal(t, "Bearer abc123", cc.Headers.Get("Authorization"))
	assert.Equal(t, "payments", cc.Namespace)
}

func TestResolveFileMissing(t *testing.T) {
	_, err := ResolveFile(context.Background(), Options{
		Path: "/no/such/kubeconfig",
		Fs:   afero.NewMemMapFs(),
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, ConfigMissing))
}

func TestResolveFallsBackToFile(t *testing.T) {
	// With no in-cluster environment the top-level resolution must fall
	// through to the kubeconfig file.
	t.Setenv(serviceHostEnvVar, "")
	t.Setenv(servicePortEnvVar, "")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg", []byte(testKubeconfigYAML), 0o600))

	cc, err := Resolve(context.Background(), Options{
		Path:        "/cfg",
		Fs:          fs,
		TrustPolicy: permissiveTrustPolicy{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", cc.Headers.Get("Authorization"))
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("KUBECONFIG", "/custom/kubeconfig")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/kubeconfig", path)
}
