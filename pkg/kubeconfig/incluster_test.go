package kubeconfig

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceAccountFs(t *testing.T) afero.Fs {
	t.Helper()
	caPEM, _ := shortLivedCertPEM(t, "cluster-ca")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, serviceAccountCAFile, caPEM, 0o644))
	require.NoError(t, afero.WriteFile(fs, serviceAccountTokenFile, []byte("sa-token\n"), 0o600))
	require.NoError(t, afero.WriteFile(fs, serviceAccountNSFile, []byte("kube-system\n"), 0o644))
	return fs
}

func TestResolveInCluster(t *testing.T) {
	t.Setenv(serviceHostEnvVar, "10.96.0.1")
	t.Setenv(servicePortEnvVar, "443")

	cc, err := resolveInCluster(serviceAccountFs(t))
	require.NoError(t, err)

	assert.Equal(t, "https://10.96.0.1:443", cc.ClusterURL.String())
	assert.Equal(t, "kube-system", cc.Namespace)
	assert.Equal(t, "Bearer sa-token", cc.Headers.Get("Authorization"))
	assert.Len(t, cc.RootCAs, 1)
	assert.Equal(t, DefaultTimeout, cc.Timeout)
	assert.False(t, cc.AcceptInvalidCerts)
}

func TestResolveInClusterMissingEnv(t *testing.T) {
	cases := []struct {
		name string
		host string
		port string
	}{
		{"both missing", "", ""},
		{"port missing", "10.96.0.1", ""},
		{"host missing", "", "443"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(serviceHostEnvVar, tc.host)
			t.Setenv(servicePortEnvVar, tc.port)

			_, err := resolveInCluster(serviceAccountFs(t))
			require.Error(t, err)
			assert.True(t, IsKind(err, ConfigMissing))
			// The message names both required variables regardless of which
			// one is absent.
			assert.Contains(t, err.Error(), serviceHostEnvVar)
			assert.Contains(t, err.Error(), servicePortEnvVar)
		})
	}
}

func TestResolveInClusterMissingFiles(t *testing.T) {
	t.Setenv(serviceHostEnvVar, "10.96.0.1")
	t.Setenv(servicePortEnvVar, "443")

	cases := []struct {
		name   string
		remove string
	}{
		{"token", serviceAccountTokenFile},
		{"ca", serviceAccountCAFile},
		{"namespace", serviceAccountNSFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := serviceAccountFs(t)
			require.NoError(t, fs.Remove(tc.remove))

			_, err := resolveInCluster(fs)
			require.Error(t, err)
			assert.True(t, IsKind(err, ConfigMissing))
			assert.Contains(t, err.Error(), tc.remove)
		})
	}
}

func TestInClusterPossible(t *testing.T) {
	// The test process does not run in a pod, so the service-account token
	// mount cannot exist.
	t.Setenv(serviceHostEnvVar, "10.96.0.1")
	t.Setenv(servicePortEnvVar, "443")
	assert.False(t, InClusterPossible())

	t.Setenv(serviceHostEnvVar, "")
	assert.False(t, InClusterPossible())
}
