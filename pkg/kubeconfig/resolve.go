package kubeconfig

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options configures a resolution. The zero value resolves the default
// kubeconfig ($KUBECONFIG, else ~/.kube/config) using its current-context.
type Options struct {
	// Path to a kubeconfig file. Empty means DefaultPath().
	Path string

	// Context, Cluster and User pin the records to resolve. Unset selectors
	// fall back to the current-context's implied values.
	Context string
	Cluster string
	User    string

	// Timeout overrides the default request timeout.
	Timeout time.Duration

	// TrustPolicy overrides the platform default trust policy.
	TrustPolicy TrustPolicy

	// Fs overrides the filesystem used for all file reads. Defaults to the
	// OS filesystem; tests substitute an in-memory one.
	Fs afero.Fs
}

func (o Options) fs() afero.Fs {
	if o.Fs != nil {
		return o.Fs
	}
	return afero.NewOsFs()
}

func (o Options) trustPolicy() TrustPolicy {
	if o.TrustPolicy != nil {
		return o.TrustPolicy
	}
	return defaultTrustPolicy()
}

func (o Options) selectors() Selectors {
	return Selectors{Context: o.Context, Cluster: o.Cluster, User: o.User}
}

// Resolve infers the configuration source: it first attempts the in-cluster
// service-account environment and, on any failure there, falls back to the
// kubeconfig file. This two-stage fallback is the only one built in; every
// other failure propagates to the caller.
func Resolve(ctx context.Context, opts Options) (*ClientConfig, error) {
	cc, err := ResolveInCluster(opts)
	if err != nil {
		logrus.Debugf("no in-cluster config found: %v", err)
		logrus.Debug("falling back to local kubeconfig")
		return ResolveFile(ctx, opts)
	}
	return cc, nil
}

// ResolveInCluster resolves from the in-cluster service-account environment
// alone. It fails when called outside a cluster.
func ResolveInCluster(opts Options) (*ClientConfig, error) {
	cc, err := resolveInCluster(opts.fs())
	if err != nil {
		return nil, err
	}
	if opts.Timeout != 0 {
		cc.Timeout = opts.Timeout
	}
	return cc, nil
}

// ResolveFile resolves from a kubeconfig file.
func ResolveFile(ctx context.Context, opts Options) (*ClientConfig, error) {
	path := opts.Path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	raw, err := LoadFile(opts.fs(), path)
	if err != nil {
		return nil, err
	}
	return ResolveConfig(ctx, raw, opts)
}

// ResolveConfig resolves from an already-parsed kubeconfig document.
func ResolveConfig(ctx context.Context, raw *Config, opts Options) (*ClientConfig, error) {
	loader, err := NewLoader(opts.fs(), raw, opts.selectors())
	if err != nil {
		return nil, err
	}
	return assemble(ctx, opts.fs(), loader, opts.trustPolicy(), opts.Timeout)
}
