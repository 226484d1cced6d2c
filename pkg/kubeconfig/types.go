package kubeconfig

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is the typed form of a kubeconfig document: named lists of
// clusters, contexts and users plus a current-context selector. It is never
// mutated after loading.
type Config struct {
	APIVersion     string           `yaml:"apiVersion,omitempty"`
	Kind           string           `yaml:"kind,omitempty"`
	Clusters       []NamedCluster   `yaml:"clusters"`
	Contexts       []NamedContext   `yaml:"contexts"`
	AuthInfos      []NamedAuthInfo  `yaml:"users"`
	CurrentContext string           `yaml:"current-context,omitempty"`
	Preferences    Preferences      `yaml:"preferences,omitempty"`
	Extensions     []NamedExtension `yaml:"extensions,omitempty"`
}

type Preferences struct {
	Colors     bool             `yaml:"colors,omitempty"`
	Extensions []NamedExtension `yaml:"extensions,omitempty"`
}

type NamedExtension struct {
	Name      string `yaml:"name"`
	Extension any    `yaml:"extension,omitempty"`
}

type NamedCluster struct {
	Name    string  `yaml:"name"`
	Cluster Cluster `yaml:"cluster"`
}

// Cluster is a named server endpoint plus its trust material.
type Cluster struct {
	Server                   string `yaml:"server"`
	CertificateAuthority     string `yaml:"certificate-authority,omitempty"`
	CertificateAuthorityData string `yaml:"certificate-authority-data,omitempty"`
	InsecureSkipTLSVerify    bool   `yaml:"insecure-skip-tls-verify,omitempty"`
}

type NamedContext struct {
	Name    string  `yaml:"name"`
	Context Context `yaml:"context"`
}

// Context pairs a cluster with a user, selecting who talks to where.
type Context struct {
	Cluster   string `yaml:"cluster"`
	AuthInfo  string `yaml:"user"`
	Namespace string `yaml:"namespace,omitempty"`
}

type NamedAuthInfo struct {
	Name     string   `yaml:"name"`
	AuthInfo AuthInfo `yaml:"user"`
}

// AuthInfo is a named bundle of credential sources. Any subset of the
// fields may be populated; the assembler picks between them by a fixed
// precedence order.
type AuthInfo struct {
	Token                 string      `yaml:"token,omitempty"`
	TokenFile             string      `yaml:"tokenFile,omitempty"`
	Username              string      `yaml:"username,omitempty"`
	Password              string      `yaml:"password,omitempty"`
	ClientCertificate     string      `yaml:"client-certificate,omitempty"`
	ClientCertificateData string      `yaml:"client-certificate-data,omitempty"`
	ClientKey             string      `yaml:"client-key,omitempty"`
	ClientKeyData         string      `yaml:"client-key-data,omitempty"`
	Exec                  *ExecConfig `yaml:"exec,omitempty"`
}

// ExecConfig describes an external credential-plugin invocation.
type ExecConfig struct {
	Command    string       `yaml:"command"`
	Args       []string     `yaml:"args,omitempty"`
	Env        []ExecEnvVar `yaml:"env,omitempty"`
	APIVersion string       `yaml:"apiVersion,omitempty"`
}

// ExecEnvVar is merged on top of the inherited environment when the
// credential plugin runs.
type ExecEnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Load parses kubeconfig contents into a Config.
func Load(contents []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, newErrorCause(DecodeError, err, "failed to parse kubeconfig")
	}
	return cfg, nil
}

// LoadFile reads and parses the kubeconfig at path.
func LoadFile(fs afero.Fs, path string) (*Config, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, newErrorCause(ConfigMissing, err, "failed to read kubeconfig %q", path)
	}
	return Load(contents)
}

// DefaultPath returns the kubeconfig path to use when none is given
// explicitly: $KUBECONFIG if set, else ~/.kube/config.
func DefaultPath() (string, error) {
	if path := os.Getenv("KUBECONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate home directory")
	}
	return filepath.Join(home, ".kube", "config"), nil
}
