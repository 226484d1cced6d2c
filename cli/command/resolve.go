package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.windlass.io/windlass/pkg/kubeconfig"
)

const kubeconfigEnvVar = "KUBECONFIG"

func resolveCmd() *cobra.Command {
	opts := kubeconfig.Options{}
	inClusterOnly := false

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and print the effective client configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.Path == "" {
				opts.Path = viper.GetString("kubeconfig")
			}

			var cc *kubeconfig.ClientConfig
			var err error
			if inClusterOnly {
				cc, err = kubeconfig.ResolveInCluster(opts)
			} else {
				cc, err = kubeconfig.Resolve(ctx, opts)
			}
			if err != nil {
				return err
			}
			printClientConfig(cc)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Path, "kubeconfig", "", "path to the kubeconfig file to use")
	cmd.Flags().StringVar(&opts.Context, "context", "", "the name of the kubeconfig context to use")
	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "the name of the kubeconfig cluster to use")
	cmd.Flags().StringVar(&opts.User, "user", "", "the name of the kubeconfig user to use")
	cmd.Flags().BoolVar(&inClusterOnly, "in-cluster", false, "resolve from the in-cluster environment only, without a kubeconfig fallback")

	_ = viper.BindEnv("kubeconfig", kubeconfigEnvVar)

	return cmd
}

func printClientConfig(cc *kubeconfig.ClientConfig) {
	bold := color.New(color.Bold)

	bold.Print("server:    ")
	fmt.Println(cc.ClusterURL)
	bold.Print("namespace: ")
	fmt.Println(cc.Namespace)
	bold.Print("auth:      ")
	fmt.Println(authSummary(cc))
	bold.Print("identity:  ")
	if cc.Identity != nil {
		fmt.Println("client certificate")
	} else {
		fmt.Println("none")
	}
	bold.Print("roots:     ")
	if len(cc.RootCAs) > 0 {
		fmt.Printf("%d certificate(s)\n", len(cc.RootCAs))
	} else {
		fmt.Println("system defaults")
	}
	if cc.AcceptInvalidCerts {
		color.Yellow("warning: server certificate verification is disabled")
	}
}

// authSummary names the credential source without leaking it.
func authSummary(cc *kubeconfig.ClientConfig) string {
	value := cc.Headers.Get("Authorization")
	switch {
	case value == "":
		return "none"
	case strings.HasPrefix(value, "Bearer "):
		return "bearer token (redacted)"
	case strings.HasPrefix(value, "Basic "):
		return "basic auth (redacted)"
	default:
		return "custom (redacted)"
	}
}
