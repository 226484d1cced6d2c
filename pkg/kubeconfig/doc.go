// Package kubeconfig resolves a usable API client configuration from either
// the in-cluster service-account environment or a local kubeconfig file.
//
// The common entry point infers the source, preferring in-cluster when the
// well-known environment variables and service-account mount are present:
//
//	```
//	cc, err := kubeconfig.Resolve(ctx, kubeconfig.Options{})
//	```
//
// To resolve from a specific kubeconfig file, optionally pinning the
// context, cluster or user:
//
//	```
//	opts := kubeconfig.Options{
//	  Path:    "path/to/kubeconfig",
//	  Context: "my-staging-cluster",
//	}
//	cc, err := kubeconfig.ResolveFile(ctx, opts)
//	```
//
// The resolved ClientConfig carries the cluster URL, trust material, client
// identity and a ready-made header map (at most one Authorization entry).
// It performs no network requests itself; hand it to whatever HTTP client
// builder talks to the API server.
//
// Every call re-reads environment variables, mounted files and token files,
// so rotated credentials are picked up by simply resolving again. Nothing is
// cached, including exec-plugin tokens: when an exec-derived credential
// expires the caller is expected to re-resolve.
package kubeconfig
