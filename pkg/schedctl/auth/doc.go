// Package auth acquires and persists per-cluster API tokens. Tokens
// come from the cluster's OIDC identity provider (device-code or
// client-credentials grant) or are supplied directly; storage prefers
// the OS keychain with a file-based cache as fallback.
package auth
