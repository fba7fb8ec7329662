// Package cmd implements the schedctl command tree. Every command
// resolves its target cluster through the client factory, so an
// unknown cluster name fails before any request is made.
package cmd
