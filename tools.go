//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// The goose CLI is pinned through the go.mod tool directive and is used for
// manual migrations against migrations/:
//
//	go tool goose -dir migrations postgres "$DATABASE_DSN" status
