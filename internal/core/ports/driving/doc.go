// Package driving provides interfaces for primary/inbound ports.
// Adapters under internal/adapters/driving (the CLI) call these.
package driving
