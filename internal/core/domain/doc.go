// Package domain contains the core types of the docqa pipeline:
// normalized document elements, retrieval chunks, query-time candidates,
// parsed answers, and policy decisions. Types here carry no behaviour
// beyond small pure helpers and have no infrastructure dependencies.
package domain
