// Package observability provides lifecycle hooks that export prometheus
// metrics and structured logs for controller runs.
package observability
