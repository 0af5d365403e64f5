// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO; beyond the domain and the ports their
// only import is golang.org/x/time/rate for refresh plan pacing.
package services
