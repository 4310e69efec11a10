// Package sentryreporter is the one concrete errs.Reporter the repository
// ships, backed by github.com/getsentry/sentry-go. It is kept in its own
// package so that internal/errs — and every package that imports it for
// the Error/Handler types — never pulls in the Sentry SDK unless the host
// binary explicitly wires this adapter in (cmd/vnengine does, behind a
// --crash-report-dsn flag; tests never do).
package sentryreporter

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter forwards fatal engine errors to Sentry.
type Reporter struct {
	flushTimeout time.Duration
}

// New initializes the Sentry SDK with dsn and returns a Reporter. If dsn
// is empty, sentry.Init is still called (as a disabled client) so callers
// don't need to special-case "no DSN configured".
func New(dsn, release, environment string) (*Reporter, error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Release:     release,
		Environment: environment,
	}); err != nil {
		return nil, err
	}
	return &Reporter{flushTimeout: 2 * time.Second}, nil
}

// Report sends err to Sentry with context as extra tags — the headless
// equivalent of showing a platform message box when a UI is available.
func (r *Reporter) Report(err error, context map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range context {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush blocks until pending events are sent or the timeout elapses; call
// this right before process exit.
func (r *Reporter) Flush() bool {
	return sentry.Flush(r.flushTimeout)
}
