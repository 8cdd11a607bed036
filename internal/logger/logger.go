// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger configures the logrus logger used for diagnostics.
// Diagnostics go to stderr so they never mix with search output on stdout.
package logger

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

// QueryKey holds the Scopus expression of the current invocation.
const QueryKey ctxKey = "query"

// slowThreshold marks requests worth a warning.
const slowThreshold = 5 * time.Second

// Setup points the standard logrus logger at w. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func Setup(w io.Writer, verbose bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		DisableColors:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// For returns a log entry carrying the query stored in ctx, if any.
func For(ctx context.Context) *logrus.Entry {
	q, ok := ctx.Value(QueryKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("query", q)
}

// WithQuery returns a context whose log entries carry the expression q.
func WithQuery(ctx context.Context, q string) context.Context {
	return context.WithValue(ctx, QueryKey, q)
}

// Track logs the duration of an operation when the returned func is called.
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())
		if dur > slowThreshold {
			entry.Warnf("%s completed (slow)", msg)
		} else {
			entry.Debugf("%s completed", msg)
		}
	}
}
