// File path: internal/generate/options.go
package generate

import (
	"github.com/belriyad/docgen/internal/mapping"
	"github.com/belriyad/docgen/internal/notify"
)

type options struct {
	aliases  mapping.AliasResolver
	notifier notify.Sender
	notifyTo string
}

// Option customises orchestrator construction.
type Option func(*options)

// WithAliasResolver substitutes the field-name alias table used by the
// mapping engine.
func WithAliasResolver(resolver mapping.AliasResolver) Option {
	return func(o *options) {
		o.aliases = resolver
	}
}

// WithNotifier enables a fire-and-forget batch summary email to the given
// recipient after each generation run.
func WithNotifier(sender notify.Sender, recipient string) Option {
	return func(o *options) {
		o.notifier = sender
		o.notifyTo = recipient
	}
}
