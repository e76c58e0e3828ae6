package di

import (
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

type options struct {
	log        logr.Logger
	registerer prometheus.Registerer
}

func defaultOptions() options {
	return options{log: logr.Discard()}
}

// Option configures a container during New.
type Option func(*options)

// WithLogger sets the logger used while the container is built. Phases are
// logged at V(1) and every constructed component at V(2). The default
// discards everything.
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMetrics registers the container build metrics with reg. Containers
// sharing a registerer share the collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
