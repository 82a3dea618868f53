package dokploy

import (
	"io"
	"os"

	"github.com/etdofresh/dokploy-probe/pkg/httpclient"
)

// Option customizes a Dispatcher or Client.
type Option func(*options)

type options struct {
	httpClient httpclient.Client
	out        io.Writer
	log        Logger
	observer   Observer
	catalog    *Catalog
}

// WithHTTPClient replaces the default resty-backed transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithOutput sets where console diagnostics are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver registers a hook invoked after every dispatch.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithCatalog overrides the embedded resource catalog.
func WithCatalog(c *Catalog) Option {
	return func(o *options) { o.catalog = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	o.log = ensureLogger(o.log)
	return o
}
