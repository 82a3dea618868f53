package publishers

import (
	"context"
	"fmt"
)

// Builder creates the sink declared by cfg.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps sink types to builders.
type Registry map[string]Builder

// DefaultRegistry knows every sink type the publishers file accepts.
func DefaultRegistry() Registry {
	return Registry{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	}
}

// Build creates the sink for cfg.
func (r Registry) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	build, ok := r[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("no publisher for type %q", cfg.Type)
	}
	return build(ctx, cfg, ensureLogger(log))
}

// BuildAll creates a sink per config. On failure the sinks built so far are closed.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.Build(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
