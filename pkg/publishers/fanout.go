package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers each dispatch event to every sink. A failing sink does not
// stop delivery to the others.
type Fanout struct {
	sinks []Publisher
}

// NewFanout drops nil entries from pubs.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.sinks = append(f.sinks, p)
		}
	}
	return f
}

// Publish returns how many sinks accepted evt, with the joined failures.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	return f.each(func(p Publisher) error { return p.Publish(ctx, evt) })
}

// Close releases every sink.
func (f *Fanout) Close() error {
	_, err := f.each(Publisher.Close)
	return err
}

// Size is the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

func (f *Fanout) each(fn func(Publisher) error) (int, error) {
	if f == nil {
		return 0, nil
	}
	ok := 0
	var errs []error
	for _, p := range f.sinks {
		if err := fn(p); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", p.Type(), p.ID(), err))
			continue
		}
		ok++
	}
	return ok, errors.Join(errs...)
}
