package events

import (
	"context"
	"errors"
)

// Multi publishes every event to each publisher in order. One failing
// publisher does not stop the rest; their errors are joined.
type Multi []Publisher

// Publish delivers ev to every publisher.
func (m Multi) Publish(ctx context.Context, ev TaskEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
