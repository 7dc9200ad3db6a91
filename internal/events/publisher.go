package events

import "errors"

// Publisher delivers ledger events to an outside audience.
type Publisher interface {
	Publish(event LedgerEvent) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(event LedgerEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(LedgerEvent) error { return nil }
