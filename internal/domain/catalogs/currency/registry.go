package currency

import (
	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
)

// Registry is a read-only lookup over a snapshot of active currencies.
// It is an explicit value passed into every conversion call, so the engine
// never depends on hidden global configuration and is trivially testable
// with synthetic currency sets.
type Registry struct {
	byID map[id.ID]*Currency
	base *Currency
}

// NewRegistry builds a Registry from the given currencies.
// Fails with a configuration error unless exactly one currency is flagged
// as base and every id appears once; the engine does not guess which of
// two rows with the same id to trust.
func NewRegistry(currencies []*Currency) (*Registry, error) {
	r := &Registry{byID: make(map[id.ID]*Currency, len(currencies))}

	for _, c := range currencies {
		if _, dup := r.byID[c.ID]; dup {
			return nil, apperror.NewConfiguration("duplicate currency id in registry").
				WithDetail("id", c.ID.String()).
				WithDetail("iso_code", c.ISOCode)
		}
		r.byID[c.ID] = c
		if c.IsBase {
			if r.base != nil {
				return nil, apperror.NewConfiguration("multiple base currencies configured").
					WithDetail("first", r.base.ISOCode).
					WithDetail("second", c.ISOCode)
			}
			r.base = c
		}
	}

	if r.base == nil {
		return nil, apperror.NewConfiguration("no base currency configured")
	}

	return r, nil
}

// Base returns the base currency.
func (r *Registry) Base() *Currency {
	return r.base
}

// Resolve returns the currency with the given id.
func (r *Registry) Resolve(currencyID id.ID) (*Currency, error) {
	c, ok := r.byID[currencyID]
	if !ok {
		return nil, apperror.NewNotFound("currency", currencyID.String())
	}
	return c, nil
}

// All returns the registered currencies in unspecified order.
func (r *Registry) All() []*Currency {
	out := make([]*Currency, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out
}
