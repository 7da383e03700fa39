package graph

import "context"

// Provider is the "small variant" the design notes call for in place of
// a first-class closure: cachedValue answers immediately with a
// snapshotted upstream output (StaticGraph); pullSource recursively
// brings the upstream task up to date on demand (DynamicGraph and
// StreamingGraph), which is what makes those two disciplines pull-based
// rather than snapshot-based. Its methods are unexported so only this
// package can add implementations; callers force a Provider through
// Force/ForceExtent.
type Provider interface {
	force(ctx context.Context) (any, error)
	forceExtent(ctx context.Context, extent any) (any, error)
}

type cachedValue struct {
	value any
}

func (c cachedValue) force(context.Context) (any, error) { return c.value, nil }
func (c cachedValue) forceExtent(context.Context, any) (any, error) {
	return c.value, nil
}

// pullSource defers to a puller (the owning strategy) to bring the
// named upstream task up to date. force pulls with the extent field,
// which the DynamicGraph and StreamingGraph input builders leave nil;
// forceExtent lets a streaming task request a specific extent from
// this particular upstream call.
type pullSource[N comparable] struct {
	puller puller[N]
	name   N
	extent any
}

func (p pullSource[N]) force(ctx context.Context) (any, error) {
	return p.puller.pull(ctx, p.name, p.extent)
}

func (p pullSource[N]) forceExtent(ctx context.Context, extent any) (any, error) {
	return p.puller.pull(ctx, p.name, extent)
}

// entry pairs one incoming link's input label with the Provider that
// resolves its value.
type entry struct {
	label    any
	provider Provider
}

// NamedInputs is the read-only multi-map view a task function receives
// over its incoming links. Values are Providers (thunks): Values and
// Items yield Providers, not forced values, so callers choose when (and
// whether) to force them.
type NamedInputs[N comparable] struct {
	entries []entry
}

// Contains reports whether at least one link carries the given label.
func (ni *NamedInputs[N]) Contains(label any) bool {
	for _, e := range ni.entries {
		if e.label == label {
			return true
		}
	}
	return false
}

// Len returns the total number of incoming links.
func (ni *NamedInputs[N]) Len() int {
	return len(ni.entries)
}

func (ni *NamedInputs[N]) matching(label any) []entry {
	var matches []entry
	for _, e := range ni.entries {
		if e.label == label {
			matches = append(matches, e)
		}
	}
	return matches
}

// Get forces and returns the single value under label. Zero matches
// returns def; more than one is AmbiguousInputError.
func (ni *NamedInputs[N]) Get(ctx context.Context, label any, def any) (any, error) {
	matches := ni.matching(label)
	switch len(matches) {
	case 0:
		return def, nil
	case 1:
		return matches[0].provider.force(ctx)
	default:
		return nil, &AmbiguousInputError{Label: label, Count: len(matches)}
	}
}

// Getone forces and returns the single value under label. Zero matches
// is MissingInputError; more than one is AmbiguousInputError.
func (ni *NamedInputs[N]) Getone(ctx context.Context, label any) (any, error) {
	matches := ni.matching(label)
	switch len(matches) {
	case 0:
		return nil, &MissingInputError{Label: label}
	case 1:
		return matches[0].provider.force(ctx)
	default:
		return nil, &AmbiguousInputError{Label: label, Count: len(matches)}
	}
}

// Getall forces and returns every value under label, in link
// enumeration order.
func (ni *NamedInputs[N]) Getall(ctx context.Context, label any) ([]any, error) {
	matches := ni.matching(label)
	values := make([]any, 0, len(matches))
	for _, m := range matches {
		v, err := m.provider.force(ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// GetExtent is Get's streaming overload: the extent is forwarded to the
// provider instead of whatever extent the link was built with.
func (ni *NamedInputs[N]) GetExtent(ctx context.Context, label any, extent any, def any) (any, error) {
	matches := ni.matching(label)
	switch len(matches) {
	case 0:
		return def, nil
	case 1:
		return matches[0].provider.forceExtent(ctx, extent)
	default:
		return nil, &AmbiguousInputError{Label: label, Count: len(matches)}
	}
}

// GetoneExtent is Getone's streaming overload.
func (ni *NamedInputs[N]) GetoneExtent(ctx context.Context, label any, extent any) (any, error) {
	matches := ni.matching(label)
	switch len(matches) {
	case 0:
		return nil, &MissingInputError{Label: label}
	case 1:
		return matches[0].provider.forceExtent(ctx, extent)
	default:
		return nil, &AmbiguousInputError{Label: label, Count: len(matches)}
	}
}

// GetallExtent is Getall's streaming overload.
func (ni *NamedInputs[N]) GetallExtent(ctx context.Context, label any, extent any) ([]any, error) {
	matches := ni.matching(label)
	values := make([]any, 0, len(matches))
	for _, m := range matches {
		v, err := m.provider.forceExtent(ctx, extent)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Keys returns every link's input label, including duplicates, in
// enumeration order.
func (ni *NamedInputs[N]) Keys() []any {
	keys := make([]any, 0, len(ni.entries))
	for _, e := range ni.entries {
		keys = append(keys, e.label)
	}
	return keys
}

// Values returns every link's Provider (not forced), in enumeration
// order, parallel to Keys.
func (ni *NamedInputs[N]) Values() []Provider {
	values := make([]Provider, 0, len(ni.entries))
	for _, e := range ni.entries {
		values = append(values, e.provider)
	}
	return values
}

// Item is one (label, Provider) pair, as returned by Items.
type Item struct {
	Label    any
	Provider Provider
}

// Items returns every (label, Provider) pair, in enumeration order.
func (ni *NamedInputs[N]) Items() []Item {
	items := make([]Item, 0, len(ni.entries))
	for _, e := range ni.entries {
		items = append(items, Item{Label: e.label, Provider: e.provider})
	}
	return items
}

// Force forces a Provider returned by Values or Items.
func Force(ctx context.Context, p Provider) (any, error) {
	return p.force(ctx)
}

// ForceExtent forces a Provider returned by Values or Items with an
// explicit streaming extent.
func ForceExtent(ctx context.Context, p Provider, extent any) (any, error) {
	return p.forceExtent(ctx, extent)
}
