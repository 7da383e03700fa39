package graph

// UpdatedTasks subscribes to a graph's on_update signal and accumulates
// the set of task names visited since it was created (or since the last
// Reset). AutomaticDependencies uses one internally to learn which
// tasks an expression actually touched; it is equally useful as a test
// probe for asserting which tasks were visited (it records a set, not
// an order) and short-circuiting.
type UpdatedTasks[N comparable] struct {
	g     Graph[N]
	token int
	names map[N]struct{}
}

// NewUpdatedTasks subscribes to g and begins recording immediately.
// Call Close to unsubscribe.
func NewUpdatedTasks[N comparable](g Graph[N]) *UpdatedTasks[N] {
	u := &UpdatedTasks[N]{g: g, names: make(map[N]struct{})}
	u.token = g.OnUpdate().Subscribe(func(args UpdateArgs[N]) {
		u.names[args.Name] = struct{}{}
	})
	return u
}

// Close unsubscribes from the graph's on_update signal.
func (u *UpdatedTasks[N]) Close() {
	u.g.OnUpdate().Unsubscribe(u.token)
}

// Names returns every distinct task name seen so far. Order is
// unspecified.
func (u *UpdatedTasks[N]) Names() []N {
	names := make([]N, 0, len(u.names))
	for n := range u.names {
		names = append(names, n)
	}
	return names
}

// Contains reports whether name has been seen.
func (u *UpdatedTasks[N]) Contains(name N) bool {
	_, ok := u.names[name]
	return ok
}

// Reset clears the recorded set without unsubscribing.
func (u *UpdatedTasks[N]) Reset() {
	u.names = make(map[N]struct{})
}
