package observe

import (
	"github.com/smallnest/taskgraph/graph"
	tglog "github.com/smallnest/taskgraph/log"
)

// Logger subscribes to a graph's lifecycle signals and emits one line
// per event through a log.Logger, with independent toggles for the
// noisier payloads (inputs, outputs, exceptions, extents) so a caller
// can dial verbosity without losing the event trail itself.
type Logger[N comparable] struct {
	backend tglog.Logger

	LogInputs     bool
	LogOutputs    bool
	LogExceptions bool
	LogExtents    bool

	tokens []unsubscribe
}

type unsubscribe func()

// NewLogger creates a Logger that writes through backend; Attach
// subscribes it to a graph. Every toggle defaults to true; set them
// false before calling Attach to quiet a specific payload.
func NewLogger[N comparable](backend tglog.Logger) *Logger[N] {
	return &Logger[N]{
		backend:       backend,
		LogInputs:     true,
		LogOutputs:    true,
		LogExceptions: true,
		LogExtents:    true,
	}
}

// Attach subscribes to g's signal bus. Call Close to unsubscribe.
func (l *Logger[N]) Attach(g graph.Graph[N]) {
	l.tokens = append(l.tokens, subscribe(g.OnChanged(), func(graph.ChangedArgs[N]) {
		l.backend.Debug("graph changed")
	}))
	l.tokens = append(l.tokens, subscribe(g.OnUpdate(), func(a graph.UpdateArgs[N]) {
		if l.LogExtents && a.Extent != nil {
			l.backend.Debug("update %v (extent=%v)", a.Name, a.Extent)
		} else {
			l.backend.Debug("update %v", a.Name)
		}
	}))
	l.tokens = append(l.tokens, subscribe(g.OnExecute(), func(a graph.ExecuteArgs[N]) {
		if l.LogInputs {
			l.backend.Info("execute %v (inputs=%d)", a.Name, a.Inputs.Len())
		} else {
			l.backend.Info("execute %v", a.Name)
		}
	}))
	l.tokens = append(l.tokens, subscribe(g.OnFinished(), func(a graph.FinishedArgs[N]) {
		if l.LogOutputs {
			l.backend.Info("finished %v -> %v", a.Name, a.Output)
		} else {
			l.backend.Info("finished %v", a.Name)
		}
	}))
	l.tokens = append(l.tokens, subscribe(g.OnFailed(), func(a graph.FailedArgs[N]) {
		if l.LogExceptions {
			l.backend.Error("failed %v: %v", a.Name, a.Err)
		} else {
			l.backend.Error("failed %v", a.Name)
		}
	}))
	l.tokens = append(l.tokens, subscribe(g.OnCycle(), func(a graph.CycleArgs[N]) {
		l.backend.Warn("cycle detected at %v", a.Name)
	}))
	l.tokens = append(l.tokens, subscribe(g.OnTaskRenamed(), func(a graph.RenamedArgs[N]) {
		l.backend.Debug("renamed %v -> %v", a.OldName, a.NewName)
	}))
}

// Close unsubscribes the logger from every signal it attached to.
func (l *Logger[N]) Close() {
	for _, u := range l.tokens {
		u()
	}
	l.tokens = nil
}

func subscribe[A any](sig interface {
	Subscribe(func(A)) int
	Unsubscribe(int)
}, fn func(A)) unsubscribe {
	token := sig.Subscribe(fn)
	return func() { sig.Unsubscribe(token) }
}
