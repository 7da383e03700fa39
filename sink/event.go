package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smallnest/taskgraph/graph"
)

// Event is one lifecycle occurrence recorded by a sink: a task started
// executing, finished with an output, or failed with an error. Name,
// Output and Err are captured as strings up front since N and the
// task's output type are arbitrary and a sink's storage layer only
// ever needs text: Name via encodeName (fmt rendering), Output as its
// JSON form via encode, and Err as the error's message.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Output    string    `json:"output,omitempty"`
	Err       string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	KindExecute  = "execute"
	KindFinished = "finished"
	KindFailed   = "failed"
)

// encode marshals v to a JSON string, falling back to fmt's %v
// rendering when v can't be marshaled (e.g. a task output holding a
// channel or a function value).
func encode(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return encodeFallback(v)
	}
	return string(b)
}

func newEventID() string {
	return uuid.NewString()
}

func encodeFallback(v any) string {
	return fmt.Sprintf("%v", v)
}

func encodeName[N comparable](name N) string {
	if s, ok := any(name).(string); ok {
		return s
	}
	return fmt.Sprint(name)
}

func timeNow() time.Time {
	return time.Now().UTC()
}

type unsubscribe func()

// attachCommon wires the three events every sink backend records onto
// an append func supplied by the concrete backend. It returns the
// unsubscribe tokens for Close to call.
func attachCommon[N comparable](g graph.Graph[N], append_ func(Event)) []unsubscribe {
	var tokens []unsubscribe
	tokens = append(tokens, subscribe(g.OnExecute(), func(a graph.ExecuteArgs[N]) {
		append_(Event{
			ID:        newEventID(),
			Kind:      KindExecute,
			Name:      encodeName(a.Name),
			Timestamp: timeNow(),
		})
	}))
	tokens = append(tokens, subscribe(g.OnFinished(), func(a graph.FinishedArgs[N]) {
		append_(Event{
			ID:        newEventID(),
			Kind:      KindFinished,
			Name:      encodeName(a.Name),
			Output:    encode(a.Output),
			Timestamp: timeNow(),
		})
	}))
	tokens = append(tokens, subscribe(g.OnFailed(), func(a graph.FailedArgs[N]) {
		err := ""
		if a.Err != nil {
			err = a.Err.Error()
		}
		append_(Event{
			ID:        newEventID(),
			Kind:      KindFailed,
			Name:      encodeName(a.Name),
			Err:       err,
			Timestamp: timeNow(),
		})
	}))
	return tokens
}

func subscribe[A any](sig interface {
	Subscribe(func(A)) int
	Unsubscribe(int)
}, fn func(A)) unsubscribe {
	token := sig.Subscribe(fn)
	return func() { sig.Unsubscribe(token) }
}
