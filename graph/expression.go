package graph

import (
	"context"
	"fmt"
	"reflect"

	"go.starlark.net/starlark"
)

// SetExpression installs a task whose function evaluates code in a
// Starlark sandbox and wraps it in AutomaticDependencies, so calls to
// the sandbox's out() helper become tracked implicit links.
func (b *base[N]) SetExpression(name N, code string, symbols map[string]any) error {
	return b.SetTask(name, AutomaticDependencies[N](Evaluate[N](code, symbols)))
}

// Evaluate returns a task function that compiles and evaluates code as
// a Starlark expression, binding symbols (converted to Starlark values)
// plus a built-in out(name) that reads another task's output by calling
// through to Graph.Output, which is what makes the dependency
// implicit rather than declared via a link.
//
// Only task names of the graph's own name type N can be addressed by
// out(); since Starlark passes name as a string, N must itself be
// string (or a defined type with string as its underlying type) for
// out() to resolve. Any other N makes out() fail at call time with a
// descriptive error rather than at compile time; there is no way to
// express "N is instantiated as string" as a constraint on Func[N]
// without splitting the evaluator out of the generic graph package.
func Evaluate[N comparable](code string, symbols map[string]any) Func[N] {
	return evaluateFn[N]{code: code, symbols: symbols}
}

type evaluateFn[N comparable] struct {
	code    string
	symbols map[string]any
}

func (e evaluateFn[N]) Call(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error) {
	predeclared := starlark.StringDict{}
	for k, v := range e.symbols {
		sv, err := toStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("graph: expression %v symbol %q: %w", name, k, err)
		}
		predeclared[k] = sv
	}
	if ev, err := toStarlark(extent); err == nil {
		predeclared["extent"] = ev
	}
	predeclared["name"] = starlark.String(fmt.Sprint(name))
	predeclared["out"] = starlark.NewBuiltin("out", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var otherName string
		if err := starlark.UnpackArgs("out", args, kwargs, "name", &otherName); err != nil {
			return nil, err
		}
		other, ok := any(otherName).(N)
		if !ok {
			nt := reflect.TypeOf(&other).Elem()
			if nt.Kind() != reflect.String {
				return nil, fmt.Errorf("graph: out(%q): task names for this graph are not strings", otherName)
			}
			other = reflect.ValueOf(otherName).Convert(nt).Interface().(N)
		}
		value, err := g.Output(ctx, other)
		if err != nil {
			return nil, err
		}
		return toStarlark(value)
	})

	thread := &starlark.Thread{Name: fmt.Sprintf("expr:%v", name)}
	result, err := starlark.Eval(thread, fmt.Sprintf("<%v>", name), e.code, predeclared)
	if err != nil {
		return nil, err
	}
	return fromStarlark(result), nil
}

// Equal compares only the source code, not symbols (maps aren't
// ==-comparable); two expressions with identical code but different
// symbol bindings are therefore treated as the same function by
// SetTask. Callers who rebind symbols on an existing expression task
// should call MarkUnfinished themselves.
func (e evaluateFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(evaluateFn[N])
	return ok && e.code == o.code
}

func toStarlark(v any) (starlark.Value, error) {
	switch x := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return x, nil
	case bool:
		return starlark.Bool(x), nil
	case int:
		return starlark.MakeInt(x), nil
	case int64:
		return starlark.MakeInt64(x), nil
	case float64:
		return starlark.Float(x), nil
	case string:
		return starlark.String(x), nil
	case []any:
		elems := make([]starlark.Value, len(x))
		for i, e := range x {
			sv, err := toStarlark(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		dict := starlark.NewDict(len(x))
		for k, val := range x {
			sv, err := toStarlark(val)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("value of type %T cannot cross into the expression sandbox", v)
	}
}

func fromStarlark(v starlark.Value) any {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(x)
	case starlark.Int:
		i, _ := x.Int64()
		return i
	case starlark.Float:
		return float64(x)
	case starlark.String:
		return string(x)
	case *starlark.List:
		out := make([]any, 0, x.Len())
		for i := 0; i < x.Len(); i++ {
			out = append(out, fromStarlark(x.Index(i)))
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, x.Len())
		for _, item := range x.Items() {
			k, _ := starlark.AsString(item[0])
			out[k] = fromStarlark(item[1])
		}
		return out
	default:
		return x.String()
	}
}
