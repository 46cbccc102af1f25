package canvas

import (
	"fmt"
	"net/url"
	"strings"
)

// Arg is a single request argument.
type Arg struct {
	Key   string
	Value string
}

// Args is an ordered list of request arguments. Keys may repeat, which is how
// Canvas receives array parameters such as include[].
type Args []Arg

// Params builds Args from alternating keys and values.
func Params(kv ...any) Args {
	if len(kv)%2 != 0 {
		panic("canvas.Params: odd number of arguments")
	}
	args := make(Args, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		args = args.Add(fmt.Sprint(kv[i]), kv[i+1])
	}
	return args
}

// Add appends key=value and returns the extended list.
func (a Args) Add(key string, value any) Args {
	return append(a, Arg{Key: key, Value: fmt.Sprint(value)})
}

// AddAll appends key=v for every value.
func (a Args) AddAll(key string, values ...any) Args {
	for _, v := range values {
		a = a.Add(key, v)
	}
	return a
}

// Get returns the first value for key.
func (a Args) Get(key string) (string, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Encode URL-encodes the arguments in their original order. Brackets are left
// readable as Canvas documents them.
func (a Args) Encode() string {
	var sb strings.Builder
	for i, arg := range a {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(arg.Key))
		sb.WriteByte('=')
		sb.WriteString(escape(arg.Value))
	}
	return sb.String()
}

// without drops every argument whose key is already encoded in query.
func (a Args) without(query url.Values) Args {
	out := make(Args, 0, len(a))
	for _, arg := range a {
		if _, ok := query[arg.Key]; ok {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// withPageSize returns a copy with per_page set unless the caller set it.
func (a Args) withPageSize(size int) Args {
	out := make(Args, len(a), len(a)+1)
	copy(out, a)
	if size <= 0 || out.Has("per_page") {
		return out
	}
	return out.Add("per_page", size)
}

func escape(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "%5B", "[")
	return strings.ReplaceAll(e, "%5D", "]")
}
