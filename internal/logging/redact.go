package logging

import "strings"

const redacted = "[REDACTED]"

// sensitiveKeys never reach a log sink with their values.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"authorization": {},
	"cookie":        {},
	"secret":        {},
}

// redact returns args with the values of sensitive keys masked. The input
// slice is left untouched.
func redact(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, bad := sensitiveKeys[strings.ToLower(k)]; !bad {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = redacted
	}
	if out == nil {
		return args
	}
	return out
}
