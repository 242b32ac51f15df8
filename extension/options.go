package extension

// Options is an extension's configuration record: unit-defined defaults
// merged with caller-supplied overrides. Immutable after the extension is
// handed to a manager by convention; accessors return copies.
type Options map[string]any

// Merge returns a new Options with overrides layered over o. Override
// values win on key conflict; neither input is modified.
func (o Options) Merge(overrides Options) Options {
	out := make(Options, len(o)+len(overrides))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// String returns the string value for key, or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Int returns the int value for key, or def. TOML decoding produces
// int64, so both widths are accepted.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool returns the bool value for key, or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// IntSlice returns the []int value for key, or def. Accepts []int,
// []int64, and []any of integral values.
func (o Options) IntSlice(key string, def []int) []int {
	switch v := o[key].(type) {
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		return out
	case []int64:
		out := make([]int, len(v))
		for i, n := range v {
			out[i] = int(n)
		}
		return out
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				out = append(out, int(n))
			default:
				return def
			}
		}
		return out
	default:
		return def
	}
}
