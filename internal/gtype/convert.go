package gtype

type convKey struct {
	from *Type
	to   *Type
}

// conversions is the implicit-conversion table. Queries against logged
// values go through it; a missing entry means the value stays unknown.
var conversions = map[convKey]func(any) any{}

// RegisterConversion installs a conversion from one descriptor to another.
// Later registrations for the same pair replace earlier ones.
func RegisterConversion(from, to *Type, fn func(any) any) {
	conversions[convKey{from, to}] = fn
}

func init() {
	RegisterConversion(Int, Float, func(v any) any { return float64(v.(int)) })
	RegisterConversion(Int, Bool, func(v any) any { return v.(int) != 0 })
	RegisterConversion(Float, Int, func(v any) any { return int(v.(float64)) })
	RegisterConversion(Float, Bool, func(v any) any { return v.(float64) != 0 })
	RegisterConversion(Bool, Int, func(v any) any {
		if v.(bool) {
			return 1
		}
		return 0
	})
	RegisterConversion(Bool, Float, func(v any) any {
		if v.(bool) {
			return 1.0
		}
		return 0.0
	})
}

// Convert converts a typed payload to the target descriptor. Identity
// conversions always succeed. Anything not covered by the table reports
// ok=false.
func Convert(p Pointer, to *Type) (any, bool) {
	if p.Type == nil || to == nil {
		return nil, false
	}
	if p.Type == to {
		return p.Value, true
	}
	fn, ok := conversions[convKey{p.Type, to}]
	if !ok {
		return nil, false
	}
	return fn(p.Value), true
}

// ConvertTo is the generic form of Convert for a Go primitive target.
func ConvertTo[T any](p Pointer) (T, bool) {
	var zero T
	to := TypeFor[T]()
	if to == nil {
		return zero, false
	}
	v, ok := Convert(p, to)
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	if !ok {
		return zero, false
	}
	return out, true
}
