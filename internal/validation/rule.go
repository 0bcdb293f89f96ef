// File: internal/validation/rule.go
package validation

// Rule is a single check over a whole input value. Guard is evaluated first;
// a nil Guard always applies. When the guard holds and Check reports false,
// Err is reported against Field.
type Rule[T any] struct {
	Field string
	Guard func(T) bool
	Check func(T) bool
	Err   error
}

func (r Rule[T]) applies(in T) bool {
	return r.Guard == nil || r.Guard(in)
}

// Rules is an ordered rule table. Every applicable rule runs; nothing
// short-circuits.
type Rules[T any] []Rule[T]

// Apply evaluates every rule and returns the violations in table order.
func (rs Rules[T]) Apply(in T) Errors {
	var errs Errors
	for _, r := range rs {
		if !r.applies(in) {
			continue
		}
		if r.Check(in) {
			continue
		}
		errs = append(errs, newFieldError(r.Field, r.Err))
	}
	return errs
}

// Validate is Apply returning a plain error, nil when every rule passed.
func (rs Rules[T]) Validate(in T) error {
	if errs := rs.Apply(in); len(errs) > 0 {
		return errs
	}
	return nil
}
