package period

import "time"

// DefaultExpr is used when a caller supplies no period at all.
const DefaultExpr = "30d"

// Resolver resolves period expressions against an injectable clock and
// location. The zero value is not usable; call NewResolver.
type Resolver struct {
	now         func() time.Time
	loc         *time.Location
	defaultExpr string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the source of the reference instant.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithLocation sets the location whose calendar defines "today".
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithDefault sets the expression used for an empty input.
func WithDefault(expr string) Option {
	return func(r *Resolver) {
		if expr != "" {
			r.defaultExpr = expr
		}
	}
}

// NewResolver creates a Resolver using time.Now in UTC and DefaultExpr.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		now:         time.Now,
		loc:         time.UTC,
		defaultExpr: DefaultExpr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses expr, substituting the default expression when expr is empty.
// The reference instant is read once per call.
func (r *Resolver) Resolve(expr string) (DateRange, error) {
	if expr == "" {
		expr = r.defaultExpr
	}
	return ParseAt(expr, r.now().In(r.loc))
}

// Now returns the reference instant.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Today returns the current calendar date in the resolver's location.
func (r *Resolver) Today() time.Time {
	return CivilDate(r.now(), r.loc)
}

// Location returns the resolver's location.
func (r *Resolver) Location() *time.Location {
	return r.loc
}
