package domain

// Intent is the routing decision for a query: one named source or all sources.
type Intent string

// IntentAll routes a query to every connected source.
const IntentAll Intent = "all"

// IntentFor returns the intent targeting a single source.
func IntentFor(s SourceName) Intent {
	return Intent(s)
}

// Selects reports whether the intent routes to the given source.
func (i Intent) Selects(s SourceName) bool {
	return i == IntentAll || i == Intent(s)
}

// Source returns the targeted source and true, or false for IntentAll.
func (i Intent) Source() (SourceName, bool) {
	if i == IntentAll || i == "" {
		return "", false
	}
	return SourceName(i), true
}
