package filter

import "fmt"

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured index query filter with must/must_not semantics.
type Expression struct {
	must    []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, mustNot: mustNot}, nil
}

// Match is a shorthand for an expression of must-match tag conditions given as key/value pairs.
// Pairs with an empty key or value are skipped.
func Match(pairs ...string) Expression {
	var must []Condition
	for i := 0; i+1 < len(pairs); i += 2 {
		c, err := NewMatch(pairs[i], pairs[i+1])
		if err != nil {
			continue
		}
		must = append(must, c)
	}
	return Expression{must: must}
}

// And returns an expression requiring both e and other.
func (e Expression) And(other Expression) Expression {
	must := make([]Condition, 0, len(e.must)+len(other.must))
	must = append(must, e.must...)
	must = append(must, other.must...)
	mustNot := make([]Condition, 0, len(e.mustNot)+len(other.mustNot))
	mustNot = append(mustNot, e.mustNot...)
	mustNot = append(mustNot, other.mustNot...)
	return Expression{must: must, mustNot: mustNot}
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.mustNot) == 0
}

// Matches evaluates the expression against flat string attributes.
// Used by callers that hold documents in memory.
func (e Expression) Matches(attrs map[string]string) bool {
	for _, c := range e.must {
		if attrs[c.key] != c.match {
			return false
		}
	}
	for _, c := range e.mustNot {
		if attrs[c.key] == c.match {
			return false
		}
	}
	return true
}

// String renders the expression for logs, e.g. "_type:episode AND NOT _ref:42".
func (e Expression) String() string {
	s := ""
	for _, c := range e.must {
		if s != "" {
			s += " AND "
		}
		s += c.key + ":" + c.match
	}
	for _, c := range e.mustNot {
		if s != "" {
			s += " AND "
		}
		s += "NOT " + c.key + ":" + c.match
	}
	return s
}

// Condition is a single exact tag match.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }
