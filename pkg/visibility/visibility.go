// Package visibility implements the show/hide rules evaluated over a form's
// current values. A Condition is an ordered sequence of comparison rows with
// and/or connective rows interleaved between them; evaluation is strictly left
// to right with the short-circuit behaviour documented on Evaluate.
package visibility

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op identifies a comparison a condition row performs against a field value.
type Op string

const (
	OpEmpty            Op = "empty"
	OpNotEmpty         Op = "notEmpty"
	OpEqual            Op = "equal"
	OpNotEqual         Op = "notEqual"
	OpLike             Op = "like"
	OpNotLike          Op = "notLike"
	OpGreaterThan      Op = "greaterThan"
	OpGreaterThanEqual Op = "greaterThanEqual"
	OpLowerThan        Op = "lowerThan"
	OpLowerThanEqual   Op = "lowerThanEqual"
)

// Connective joins two condition rows.
type Connective string

const (
	And Connective = "and"
	Or  Connective = "or"
)

// Row is one entry in a condition sequence: either a comparison (Op set) or a
// connective (Connective set). In serialized descriptors a connective row is a
// bare "and"/"or" string while a comparison row is a {type, field, value}
// object.
type Row struct {
	Connective Connective `json:"connective,omitempty" yaml:"connective,omitempty"`
	Op         Op         `json:"type,omitempty" yaml:"type,omitempty"`
	Field      string     `json:"field,omitempty" yaml:"field,omitempty"`
	Value      any        `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsConnective reports whether the row joins two comparisons.
func (r Row) IsConnective() bool { return r.Connective != "" }

// Condition is the ordered rule sequence owned by exactly one field.
type Condition struct {
	Rows []Row
}

// When starts a condition with a single comparison row.
func When(op Op, field string, value any) *Condition {
	return &Condition{Rows: []Row{{Op: op, Field: field, Value: value}}}
}

// And appends an and-connective plus a comparison row.
func (c *Condition) And(op Op, field string, value any) *Condition {
	c.Rows = append(c.Rows, Row{Connective: And}, Row{Op: op, Field: field, Value: value})
	return c
}

// Or appends an or-connective plus a comparison row.
func (c *Condition) Or(op Op, field string, value any) *Condition {
	c.Rows = append(c.Rows, Row{Connective: Or}, Row{Op: op, Field: field, Value: value})
	return c
}

// Fields returns the names of all fields the condition reads from.
func (c *Condition) Fields() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(c.Rows))
	var out []string
	for _, row := range c.Rows {
		if row.IsConnective() || row.Field == "" {
			continue
		}
		if _, ok := seen[row.Field]; ok {
			continue
		}
		seen[row.Field] = struct{}{}
		out = append(out, row.Field)
	}
	return out
}

// Context carries the flat snapshot of current form values the evaluator
// reads from. Extras lets hosts inject ambient context such as user roles.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// UnmarshalJSON accepts either a bare connective string or a comparison
// object.
func (r *Row) UnmarshalJSON(data []byte) error {
	var conn string
	if err := json.Unmarshal(data, &conn); err == nil {
		return r.setConnective(conn)
	}

	type rowAlias Row
	var alias rowAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*r = Row(alias)
	return r.check()
}

// UnmarshalYAML accepts either a bare connective string or a comparison
// object.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var conn string
		if err := node.Decode(&conn); err != nil {
			return err
		}
		return r.setConnective(conn)
	}

	type rowAlias Row
	var alias rowAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}
	*r = Row(alias)
	return r.check()
}

func (r *Row) setConnective(raw string) error {
	switch Connective(strings.ToLower(strings.TrimSpace(raw))) {
	case And:
		*r = Row{Connective: And}
	case Or:
		*r = Row{Connective: Or}
	default:
		return fmt.Errorf("visibility: unknown connective %q", raw)
	}
	return nil
}

func (r *Row) check() error {
	if r.IsConnective() {
		if r.Connective != And && r.Connective != Or {
			return fmt.Errorf("visibility: unknown connective %q", r.Connective)
		}
		return nil
	}
	switch r.Op {
	case OpEmpty, OpNotEmpty, OpEqual, OpNotEqual, OpLike, OpNotLike,
		OpGreaterThan, OpGreaterThanEqual, OpLowerThan, OpLowerThanEqual:
		return nil
	default:
		return fmt.Errorf("visibility: unknown condition type %q", r.Op)
	}
}
