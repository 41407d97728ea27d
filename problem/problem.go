// Package problem loads declarative PDE problem descriptions from YAML and
// compiles them into the builder input consumed by varmap.Build.
package problem

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/pdemeta/symbolic"
	"github.com/notargets/pdemeta/varmap"
)

// SchemaError reports a malformed problem description.
type SchemaError struct {
	Field  string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bad problem description field %q: %s", e.Field, e.Detail)
}

// Definition mirrors the YAML problem file. Equations and Conditions hold
// expression text in the "lhs ~ rhs" grammar; Conditions entries may be
// nested lists when an upstream pre-processor groups related conditions.
type Definition struct {
	Title       string                   `yaml:"Title"`
	Coordinates []string                 `yaml:"Coordinates"`
	Time        string                   `yaml:"Time"`
	Functions   []string                 `yaml:"Functions"`
	Parameters  []string                 `yaml:"Parameters"`
	Domains     map[string]varmap.Domain `yaml:"Domains"`
	Equations   []string                 `yaml:"Equations"`
	Conditions  []interface{}            `yaml:"Conditions"`
	Epsilon     float64                  `yaml:"Epsilon"`
}

func (d *Definition) Parse(data []byte) error {
	return yaml.Unmarshal(data, d)
}

func (d *Definition) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", d.Title)
	fmt.Printf("%v\t\t= Coordinates\n", d.Coordinates)
	if d.Time != "" {
		fmt.Printf("[%s]\t\t\t= Time\n", d.Time)
	}
	fmt.Printf("%v\t\t= Functions\n", d.Functions)
	keys := make([]string, 0, len(d.Domains))
	for k := range d.Domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		dom := d.Domains[key]
		fmt.Printf("Domains[%s] = (%g, %g)\n", key, dom.Lower, dom.Upper)
	}
	for _, eq := range d.Equations {
		fmt.Printf("Equation: %s\n", eq)
	}
}

// Compile parses the equation and condition text, flattens nested condition
// groups depth-first preserving order, and checks the best-effort 1:1
// coordinate/domain correspondence. Strict domain validation is the
// builder's job; Compile only rejects structurally bad input.
func (d *Definition) Compile() (in varmap.Input, err error) {
	if len(d.Functions) == 0 {
		return in, &SchemaError{Field: "Functions", Detail: "at least one unknown function is required"}
	}
	in = varmap.Input{
		Coordinates: d.Coordinates,
		Time:        d.Time,
		Functions:   d.Functions,
		Parameters:  d.Parameters,
		Domains:     d.Domains,
		Epsilon:     d.Epsilon,
	}
	for _, c := range d.Coordinates {
		if _, ok := d.Domains[c]; !ok {
			return in, &SchemaError{Field: "Domains", Detail: fmt.Sprintf("declared coordinate %q has no domain entry", c)}
		}
	}
	for i, text := range d.Equations {
		eq, parseErr := symbolic.ParseEquation(text)
		if parseErr != nil {
			return in, &SchemaError{Field: fmt.Sprintf("Equations[%d]", i), Detail: parseErr.Error()}
		}
		in.Equations = append(in.Equations, eq)
	}
	flat, err := FlattenConditions(d.Conditions)
	if err != nil {
		return in, err
	}
	for i, text := range flat {
		eq, parseErr := symbolic.ParseEquation(text)
		if parseErr != nil {
			return in, &SchemaError{Field: fmt.Sprintf("Conditions[%d]", i), Detail: parseErr.Error()}
		}
		in.Conditions = append(in.Conditions, eq)
	}
	return in, nil
}

// FlattenConditions flattens arbitrarily nested condition groups into one
// ordered sequence of condition strings, depth-first, preserving the
// declared order.
func FlattenConditions(raw []interface{}) (flat []string, err error) {
	var walk func(entry interface{}) error
	walk = func(entry interface{}) error {
		switch v := entry.(type) {
		case string:
			flat = append(flat, v)
		case []interface{}:
			for _, inner := range v {
				if err := walk(inner); err != nil {
					return err
				}
			}
		default:
			return &SchemaError{
				Field:  "Conditions",
				Detail: fmt.Sprintf("entries must be strings or nested lists, got %T", entry),
			}
		}
		return nil
	}
	for _, entry := range raw {
		if err = walk(entry); err != nil {
			return nil, err
		}
	}
	return flat, nil
}

// Load is the one-call path from YAML bytes to builder input.
func Load(data []byte) (in varmap.Input, err error) {
	var d Definition
	if err = d.Parse(data); err != nil {
		return in, &SchemaError{Field: "yaml", Detail: err.Error()}
	}
	return d.Compile()
}
