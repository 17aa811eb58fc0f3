// Package recipe reads, mutates, and writes merge recipes. Recipes are kept as
// yaml.Node trees rather than Go maps so that key order from the source file
// survives the round-trip and output stays in block style.
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recipe is a mutable merge recipe document.
type Recipe struct {
	doc *yaml.Node
}

// structureError signals a base recipe that lacks the shape the mutators
// expect. This is a configuration error and is never retried.
type structureError struct{ msg string }

func (e structureError) Error() string { return "recipe structure: " + e.msg }

// IsStructureError reports whether err indicates a malformed base recipe.
func IsStructureError(err error) bool {
	var se structureError
	return errors.As(err, &se)
}

// New returns an empty recipe (a top-level mapping with no keys).
func New() *Recipe {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	return &Recipe{doc: &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}}}
}

// Load parses the YAML recipe at path.
func Load(path string) (*Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse recipe %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, structureError{msg: fmt.Sprintf("%s: top level is not a mapping", path)}
	}
	return &Recipe{doc: &doc}, nil
}

// Save writes the recipe to path in block style with two-space indent.
func (r *Recipe) Save(path string) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write recipe: %w", err)
	}
	return nil
}

// Bytes renders the recipe document.
func (r *Recipe) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r.doc); err != nil {
		return nil, fmt.Errorf("encode recipe: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode recipe: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns an independent deep copy. Mutating the clone never touches
// the receiver, so the base recipe can be reused across sweep iterations.
func (r *Recipe) Clone() *Recipe {
	return &Recipe{doc: cloneNode(r.doc)}
}

// Validate checks the shape required by the sweep mutators: at least two
// entries under models, each carrying a parameters mapping.
func (r *Recipe) Validate() error {
	if _, err := r.modelParams(1); err != nil {
		return err
	}
	_, err := r.modelParams(0)
	return err
}

// SetWeights overwrites models[0].parameters.weight and
// models[1].parameters.weight.
func (r *Recipe) SetWeights(w1, w2 float64) error {
	return r.setModelParam("weight", w1, w2)
}

// SetDensities overwrites models[0].parameters.density and
// models[1].parameters.density.
func (r *Recipe) SetDensities(d1, d2 float64) error {
	return r.setModelParam("density", d1, d2)
}

// SetLambda overwrites the top-level parameters.lambda scalar, creating the
// parameters mapping when the base recipe does not carry one.
func (r *Recipe) SetLambda(v float64) error {
	params := ensureMapping(r.top(), "parameters")
	setMapValue(params, "lambda", floatNode(v))
	return nil
}

// AppendModel adds a models entry of the form
// {model: id, parameters: {weight: w}}.
func (r *Recipe) AppendModel(id string, weight float64) {
	models := mapValue(r.top(), "models")
	if models == nil || models.Kind != yaml.SequenceNode {
		models = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		setMapValue(r.top(), "models", models)
	}
	params := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setMapValue(params, "weight", floatNode(weight))
	entry := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setMapValue(entry, "model", strNode(id))
	setMapValue(entry, "parameters", params)
	models.Content = append(models.Content, entry)
}

// SetString sets a top-level string scalar such as merge_method or dtype.
func (r *Recipe) SetString(key, value string) {
	setMapValue(r.top(), key, strNode(value))
}

// Weight returns models[i].parameters.weight.
func (r *Recipe) Weight(i int) (float64, error) {
	return r.modelParamValue(i, "weight")
}

// Density returns models[i].parameters.density.
func (r *Recipe) Density(i int) (float64, error) {
	return r.modelParamValue(i, "density")
}

// Lambda returns the top-level parameters.lambda value.
func (r *Recipe) Lambda() (float64, error) {
	params := mapValue(r.top(), "parameters")
	if params == nil || params.Kind != yaml.MappingNode {
		return 0, structureError{msg: "missing top-level parameters mapping"}
	}
	n := mapValue(params, "lambda")
	if n == nil {
		return 0, structureError{msg: "missing parameters.lambda"}
	}
	return strconv.ParseFloat(n.Value, 64)
}

func (r *Recipe) top() *yaml.Node { return r.doc.Content[0] }

func (r *Recipe) setModelParam(key string, v1, v2 float64) error {
	p1, err := r.modelParams(0)
	if err != nil {
		return err
	}
	p2, err := r.modelParams(1)
	if err != nil {
		return err
	}
	setMapValue(p1, key, floatNode(v1))
	setMapValue(p2, key, floatNode(v2))
	return nil
}

func (r *Recipe) modelParamValue(i int, key string) (float64, error) {
	params, err := r.modelParams(i)
	if err != nil {
		return 0, err
	}
	n := mapValue(params, key)
	if n == nil {
		return 0, structureError{msg: fmt.Sprintf("models[%d] lacks parameters.%s", i, key)}
	}
	return strconv.ParseFloat(n.Value, 64)
}

func (r *Recipe) modelParams(i int) (*yaml.Node, error) {
	models := mapValue(r.top(), "models")
	if models == nil || models.Kind != yaml.SequenceNode {
		return nil, structureError{msg: "missing models sequence"}
	}
	if len(models.Content) < i+1 {
		return nil, structureError{msg: fmt.Sprintf("needs at least %d model entries, found %d", i+1, len(models.Content))}
	}
	entry := models.Content[i]
	if entry.Kind != yaml.MappingNode {
		return nil, structureError{msg: fmt.Sprintf("models[%d] is not a mapping", i)}
	}
	params := mapValue(entry, "parameters")
	if params == nil || params.Kind != yaml.MappingNode {
		return nil, structureError{msg: fmt.Sprintf("models[%d] lacks a parameters mapping", i)}
	}
	return params, nil
}

// mapValue returns the value node for key within a mapping node, or nil.
func mapValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// setMapValue replaces the value for key, or appends the pair when absent,
// preserving the position of existing keys.
func setMapValue(m *yaml.Node, key string, val *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content, strNode(key), val)
}

func ensureMapping(m *yaml.Node, key string) *yaml.Node {
	if v := mapValue(m, key); v != nil && v.Kind == yaml.MappingNode {
		return v
	}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setMapValue(m, key, v)
	return v
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func floatNode(v float64) *yaml.Node {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, ch := range n.Content {
			c.Content[i] = cloneNode(ch)
		}
	}
	return &c
}
