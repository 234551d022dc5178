package ecs

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ParseSchema reads a schema document:
//
//	components:
//	  Position: {x: f64, y: f64}
//	  Path: {points: [f32, 8]}
//	  Hidden:
//	markers: [Static, Paddle]
//
// A component with a null body is a marker. Components and fields keep the
// order they appear in the document.
func ParseSchema(data []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Schema{}, eris.Wrap(err, "failed to decode schema")
	}
	if doc.Kind == 0 {
		return Schema{}, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if isNull(root) {
		return Schema{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return Schema{}, shapeError("", "", root, "document must be a mapping")
	}

	var schema Schema
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "components":
			components, err := parseComponents(value)
			if err != nil {
				return Schema{}, err
			}
			schema.Components = components
		case "markers":
			markers, err := parseMarkers(value)
			if err != nil {
				return Schema{}, err
			}
			schema.Markers = markers
		default:
			return Schema{}, shapeError("", "", key, fmt.Sprintf("unknown key %q", key.Value))
		}
	}
	return schema, nil
}

// LoadSchema reads a schema document from r.
func LoadSchema(r io.Reader) (Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Schema{}, eris.Wrap(err, "failed to read schema")
	}
	return ParseSchema(data)
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func shapeError(component, field string, n *yaml.Node, msg string) error {
	return &SchemaError{
		Component: component,
		Field:     field,
		Err:       fmt.Errorf("line %d: %s", n.Line, msg),
	}
}

func parseComponents(n *yaml.Node) ([]ComponentSpec, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, shapeError("", "", n, "components must be a mapping")
	}
	specs := make([]ComponentSpec, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, body := n.Content[i].Value, n.Content[i+1]
		if isNull(body) {
			specs = append(specs, ComponentSpec{Name: name})
			continue
		}
		if body.Kind != yaml.MappingNode {
			return nil, shapeError(name, "", body, "component body must be a mapping or null")
		}
		entry := make(SchemaEntry, 0, len(body.Content)/2)
		for j := 0; j+1 < len(body.Content); j += 2 {
			field, err := parseField(name, body.Content[j].Value, body.Content[j+1])
			if err != nil {
				return nil, err
			}
			entry = append(entry, field)
		}
		specs = append(specs, ComponentSpec{Name: name, Entry: entry})
	}
	return specs, nil
}

func parseField(component, name string, n *yaml.Node) (FieldSpec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		t, err := ParseNumberType(n.Value)
		if err != nil {
			return FieldSpec{}, &SchemaError{Component: component, Field: name, Err: err}
		}
		return Scalar(name, t), nil
	case yaml.SequenceNode:
		if len(n.Content) != 2 || n.Content[0].Kind != yaml.ScalarNode || n.Content[1].Kind != yaml.ScalarNode {
			return FieldSpec{}, shapeError(component, name, n, "array field must be [type, length]")
		}
		t, err := ParseNumberType(n.Content[0].Value)
		if err != nil {
			return FieldSpec{}, &SchemaError{Component: component, Field: name, Err: err}
		}
		length, err := strconv.Atoi(n.Content[1].Value)
		if err != nil || length < 1 {
			return FieldSpec{}, shapeError(component, name, n.Content[1], fmt.Sprintf("invalid array length %q", n.Content[1].Value))
		}
		return Array(name, t, length), nil
	default:
		return FieldSpec{}, shapeError(component, name, n, "field must be a type name or [type, length]")
	}
}

func parseMarkers(n *yaml.Node) ([]string, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, shapeError("", "", n, "markers must be a sequence")
	}
	markers := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, shapeError("", "", item, "marker must be a name")
		}
		markers = append(markers, item.Value)
	}
	return markers, nil
}
