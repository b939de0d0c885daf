package lifecycle

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKind is the expected YAML type of a schema field.
type FieldKind string

const (
	FieldString  FieldKind = "string"
	FieldBool    FieldKind = "bool"
	FieldInt     FieldKind = "int"
	FieldList    FieldKind = "list"
	FieldMapping FieldKind = "mapping"

	// FieldStringOrList accepts either a scalar or a sequence of scalars.
	// Used for transition "from" which may name one or many source states.
	FieldStringOrList FieldKind = "string_or_list"

	// FieldScalarOrMapping accepts either a bare scalar or a mapping.
	// Used for "validation" which has a short and a long form.
	FieldScalarOrMapping FieldKind = "scalar_or_mapping"
)

// Field defines one field in the document schema.
type Field struct {
	// Name is the field key in the YAML document.
	Name string

	// Kind is the expected YAML type.
	Kind FieldKind

	// Required indicates the field must be present.
	Required bool

	// Enum restricts scalar values to this set when non-empty.
	Enum []string

	// Children describes the fields of mapping elements. For FieldList
	// kinds the children apply to each element of the sequence.
	Children []Field
}

// Schema is the structural schema for the workflow configuration document.
// It checks presence, YAML types, and enum membership; semantic checks
// (dangling references, cycles) belong to the graph validator.
type Schema struct {
	Fields []Field
}

// DocumentSchema returns the schema for the taskgate workflow document.
func DocumentSchema() *Schema {
	artifactFields := []Field{
		{Name: "type", Kind: FieldString, Required: true},
		{Name: "path", Kind: FieldString, Required: true},
		{Name: "required", Kind: FieldBool, Required: false},
		{Name: "multiple", Kind: FieldBool, Required: false},
	}

	return &Schema{
		Fields: []Field{
			{Name: "version", Kind: FieldString},
			{
				Name:     "states",
				Kind:     FieldList,
				Required: true,
				Children: []Field{
					{Name: "name", Kind: FieldString, Required: true},
					{Name: "description", Kind: FieldString},
				},
			},
			{
				Name:     "transitions",
				Kind:     FieldList,
				Required: true,
				Children: []Field{
					{Name: "from", Kind: FieldStringOrList, Required: true},
					{Name: "to", Kind: FieldString, Required: true},
					{Name: "via", Kind: FieldString, Required: true},
					{
						Name: "validation",
						Kind: FieldScalarOrMapping,
						Children: []Field{
							{Name: "mode", Kind: FieldString, Required: true, Enum: []string{"none", "keyword", "pull_request"}},
							{Name: "keyword", Kind: FieldString},
						},
					},
					{Name: "input_artifacts", Kind: FieldList, Children: artifactFields},
					{Name: "output_artifacts", Kind: FieldList, Children: artifactFields},
				},
			},
			{
				Name:     "workflows",
				Kind:     FieldList,
				Required: true,
				Children: []Field{
					{Name: "name", Kind: FieldString, Required: true},
					{Name: "command", Kind: FieldString, Required: true},
					{Name: "agent", Kind: FieldString},
					{Name: "loop", Kind: FieldString, Required: true, Enum: []string{"inner", "outer"}},
				},
			},
		},
	}
}

// Check validates the document root node against the schema. All
// violations are collected so the caller sees every problem at once.
func (s *Schema) Check(root *yaml.Node) []ConfigError {
	// yaml.v3 wraps the document in a DocumentNode
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return []ConfigError{newSchemaError("document is empty", root)}
		}
		root = root.Content[0]
	}

	if root.Kind != yaml.MappingNode {
		return []ConfigError{newSchemaError("document root must be a mapping", root)}
	}

	return checkMapping(root, s.Fields, "")
}

// checkMapping validates a mapping node against the given field specs.
func checkMapping(node *yaml.Node, fields []Field, path string) []ConfigError {
	var errs []ConfigError

	present := make(map[string]*yaml.Node)
	known := make(map[string]Field, len(fields))
	for _, f := range fields {
		known[f.Name] = f
	}

	// Mapping content alternates key, value
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		present[key.Value] = val

		field, ok := known[key.Value]
		if !ok {
			errs = append(errs, newSchemaError(
				fmt.Sprintf("unknown field %q", joinPath(path, key.Value)), key))
			continue
		}
		errs = append(errs, checkField(val, field, joinPath(path, field.Name))...)
	}

	for _, f := range fields {
		if f.Required && present[f.Name] == nil {
			errs = append(errs, newSchemaError(
				fmt.Sprintf("missing required field %q", joinPath(path, f.Name)), node))
		}
	}

	return errs
}

// checkField validates a value node against a single field spec.
func checkField(node *yaml.Node, field Field, path string) []ConfigError {
	switch field.Kind {
	case FieldString, FieldBool, FieldInt:
		return checkScalar(node, field, path)

	case FieldList:
		if node.Kind != yaml.SequenceNode {
			return []ConfigError{newSchemaError(
				fmt.Sprintf("field %q must be a list", path), node)}
		}
		var errs []ConfigError
		for i, elem := range node.Content {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if len(field.Children) == 0 {
				errs = append(errs, checkScalar(elem, Field{Name: field.Name, Kind: FieldString}, elemPath)...)
				continue
			}
			if elem.Kind != yaml.MappingNode {
				errs = append(errs, newSchemaError(
					fmt.Sprintf("element %q must be a mapping", elemPath), elem))
				continue
			}
			errs = append(errs, checkMapping(elem, field.Children, elemPath)...)
		}
		return errs

	case FieldMapping:
		if node.Kind != yaml.MappingNode {
			return []ConfigError{newSchemaError(
				fmt.Sprintf("field %q must be a mapping", path), node)}
		}
		return checkMapping(node, field.Children, path)

	case FieldStringOrList:
		if node.Kind == yaml.ScalarNode {
			return checkScalar(node, Field{Name: field.Name, Kind: FieldString, Enum: field.Enum}, path)
		}
		if node.Kind == yaml.SequenceNode {
			var errs []ConfigError
			for i, elem := range node.Content {
				errs = append(errs, checkScalar(elem,
					Field{Name: field.Name, Kind: FieldString, Enum: field.Enum},
					fmt.Sprintf("%s[%d]", path, i))...)
			}
			return errs
		}
		return []ConfigError{newSchemaError(
			fmt.Sprintf("field %q must be a string or a list of strings", path), node)}

	case FieldScalarOrMapping:
		if node.Kind == yaml.ScalarNode {
			return nil // variant discrimination happens during decode
		}
		if node.Kind == yaml.MappingNode {
			return checkMapping(node, field.Children, path)
		}
		return []ConfigError{newSchemaError(
			fmt.Sprintf("field %q must be a scalar or a mapping", path), node)}

	default:
		return []ConfigError{newSchemaError(
			fmt.Sprintf("field %q has unknown schema kind %q", path, field.Kind), node)}
	}
}

// checkScalar validates a scalar node's type tag and enum membership.
func checkScalar(node *yaml.Node, field Field, path string) []ConfigError {
	if node.Kind != yaml.ScalarNode {
		return []ConfigError{newSchemaError(
			fmt.Sprintf("field %q must be a %s", path, field.Kind), node)}
	}

	switch field.Kind {
	case FieldBool:
		if node.Tag != "!!bool" {
			return []ConfigError{newSchemaError(
				fmt.Sprintf("field %q must be a boolean, got %q", path, node.Value), node)}
		}
	case FieldInt:
		if node.Tag != "!!int" {
			return []ConfigError{newSchemaError(
				fmt.Sprintf("field %q must be an integer, got %q", path, node.Value), node)}
		}
	case FieldString:
		if node.Tag != "!!str" {
			return []ConfigError{newSchemaError(
				fmt.Sprintf("field %q must be a string, got %q", path, node.Value), node)}
		}
	}

	if len(field.Enum) > 0 && !contains(field.Enum, node.Value) {
		return []ConfigError{newSchemaError(
			fmt.Sprintf("field %q must be one of [%s], got %q",
				path, strings.Join(field.Enum, ", "), node.Value), node)}
	}

	return nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
