package resource

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/apina/pkg/storage"
	"github.com/getmockd/apina/pkg/value"
)

// ResourceType is the reserved type whose objects are schemas.
const ResourceType = "resource"

// AttributeDefinition describes one schema attribute.
type AttributeDefinition struct {
	Name     string
	Source   string
	Address  Address
	Type     value.Kind
	Required bool
	Key      bool
}

// Schema is the attribute list of a resource type, in definition order.
type Schema struct {
	Type       string
	Attributes []AttributeDefinition
}

// Attribute returns the definition named name.
func (s *Schema) Attribute(name string) (AttributeDefinition, bool) {
	if s == nil {
		return AttributeDefinition{}, false
	}
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeDefinition{}, false
}

// SchemaHref returns the id of the schema object for resourceType.
func SchemaHref(resourceType string) string {
	return Href(ResourceType, resourceType)
}

// LoadSchema reads the schema registered for resourceType. It returns nil
// when no schema object exists or the object has no fields.
func LoadSchema(store *storage.Store, resourceType string) *Schema {
	obj, ok := store.GetObject(SchemaHref(resourceType))
	if !ok || obj.Len() == 0 {
		return nil
	}
	return ParseSchema(resourceType, obj)
}

// ParseSchema converts a stored schema object. Fields whose definition is
// not an object or lacks a string source are skipped.
func ParseSchema(resourceType string, obj *value.Object) *Schema {
	s := &Schema{Type: resourceType}
	obj.Range(func(name string, v value.Value) bool {
		def, ok := v.(*value.Object)
		if !ok {
			return true
		}
		src, ok := def.Get("source")
		source, isString := src.(value.String)
		if !ok || !isString {
			return true
		}
		a := AttributeDefinition{
			Name:    name,
			Source:  string(source),
			Address: ParseAddress(string(source)),
		}
		if t, ok := def.Get("type"); ok {
			if ts, ok := t.(value.String); ok {
				a.Type = value.Kind(ts)
			}
		}
		a.Required = isTrue(def, "required")
		a.Key = isTrue(def, "key")
		s.Attributes = append(s.Attributes, a)
		return true
	})
	return s
}

func isTrue(obj *value.Object, key string) bool {
	v, ok := obj.Get(key)
	if !ok {
		return false
	}
	b, ok := v.(value.Bool)
	return ok && bool(b)
}

// definitionSchema describes a valid resource type definition: a map of
// attribute name to {source, type, key?, required?}.
const definitionSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"propertyNames": {"minLength": 1},
	"additionalProperties": {
		"type": "object",
		"properties": {
			"source": {"type": "string"},
			"type": {"type": "string"},
			"key": {"type": ["boolean", "null"]},
			"required": {"type": ["boolean", "null"]}
		},
		"required": ["source", "type"],
		"additionalProperties": false
	}
}`

var (
	definitionOnce     sync.Once
	definitionCompiled *jsonschema.Schema
	definitionErr      error
)

func compileDefinitionSchema() (*jsonschema.Schema, error) {
	definitionOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("definition.json", strings.NewReader(definitionSchema)); err != nil {
			definitionErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		definitionCompiled, definitionErr = compiler.Compile("definition.json")
	})
	return definitionCompiled, definitionErr
}

// ValidateDefinition checks that data is a well-formed type definition.
func ValidateDefinition(data *value.Object) error {
	schema, err := compileDefinitionSchema()
	if err != nil {
		return err
	}
	return schema.Validate(value.ToAny(data))
}
