package compose

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format    SchemaFormat
	Component string
	Document  any
}

// SchemaGenerator transforms a resolved plan into a schema document so
// tooling can document a component's composed surface. Implementations must
// be safe for concurrent use and handle nil plans by returning an empty
// document.
type SchemaGenerator interface {
	Generate(component string, plan *ResolvedFeatures) (SchemaDocument, error)
}

// FieldDescriptor describes a path in the composed surface and its inferred
// type.
type FieldDescriptor struct {
	Path string
	Type string
}

// DefaultSchemaGenerator returns the built-in descriptor-based generator. It
// emits one row per flattened reactive property and one per leaf of every
// feature's final configuration.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(component string, plan *ResolvedFeatures) (SchemaDocument, error) {
	descriptors := []FieldDescriptor{}

	if plan != nil {
		properties := plan.Properties()
		for _, name := range plan.PropertyNames() {
			decl := properties[name]
			descriptors = append(descriptors, FieldDescriptor{
				Path: joinPath("properties", name),
				Type: propertyType(decl),
			})
		}
		for _, feature := range plan.Features() {
			prefix := joinPath(joinPath("features", feature.Name), "config")
			descriptors = append(descriptors, deriveFieldDescriptors(feature.Config, prefix)...)
		}
	}

	return SchemaDocument{
		Format:    SchemaFormatDescriptors,
		Component: component,
		Document:  descriptors,
	}, nil
}

func propertyType(decl PropertyDecl) string {
	if decl.Type != "" {
		return decl.Type
	}
	if decl.Default != nil {
		return typeName(decl.Default)
	}
	return "any"
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	if value == nil {
		return nil
	}

	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return []FieldDescriptor{{
				Path: prefix,
				Type: "map[string]any",
			}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			nextPrefix := joinPath(prefix, key)
			fields = append(fields, deriveFieldDescriptors(typed[key], nextPrefix)...)
		}
		return fields
	case []any:
		elementType := "any"
		if len(typed) > 0 {
			elementType = typeName(typed[0])
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: "[]" + elementType,
		}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: typeName(typed),
		}}
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
