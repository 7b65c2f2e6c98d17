package assistant

import (
	"google.golang.org/genai"

	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/tools"
)

// Declarations converts tool manifests into Gemini function declarations.
// The parameter types map onto the Gemini schema subset; dates travel as
// strings with a format hint.
func Declarations(manifests []tools.Manifest) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(manifests))
	for _, m := range manifests {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        m.Name,
			Description: m.Description,
			Parameters:  parameterSchema(m.Parameters),
		})
	}
	return decls
}

// parameterSchema renders a field list as an object schema.
func parameterSchema(fields []schema.FieldDef) *genai.Schema {
	obj := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		obj.Properties[f.Name] = fieldSchema(f)
		if f.Required {
			obj.Required = append(obj.Required, f.Name)
		}
	}
	return obj
}

func fieldSchema(f schema.FieldDef) *genai.Schema {
	out := &genai.Schema{Description: f.Description}

	switch f.Type {
	case schema.TypeString:
		out.Type = genai.TypeString
		out.Enum = f.Enum
	case schema.TypeInteger:
		out.Type = genai.TypeInteger
	case schema.TypeBoolean:
		out.Type = genai.TypeBoolean
	case schema.TypeDate:
		out.Type = genai.TypeString
		out.Format = "date"
	case schema.TypeArray:
		out.Type = genai.TypeArray
		if f.Items != nil {
			out.Items = fieldSchema(*f.Items)
		}
	case schema.TypeObject:
		nested := parameterSchema(f.Fields)
		nested.Description = f.Description
		return nested
	case schema.TypeMap:
		// Open object; the validator accepts any keys.
		out.Type = genai.TypeObject
	default:
		out.Type = genai.TypeString
	}
	return out
}
