package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dnarecon/internal/dna"
)

// File is the YAML document.
type File struct {
	Version     string      `yaml:"version"`
	PointerSize int         `yaml:"pointer_size,omitempty"`
	MaxAlign    int         `yaml:"max_align,omitempty"`
	Structs     []StructDef `yaml:"structs"`
	Aliases     AliasDefs   `yaml:"aliases,omitempty"`
}

// StructDef is one struct and its members in declared order.
type StructDef struct {
	Name    string      `yaml:"name"`
	Members []MemberDef `yaml:"members"`
}

// MemberDef is a member declaration.
type MemberDef struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// AliasDefs mirror dna.Aliases.
type AliasDefs struct {
	Structs map[string]string            `yaml:"structs,omitempty"`
	Members map[string]map[string]string `yaml:"members,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for MemberDef.
// Accepts:
//   - C declaration: "float co[3]"
//   - Mapping: {type: float, name: "co[3]"}
func (m *MemberDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		d, err := dna.ParseDecl(str)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*m = MemberDef{Type: d.Type, Name: d.Name}

		return nil

	case yaml.MappingNode:
		type plain MemberDef

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		if p.Type == "" || p.Name == "" {
			return fmt.Errorf("line %d: member needs both type and name", node.Line)
		}

		*m = MemberDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: member must be a declaration string or a {type, name} mapping", node.Line)
	}
}

// MarshalYAML writes a member as its C declaration.
func (m MemberDef) MarshalYAML() (any, error) {
	return dna.Decl{Type: m.Type, Name: m.Name}.String(), nil
}
