package schemafile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dnarecon/internal/dna"
)

// CurrentVersion is the only document version understood.
const CurrentVersion = "1"

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = CurrentVersion
	}

	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported schema version %q", f.Version)
	}

	for i, s := range f.Structs {
		if s.Name == "" {
			return nil, fmt.Errorf("struct %d has no name", i)
		}
	}

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// Table builds the struct table. Pointer size and alignment cap come from
// opts when set, otherwise from the document.
func (f *File) Table(opts dna.Options) (*dna.Table, error) {
	if opts.PointerSize == 0 {
		opts.PointerSize = f.PointerSize
	}

	if opts.MaxAlign == 0 {
		opts.MaxAlign = f.MaxAlign
	}

	b := dna.NewBuilder()

	for _, s := range f.Structs {
		decls := make([]dna.Decl, len(s.Members))
		for i, m := range s.Members {
			decls[i] = dna.Decl{Type: m.Type, Name: m.Name}
		}

		b.StructDecls(s.Name, decls...)
	}

	for alias, stored := range f.Aliases.Structs {
		b.AliasStruct(alias, stored)
	}

	for structName, members := range f.Aliases.Members {
		for alias, stored := range members {
			b.AliasMember(structName, alias, stored)
		}
	}

	return b.Build(opts)
}

// FromTable describes every struct of t. Primitive spellings are written
// as stored in t.
func FromTable(t *dna.Table) *File {
	f := &File{
		Version:     CurrentVersion,
		PointerSize: t.PointerSize(),
		MaxAlign:    t.MaxAlign(),
		Structs:     make([]StructDef, t.NumStructs()),
	}

	for s := range t.NumStructs() {
		def := StructDef{Name: t.StructName(s), Members: make([]MemberDef, t.MemberCount(s))}
		for i := range t.MemberCount(s) {
			def.Members[i] = MemberDef{Type: t.MemberTypeName(s, i), Name: t.MemberAt(s, i).Name.Raw}
		}

		f.Structs[s] = def
	}

	a := t.Aliases()
	f.Aliases = AliasDefs{Structs: a.Structs, Members: a.Members}

	return f
}
