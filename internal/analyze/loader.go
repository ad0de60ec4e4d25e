package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"dnarecon/internal/schemafile"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedImports |
	packages.NeedDeps

// DefaultArch is the target whose layout is described when none is set.
const DefaultArch = "amd64"

// Config configures Load.
type Config struct {
	// Dir is the directory package patterns are resolved in.
	Dir string
	// Arch selects the gc layout, e.g. "amd64" or "386".
	Arch string
}

// SkippedStruct is an exported struct that cannot be described as DNA.
type SkippedStruct struct {
	Name   string
	Reason string
}

// Result is the table derived from the loaded packages.
type Result struct {
	File    *schemafile.File
	Skipped []SkippedStruct
}

// Load loads the packages matching patterns and describes their exported
// structs, plus any struct they embed by value from other packages.
func Load(cfg Config, patterns ...string) (*Result, error) {
	if cfg.Arch == "" {
		cfg.Arch = DefaultArch
	}

	sizes := types.SizesFor("gc", cfg.Arch)
	if sizes == nil {
		return nil, fmt.Errorf("unknown architecture %q", cfg.Arch)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: LoadMode, Dir: cfg.Dir}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	a := newAnalyzer(sizes)

	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}

			if named, ok := tn.Type().(*types.Named); ok {
				if err := a.enqueue(named); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := a.run(); err != nil {
		return nil, err
	}

	return a.result(), nil
}

// analyzer walks named struct types breadth first from the roots.
type analyzer struct {
	sizes types.Sizes

	queue   []*types.Named
	seen    map[string]*types.Named
	structs map[string]schemafile.StructDef
	order   []string
	skipped map[string]string
}

func newAnalyzer(sizes types.Sizes) *analyzer {
	return &analyzer{
		sizes:   sizes,
		seen:    make(map[string]*types.Named),
		structs: make(map[string]schemafile.StructDef),
		skipped: make(map[string]string),
	}
}

// enqueue schedules a named struct type. DNA names are unqualified, so two
// distinct types with one name cannot both be described.
func (a *analyzer) enqueue(named *types.Named) error {
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}

	name := named.Obj().Name()
	if prev, ok := a.seen[name]; ok {
		if prev.Obj() != named.Obj() {
			return fmt.Errorf("struct name %q is declared in both %s and %s",
				name, prev.Obj().Pkg().Path(), named.Obj().Pkg().Path())
		}

		return nil
	}

	a.seen[name] = named
	a.queue = append(a.queue, named)

	return nil
}

func (a *analyzer) run() error {
	for len(a.queue) > 0 {
		named := a.queue[0]
		a.queue = a.queue[1:]

		name := named.Obj().Name()

		if named.TypeParams().Len() > 0 {
			a.skipped[name] = "generic struct"
			continue
		}

		def, deps, err := a.describe(named)
		if err != nil {
			a.skipped[name] = err.Error()
			continue
		}

		for _, dep := range deps {
			if err := a.enqueue(dep); err != nil {
				return err
			}
		}

		a.structs[name] = def
		a.order = append(a.order, name)
	}

	a.pruneSkippedDeps()

	return nil
}

// pruneSkippedDeps removes structs that embed a skipped struct by value,
// until no such struct remains.
func (a *analyzer) pruneSkippedDeps() {
	for changed := true; changed; {
		changed = false

		for _, name := range a.order {
			def, ok := a.structs[name]
			if !ok {
				continue
			}

			for _, m := range def.Members {
				if reason, bad := a.skipped[m.Type]; bad && !isPointerName(m.Name) {
					a.skipped[name] = fmt.Sprintf("member %s embeds skipped struct %s (%s)", m.Name, m.Type, reason)
					delete(a.structs, name)
					changed = true

					break
				}
			}
		}
	}
}

func (a *analyzer) result() *Result {
	f := &schemafile.File{
		Version:     schemafile.CurrentVersion,
		PointerSize: int(a.sizes.Sizeof(types.Typ[types.UnsafePointer])),
		MaxAlign:    int(a.sizes.Alignof(types.Typ[types.Int64])),
	}

	for _, name := range a.order {
		if def, ok := a.structs[name]; ok {
			f.Structs = append(f.Structs, def)
		}
	}

	res := &Result{File: f}

	for name, reason := range a.skipped {
		res.Skipped = append(res.Skipped, SkippedStruct{Name: name, Reason: reason})
	}

	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Name < res.Skipped[j].Name })

	return res
}
