// Package main provides the CLI entrypoint for dnarecon.
//
// dnarecon reconciles stored struct definitions with current ones:
//   - Inspects and encodes struct tables (YAML schemas or SDNA blobs)
//   - Compares an old table against a new one
//   - Prints the reconstruction plan of a struct
//   - Reconstructs stored instances into the current layout
//   - Derives a schema from Go struct declarations
package main

func main() {
	execute()
}
