// Package diagnostic collects the warnings raised while comparing and
// planning two struct tables: removed structs, structs that cannot be laid
// out, and members that are dropped or zero-filled during reconstruction.
package diagnostic
