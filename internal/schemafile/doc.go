// Package schemafile reads and writes struct tables as YAML, the form used
// to describe the current layout without a compiled blob:
//
//	version: "1"
//	pointer_size: 8
//	structs:
//	  - name: Link
//	    members:
//	      - Link *next
//	      - {type: Link, name: "*prev"}
//	aliases:
//	  structs: {Bone: bBone}
//	  members: {Object: {visibility_flag: restrictflag}}
package schemafile
