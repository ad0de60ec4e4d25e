// Package compare decides, for every struct of an old table, whether the
// new table stores it byte-for-byte identically (Equal), under the same
// name with a different shape (NotEqual), or not at all (Removed).
//
// Embedded structs are evaluated before the structs that contain them, so
// a containing struct is Equal only when every embedded struct is Equal.
// Pointer members are leaves and are never followed.
package compare
