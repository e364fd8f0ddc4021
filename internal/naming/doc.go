// Package naming turns arbitrary schema titles, ids and file names into
// TypeScript identifiers.
//
// ToSafeString is pure and memoized process-wide. GenerateName is not: it
// consults and extends a per-compile set of names already handed out, so
// two schemas titled "Pet" become Pet and Pet1.
package naming
