// Package pathutil builds and splits JSON Pointer paths for schema traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics so a
// recursive walk can track where it is without allocating a string per
// level. Call String() only when a path is reported:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.Push("name")
//	path.String() // "#/properties/name"
//
// [SplitRef] and [ParsePointer] take apart $ref values.
package pathutil
