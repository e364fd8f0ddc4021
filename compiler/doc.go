// Package compiler turns a JSON Schema into TypeScript declarations.
//
// A compilation runs every stage in order on a private copy of the input:
//
//	resolve -> link -> validate -> normalize -> parse -> optimize -> generate
//
// Any failure stops the pipeline and no output is produced. Errors are the
// typed errors of package tserrors, so callers can branch with errors.Is:
//
//	ts, err := compiler.CompileFile(ctx, "schemas/pet.json",
//	    compiler.WithUnknownAny(false),
//	    compiler.WithStyle(generator.Style{UseTabs: true}),
//	)
//	if errors.Is(err, tserrors.ErrValidation) {
//	    ...
//	}
//
// Options are validated before any stage runs. Compilations share no state,
// so independent schemas may be compiled concurrently.
package compiler
