// Package json2ts compiles JSON Schema documents into TypeScript type
// declarations.
//
// The compiler is a forward-only pipeline of small packages, each usable on
// its own:
//
//   - resolver: dereference every $ref (local, file and optionally HTTP)
//   - linker: attach parent links to every schema node
//   - validator: collect structural violations into one report
//   - normalizer: apply the ordered rewrite rule table
//   - parser: classify schema nodes and build the AST
//   - optimizer: simplify unions and intersections
//   - generator: render declarations and format the output
//
// Most callers only need the compiler package:
//
//	import "github.com/erraggy/json2ts/compiler"
//
//	ts, err := compiler.CompileFile(ctx, "widget.json",
//		compiler.WithBannerComment(""),
//		compiler.WithUnknownAny(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(ts)
//
// # Logging
//
// Every stage logs through the [Logger] interface. The default is
// [NopLogger]; wrap a *slog.Logger with [NewSlogAdapter] to see what each
// stage did:
//
//	logger := json2ts.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//	ts, err := compiler.Compile(ctx, s, "Widget", compiler.WithLogger(logger))
//
// # Errors
//
// Failures are reported with the typed errors of the tserrors package and
// can be matched with errors.Is against tserrors.ErrReference,
// tserrors.ErrValidation, tserrors.ErrConfig and friends.
package json2ts
