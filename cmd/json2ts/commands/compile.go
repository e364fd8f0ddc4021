package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/compiler"
	"github.com/erraggy/json2ts/generator"
	"github.com/erraggy/json2ts/internal/fileutil"
)

// CompileFlags contains flags for the compile command
type CompileFlags struct {
	Output  string
	Name    string
	Cwd     string
	Verbose bool

	BannerComment                 string
	NoBanner                      bool
	AdditionalProperties          bool
	DeclareExternallyReferenced   bool
	EnableConstEnums              bool
	Format                        bool
	IgnoreMinAndMaxItems          bool
	MaxItems                      int
	StrictIndexSignatures         bool
	UnreachableDefinitions        bool
	UnknownAny                    bool
	InferStringEnumKeysFromValues bool
	EndOfDeclarationComments      bool
	IndentWidth                   int
	UseTabs                       bool

	ResolveHTTPRefs bool
	MaxRefDepth     int
}

// SetupCompileFlags creates and configures a FlagSet for the compile command.
// Returns the FlagSet and a CompileFlags struct with bound flag variables.
func SetupCompileFlags() (*flag.FlagSet, *CompileFlags) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	flags := &CompileFlags{}
	defaults := compiler.DefaultOptions()

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Name, "name", "", "name of the root type when the schema has no title or $id (default: file name)")
	fs.StringVar(&flags.Cwd, "cwd", "", "directory relative $ref paths resolve against (default: the schema's directory)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log pipeline stages to stderr")

	fs.StringVar(&flags.BannerComment, "banner-comment", defaults.BannerComment, "comment written above the declarations")
	fs.BoolVar(&flags.NoBanner, "no-banner", false, "omit the banner comment")
	fs.BoolVar(&flags.AdditionalProperties, "additional-properties", defaults.AdditionalProperties, "default additionalProperties for object schemas")
	fs.BoolVar(&flags.DeclareExternallyReferenced, "declare-externally-referenced", defaults.DeclareExternallyReferenced, "declare named types other than the root")
	fs.BoolVar(&flags.EnableConstEnums, "enable-const-enums", defaults.EnableConstEnums, "emit const enums")
	fs.BoolVar(&flags.Format, "format", defaults.Format, "format the output")
	fs.BoolVar(&flags.IgnoreMinAndMaxItems, "ignore-min-and-max-items", defaults.IgnoreMinAndMaxItems, "ignore minItems and maxItems")
	fs.IntVar(&flags.MaxItems, "max-items", defaults.MaxItems, "largest tuple length generated from maxItems (-1 for no limit)")
	fs.BoolVar(&flags.StrictIndexSignatures, "strict-index-signatures", defaults.StrictIndexSignatures, "add | undefined to index signatures")
	fs.BoolVar(&flags.UnreachableDefinitions, "unreachable-definitions", defaults.UnreachableDefinitions, "declare $defs entries nothing references")
	fs.BoolVar(&flags.UnknownAny, "unknown-any", defaults.UnknownAny, "use unknown instead of any")
	fs.BoolVar(&flags.InferStringEnumKeysFromValues, "infer-string-enum-keys", defaults.InferStringEnumKeysFromValues, "name string enum members after their values")
	fs.BoolVar(&flags.EndOfDeclarationComments, "end-of-declaration-comments", defaults.EndOfDeclarationComments, "append // end of <Name> after long declarations")
	fs.IntVar(&flags.IndentWidth, "indent", defaults.Style.IndentWidth, "spaces per indentation level")
	fs.BoolVar(&flags.UseTabs, "tabs", defaults.Style.UseTabs, "indent with tabs")

	fs.BoolVar(&flags.ResolveHTTPRefs, "resolve-http-refs", false, "resolve http:// and https:// $ref targets")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", 0, "maximum $ref nesting depth (0 for the default)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: json2ts compile [flags] <file|->\n\n")
		Writef(fs.Output(), "Compile a JSON Schema file or stdin into TypeScript declarations.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  json2ts compile person.json\n")
		Writef(fs.Output(), "  json2ts compile -o person.d.ts person.yaml\n")
		Writef(fs.Output(), "  json2ts compile --unknown-any=false --no-banner schema.json\n")
		Writef(fs.Output(), "  cat schema.json | json2ts compile --name Config -\n")
		Writef(fs.Output(), "\nPipelining:\n")
		Writef(fs.Output(), "  - Use '-' as the file path to read from stdin\n")
		Writef(fs.Output(), "  - Declarations go to stdout unless -o is given\n")
	}

	return fs, flags
}

// CompilerOptions converts the flags into compiler options.
func (f *CompileFlags) CompilerOptions() []compiler.Option {
	banner := f.BannerComment
	if f.NoBanner {
		banner = ""
	}
	opts := []compiler.Option{
		compiler.WithBannerComment(banner),
		compiler.WithAdditionalProperties(f.AdditionalProperties),
		compiler.WithDeclareExternallyReferenced(f.DeclareExternallyReferenced),
		compiler.WithEnableConstEnums(f.EnableConstEnums),
		compiler.WithFormat(f.Format),
		compiler.WithIgnoreMinAndMaxItems(f.IgnoreMinAndMaxItems),
		compiler.WithMaxItems(f.MaxItems),
		compiler.WithStrictIndexSignatures(f.StrictIndexSignatures),
		compiler.WithUnreachableDefinitions(f.UnreachableDefinitions),
		compiler.WithUnknownAny(f.UnknownAny),
		compiler.WithInferStringEnumKeysFromValues(f.InferStringEnumKeysFromValues),
		compiler.WithEndOfDeclarationComments(f.EndOfDeclarationComments),
		compiler.WithStyle(generator.Style{IndentWidth: f.IndentWidth, UseTabs: f.UseTabs}),
		compiler.WithResolveHTTPRefs(f.ResolveHTTPRefs),
	}
	if f.MaxRefDepth != 0 {
		opts = append(opts, func(o *compiler.Options) error {
			o.RefOptions.MaxRefDepth = f.MaxRefDepth
			return nil
		})
	}
	if f.Cwd != "" {
		opts = append(opts, compiler.WithCwd(f.Cwd))
	}
	if f.Verbose {
		opts = append(opts, compiler.WithLogger(verboseLogger()))
	}
	return opts
}

func verboseLogger() json2ts.Logger {
	return json2ts.NewSlogAdapter(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// HandleCompile executes the compile command
func HandleCompile(args []string) error {
	fs, flags := SetupCompileFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("compile command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, specPath); err != nil {
			return err
		}
	}

	ctx := context.Background()
	opts := flags.CompilerOptions()

	var ts string
	var err error
	switch {
	case specPath == StdinFilePath:
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		name := flags.Name
		if name == "" {
			name = "schema"
		}
		ts, err = compiler.CompileBytes(ctx, data, name, opts...)
	case flags.Name != "":
		ts, err = compileFileAs(ctx, specPath, flags.Name, opts)
	default:
		ts, err = compiler.CompileFile(ctx, specPath, opts...)
	}
	if err != nil {
		return fmt.Errorf("compiling %s: %w", FormatSpecPath(specPath), err)
	}

	if flags.Output == "" {
		Writef(stdout, "%s", ts)
		return nil
	}
	written, err := fileutil.WriteGenerated(flags.Output, []byte(ts))
	if err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	Writef(stderr, "Wrote %s\n", written)
	return nil
}

// compileFileAs compiles the file under an explicit root name. Relative
// references resolve against the file's directory unless --cwd is given.
func compileFileAs(ctx context.Context, path, name string, opts []compiler.Option) (string, error) {
	data, err := readInput(path)
	if err != nil {
		return "", err
	}
	opts = append([]compiler.Option{compiler.WithCwd(filepath.Dir(path))}, opts...)
	return compiler.CompileBytes(ctx, data, name, opts...)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided CLI input
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
