package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/compiler"
	"github.com/erraggy/json2ts/internal/cliutil"
	"github.com/erraggy/json2ts/schema"
)

// ErrInvalidSchema is returned by HandleValidate when the schema breaks at
// least one rule. The violations have already been printed.
var ErrInvalidSchema = errors.New("schema is invalid")

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Quiet           bool
	Format          string
	Name            string
	ResolveHTTPRefs bool
	Verbose         bool
}

// ValidateReport is the structured output of the validate command.
type ValidateReport struct {
	Schema     string               `json:"schema" yaml:"schema"`
	Valid      bool                 `json:"valid" yaml:"valid"`
	Violations []compiler.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Name, "name", "", "file name reported in violations (default: the file's base name)")
	fs.BoolVar(&flags.ResolveHTTPRefs, "resolve-http-refs", false, "resolve http:// and https:// $ref targets")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log pipeline stages to stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: json2ts validate [flags] <file|->\n\n")
		Writef(fs.Output(), "Check a JSON Schema file or stdin against the rules the compiler enforces.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput Formats:\n")
		Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  json2ts validate person.json\n")
		Writef(fs.Output(), "  cat schema.yaml | json2ts validate -q -\n")
		Writef(fs.Output(), "  json2ts validate --format json schema.json | jq '.valid'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Validation successful\n")
		Writef(fs.Output(), "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	// Fail fast before reading anything
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	opts := []compiler.Option{compiler.WithResolveHTTPRefs(flags.ResolveHTTPRefs)}
	if flags.Verbose {
		opts = append(opts, compiler.WithLogger(verboseLogger()))
	}

	ctx := context.Background()
	startTime := time.Now()
	var violations []compiler.Violation
	var err error
	switch {
	case specPath == StdinFilePath:
		violations, err = validateStdin(ctx, flags.Name, opts)
	case flags.Name != "":
		violations, err = validateFileAs(ctx, specPath, flags.Name, opts)
	default:
		violations, err = compiler.ValidateFile(ctx, specPath, opts...)
	}
	if err != nil {
		return fmt.Errorf("validating %s: %w", FormatSpecPath(specPath), err)
	}
	totalTime := time.Since(startTime)

	report := ValidateReport{Schema: FormatSpecPath(specPath), Valid: len(violations) == 0, Violations: violations}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
		if !report.Valid {
			return ErrInvalidSchema
		}
		return nil
	}

	if !flags.Quiet {
		cliutil.Heading(stderr, "JSON Schema Validator")
		Writef(stderr, "json2ts version: %s\n", json2ts.Version())
		Writef(stderr, "Schema: %s\n", report.Schema)
		Writef(stderr, "Total Time: %v\n\n", totalTime)

		if len(violations) > 0 {
			Writef(stderr, "Errors (%d):\n", len(violations))
			for _, v := range violations {
				Writef(stderr, "  ✗ %s: %s\n", v.Path, v.Rule)
			}
			Writef(stderr, "\n")
			Writef(stderr, "✗ Validation failed: %d error(s)\n", len(violations))
		} else {
			Writef(stderr, "✓ Validation passed\n")
		}
	}

	if !report.Valid {
		return ErrInvalidSchema
	}
	return nil
}

func validateStdin(ctx context.Context, name string, opts []compiler.Option) ([]compiler.Violation, error) {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if name == "" {
		name = "schema"
	}
	return validateBytes(ctx, data, name, opts)
}

func validateFileAs(ctx context.Context, path, name string, opts []compiler.Option) ([]compiler.Violation, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	opts = append([]compiler.Option{compiler.WithCwd(filepath.Dir(path))}, opts...)
	return validateBytes(ctx, data, name, opts)
}

func validateBytes(ctx context.Context, data []byte, name string, opts []compiler.Option) ([]compiler.Violation, error) {
	s, err := schema.DecodeSchema(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return compiler.Validate(ctx, s, name, opts...)
}
