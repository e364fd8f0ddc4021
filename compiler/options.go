package compiler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/generator"
	"github.com/erraggy/json2ts/resolver"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

// DefaultBannerComment is prepended to the output unless replaced.
const DefaultBannerComment = `/* eslint-disable */
/**
* This file was automatically generated by json2ts.
* DO NOT MODIFY IT BY HAND. Instead, modify the source JSONSchema file,
* and run json2ts to regenerate this file.
*/`

var validate = validator.New()

// RefOptions is passed through to the resolver.
type RefOptions struct {
	// ResolveHTTPRefs enables http:// and https:// references.
	// Default: false
	ResolveHTTPRefs bool

	// HTTPClient is used to fetch HTTP references. A client with a 30s
	// timeout is used when nil.
	HTTPClient *http.Client `validate:"-"`

	// UserAgent is sent with HTTP requests.
	// Default: "json2ts/vX.Y.Z"
	UserAgent string

	// Fetcher replaces the built-in HTTP fetcher.
	Fetcher resolver.Fetcher `validate:"-"`

	// Resource limits (0 means use the resolver default)
	MaxRefDepth        int   `validate:"gte=0"`
	MaxCachedDocuments int   `validate:"gte=0"`
	MaxFileSize        int64 `validate:"gte=0"`
}

// Options configures a compilation.
type Options struct {
	RefOptions RefOptions

	// AdditionalProperties is the default for object schemas that do not
	// set additionalProperties.
	// Default: true
	AdditionalProperties bool

	// BannerComment is written above the declarations. Empty disables it.
	BannerComment string

	// Cwd is the directory relative file references are resolved
	// against. Default: the process working directory.
	Cwd string

	// DeclareExternallyReferenced declares every named type reached from
	// the root, not only the root itself.
	// Default: true
	DeclareExternallyReferenced bool

	// EnableConstEnums emits "const enum" instead of "enum".
	// Default: true
	EnableConstEnums bool

	// Format re-indents the output with Style.
	// Default: true
	Format bool

	// IgnoreMinAndMaxItems drops array bounds instead of expanding tuples.
	IgnoreMinAndMaxItems bool

	// MaxItems caps how many tuple lengths one array may fan out to.
	// -1 disables the cap.
	// Default: 20
	MaxItems int `validate:"gte=-1"`

	// StrictIndexSignatures adds "| undefined" to index signatures.
	StrictIndexSignatures bool

	// UnreachableDefinitions declares $defs entries nothing references.
	UnreachableDefinitions bool

	// UnknownAny uses unknown instead of any for untyped schemas.
	// Default: true
	UnknownAny bool

	// InferStringEnumKeysFromValues names string enum members after their
	// values when tsEnumNames is absent.
	InferStringEnumKeysFromValues bool

	// EndOfDeclarationComments appends "// end of <Name>" after long
	// declarations.
	EndOfDeclarationComments bool

	// CustomName is asked first for every standalone name. Returning ""
	// falls back to title, $id and the $defs key.
	CustomName func(s *schema.Schema, keyNameFromDefinition string) string `validate:"-"`

	Style generator.Style

	Logger json2ts.Logger `validate:"-"`
}

// Option is a function that configures a compilation
type Option func(*Options) error

// DefaultOptions returns the options a compilation starts from.
func DefaultOptions() Options {
	return Options{
		RefOptions:                  RefOptions{UserAgent: json2ts.UserAgent()},
		AdditionalProperties:        true,
		BannerComment:               DefaultBannerComment,
		DeclareExternallyReferenced: true,
		EnableConstEnums:            true,
		Format:                      true,
		MaxItems:                    20,
		UnknownAny:                  true,
		Style:                       generator.DefaultStyle(),
	}
}

// applyOptions applies option functions to the defaults and validates the
// result.
func applyOptions(opts ...Option) (*Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values. Failures are *tserrors.ConfigError,
// joined when there is more than one.
func (o *Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return &tserrors.ConfigError{Message: "invalid options", Cause: err}
	}
	errs := make([]error, 0, len(valErrs))
	for _, ve := range valErrs {
		errs = append(errs, &tserrors.ConfigError{
			Option:  optionName(ve),
			Value:   ve.Value(),
			Message: formatValidationError(ve),
		})
	}
	return errors.Join(errs...)
}

// optionName is the field path below Options, e.g. "Style.IndentWidth".
func optionName(ve validator.FieldError) string {
	ns := ve.StructNamespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// WithOptions replaces every option at once. Later options still apply
// on top of it.
func WithOptions(o Options) Option {
	return func(cfg *Options) error {
		*cfg = o
		return nil
	}
}

// WithRefOptions sets the options passed to the resolver
func WithRefOptions(r RefOptions) Option {
	return func(cfg *Options) error {
		cfg.RefOptions = r
		return nil
	}
}

// WithResolveHTTPRefs enables or disables http:// and https:// references
// Default: false
func WithResolveHTTPRefs(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.RefOptions.ResolveHTTPRefs = enabled
		return nil
	}
}

// WithHTTPClient sets the client used for HTTP references. A nil client
// has no effect.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *Options) error {
		if client != nil {
			cfg.RefOptions.HTTPClient = client
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "json2ts/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *Options) error {
		cfg.RefOptions.UserAgent = ua
		return nil
	}
}

// WithFetcher replaces the HTTP fetcher, e.g. to serve references from
// memory in tests.
func WithFetcher(f resolver.Fetcher) Option {
	return func(cfg *Options) error {
		if f == nil {
			return &tserrors.ConfigError{Option: "RefOptions.Fetcher", Message: "fetcher cannot be nil"}
		}
		cfg.RefOptions.Fetcher = f
		return nil
	}
}

// WithAdditionalProperties sets the default for object schemas
// Default: true
func WithAdditionalProperties(allowed bool) Option {
	return func(cfg *Options) error {
		cfg.AdditionalProperties = allowed
		return nil
	}
}

// WithBannerComment sets the text written above the declarations
func WithBannerComment(banner string) Option {
	return func(cfg *Options) error {
		cfg.BannerComment = banner
		return nil
	}
}

// WithCwd sets the directory relative file references are resolved
// against. The directory must exist.
func WithCwd(dir string) Option {
	return func(cfg *Options) error {
		info, err := os.Stat(dir)
		if err != nil {
			return &tserrors.ConfigError{Option: "Cwd", Value: dir, Cause: err}
		}
		if !info.IsDir() {
			return &tserrors.ConfigError{Option: "Cwd", Value: dir, Message: "not a directory"}
		}
		cfg.Cwd = dir
		return nil
	}
}

// WithDeclareExternallyReferenced controls whether named types other
// than the root are declared
// Default: true
func WithDeclareExternallyReferenced(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.DeclareExternallyReferenced = enabled
		return nil
	}
}

// WithEnableConstEnums emits "const enum" declarations
// Default: true
func WithEnableConstEnums(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.EnableConstEnums = enabled
		return nil
	}
}

// WithFormat enables or disables output formatting
// Default: true
func WithFormat(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.Format = enabled
		return nil
	}
}

// WithIgnoreMinAndMaxItems drops minItems and maxItems
// Default: false
func WithIgnoreMinAndMaxItems(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.IgnoreMinAndMaxItems = enabled
		return nil
	}
}

// WithMaxItems caps tuple fan-out; -1 disables the cap
// Default: 20
func WithMaxItems(n int) Option {
	return func(cfg *Options) error {
		cfg.MaxItems = n
		return nil
	}
}

// WithStrictIndexSignatures adds "| undefined" to index signatures
// Default: false
func WithStrictIndexSignatures(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.StrictIndexSignatures = enabled
		return nil
	}
}

// WithUnreachableDefinitions declares $defs entries nothing references
// Default: false
func WithUnreachableDefinitions(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.UnreachableDefinitions = enabled
		return nil
	}
}

// WithUnknownAny uses unknown instead of any for untyped schemas
// Default: true
func WithUnknownAny(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.UnknownAny = enabled
		return nil
	}
}

// WithInferStringEnumKeysFromValues names string enum members after their
// values
// Default: false
func WithInferStringEnumKeysFromValues(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.InferStringEnumKeysFromValues = enabled
		return nil
	}
}

// WithEndOfDeclarationComments marks the end of long declarations
// Default: false
func WithEndOfDeclarationComments(enabled bool) Option {
	return func(cfg *Options) error {
		cfg.EndOfDeclarationComments = enabled
		return nil
	}
}

// WithCustomName installs a naming hook consulted before title and $id.
func WithCustomName(fn func(s *schema.Schema, keyNameFromDefinition string) string) Option {
	return func(cfg *Options) error {
		cfg.CustomName = fn
		return nil
	}
}

// WithStyle sets indentation for formatted output
func WithStyle(style generator.Style) Option {
	return func(cfg *Options) error {
		cfg.Style = style
		return nil
	}
}

// WithLogger sets the logger every stage reports to
// Default: no logging
func WithLogger(l json2ts.Logger) Option {
	return func(cfg *Options) error {
		cfg.Logger = l
		return nil
	}
}
