package compiler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/generator"
	"github.com/erraggy/json2ts/internal/testutil"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

type fixtureOptions struct {
	AdditionalProperties          *bool `json:"additionalProperties"`
	DeclareExternallyReferenced   *bool `json:"declareExternallyReferenced"`
	EnableConstEnums              *bool `json:"enableConstEnums"`
	IgnoreMinAndMaxItems          bool  `json:"ignoreMinAndMaxItems"`
	MaxItems                      *int  `json:"maxItems"`
	StrictIndexSignatures         bool  `json:"strictIndexSignatures"`
	UnreachableDefinitions        bool  `json:"unreachableDefinitions"`
	UnknownAny                    *bool `json:"unknownAny"`
	InferStringEnumKeysFromValues bool  `json:"inferStringEnumKeysFromValues"`
}

func (f fixtureOptions) apply() []Option {
	opts := []Option{
		WithBannerComment(""),
		WithIgnoreMinAndMaxItems(f.IgnoreMinAndMaxItems),
		WithStrictIndexSignatures(f.StrictIndexSignatures),
		WithUnreachableDefinitions(f.UnreachableDefinitions),
		WithInferStringEnumKeysFromValues(f.InferStringEnumKeysFromValues),
	}
	if f.AdditionalProperties != nil {
		opts = append(opts, WithAdditionalProperties(*f.AdditionalProperties))
	}
	if f.DeclareExternallyReferenced != nil {
		opts = append(opts, WithDeclareExternallyReferenced(*f.DeclareExternallyReferenced))
	}
	if f.EnableConstEnums != nil {
		opts = append(opts, WithEnableConstEnums(*f.EnableConstEnums))
	}
	if f.MaxItems != nil {
		opts = append(opts, WithMaxItems(*f.MaxItems))
	}
	if f.UnknownAny != nil {
		opts = append(opts, WithUnknownAny(*f.UnknownAny))
	}
	return opts
}

func TestCompileFixtures(t *testing.T) {
	for _, c := range testutil.LoadCases(t, "testdata") {
		t.Run(c.Name, func(t *testing.T) {
			var fo fixtureOptions
			if c.Has("options.json") {
				require.NoError(t, json.Unmarshal(c.File("options.json"), &fo))
			}
			name := c.Name + ".json"
			if c.Has("name") {
				name = c.Text("name")
			}
			doc := c.File("schema.json")
			if doc == nil {
				doc = c.File("schema.yaml")
			}
			require.NotNil(t, doc, "fixture needs schema.json or schema.yaml")

			got, err := CompileBytes(context.Background(), doc, name, fo.apply()...)
			require.NoError(t, err, c.Comment)
			assert.Equal(t, string(c.File("want.ts")), got, c.Comment)
		})
	}
}

func TestCompileDefaultBanner(t *testing.T) {
	got, err := CompileBytes(context.Background(), []byte(`{"type": "string"}`), "Name")
	require.NoError(t, err)
	assert.Equal(t, DefaultBannerComment+"\n\nexport type Name = string;\n", got)
}

func TestCompileDoesNotMutateInput(t *testing.T) {
	s, err := schema.DecodeSchema([]byte(`{
		"type": "object",
		"properties": {"a": {"$ref": "#/definitions/A"}},
		"definitions": {"A": {"type": "array", "items": {"type": "string"}, "maxItems": 2}}
	}`))
	require.NoError(t, err)
	before, err := s.MarshalJSON()
	require.NoError(t, err)

	_, err = Compile(context.Background(), s, "Thing")
	require.NoError(t, err)

	after, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.False(t, s.Linked())
}

func TestCompileConcurrent(t *testing.T) {
	s, err := schema.DecodeSchema([]byte(`{"$id": "Node", "type": "object", "properties": {"next": {"$ref": "#"}}}`))
	require.NoError(t, err)

	want, err := Compile(context.Background(), s, "Node")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = Compile(context.Background(), s, "Node")
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tag.json"), []byte(`{"type": "string", "enum": ["a", "b"]}`), 0o600))
	path := filepath.Join(dir, "pet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"title": "Pet",
		"type": "object",
		"properties": {"tag": {"$ref": "tag.json"}},
		"required": ["tag"],
		"additionalProperties": false
	}`), 0o600))

	got, err := CompileFile(context.Background(), path, WithBannerComment(""))
	require.NoError(t, err)
	assert.Equal(t, "export interface Pet {\n  tag: (\"a\" | \"b\");\n}\n", got)

	t.Run("name from file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "line-item.yaml", []byte("type: object\nadditionalProperties: false\n"))
		got, err := CompileFile(context.Background(), path, WithBannerComment(""))
		require.NoError(t, err)
		assert.Equal(t, "export interface LineItem {}\n", got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := CompileFile(context.Background(), filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, tserrors.ErrParse)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := CompileFile(context.Background(), path, WithRefOptions(RefOptions{MaxFileSize: 8}))
		assert.ErrorIs(t, err, tserrors.ErrResourceLimit)
	})
}

func TestCompileHTTPRefs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/money.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"title": "Money", "type": "object", "properties": {"amount": {"type": "number"}}, "required": ["amount"], "additionalProperties": false}`))
	}))
	defer srv.Close()

	doc := []byte(`{"title": "Invoice", "type": "object", "properties": {"total": {"$ref": "` + srv.URL + `/money.json"}}, "additionalProperties": false}`)

	got, err := CompileBytes(context.Background(), doc, "invoice.json",
		WithBannerComment(""),
		WithResolveHTTPRefs(true),
		WithHTTPClient(srv.Client()),
		WithCwd(t.TempDir()),
	)
	require.NoError(t, err)
	assert.Equal(t, "export interface Invoice {\n  total?: Money;\n}\n\nexport interface Money {\n  amount: number;\n}\n", got)

	_, err = CompileBytes(context.Background(), doc, "invoice.json", WithCwd(t.TempDir()))
	assert.ErrorIs(t, err, tserrors.ErrReference, "HTTP refs are off by default")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		opts   []Option
		target error
	}{
		{
			name:   "malformed document",
			doc:    `{"type": `,
			target: tserrors.ErrParse,
		},
		{
			name:   "unresolvable ref",
			doc:    `{"properties": {"a": {"$ref": "#/$defs/Missing"}}}`,
			target: tserrors.ErrReference,
		},
		{
			name:   "id conflict",
			doc:    `{"id": "A", "$id": "B", "type": "string"}`,
			target: tserrors.ErrReference,
		},
		{
			name:   "rule violation",
			doc:    `{"enum": [1, 2], "tsEnumNames": ["One"]}`,
			target: tserrors.ErrValidation,
		},
		{
			name:   "maxItems below -1",
			doc:    `{"type": "string"}`,
			opts:   []Option{WithMaxItems(-2)},
			target: tserrors.ErrConfig,
		},
		{
			name:   "indent too wide",
			doc:    `{"type": "string"}`,
			opts:   []Option{WithStyle(generator.Style{IndentWidth: 17})},
			target: tserrors.ErrConfig,
		},
		{
			name:   "cwd is not a directory",
			doc:    `{"type": "string"}`,
			opts:   []Option{WithCwd(filepath.Join(t.TempDir(), "missing"))},
			target: tserrors.ErrConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileBytes(context.Background(), []byte(tt.doc), "bad.json", tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, got)
		})
	}
}

func TestCompileAggregatesViolations(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {
			"a": {"enum": [1, 2], "tsEnumNames": ["One"]},
			"b": {"type": "array", "minItems": 3, "maxItems": 1}
		}
	}`
	_, err := CompileBytes(context.Background(), []byte(doc), "bad.json")
	require.Error(t, err)

	var vErr *tserrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		`Error at key "a" in file "bad.json": Enum members and tsEnumNames must be of the same length`,
		`Error at key "b" in file "bad.json": When both maxItems and minItems are present, maxItems >= minItems`,
	}, vErr.Violations)
}

func TestValidate(t *testing.T) {
	s, err := schema.DecodeSchema([]byte(`{"properties": {"a": {"minItems": -1, "type": "array"}}}`))
	require.NoError(t, err)

	got, err := Validate(context.Background(), s, "list.json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Violation{
		Path: "#/properties/a",
		Key:  "a",
		File: "list.json",
		Rule: "When minItems exists, minItems >= 0",
	}, got[0])
	assert.Equal(t, `Error at key "a" in file "list.json": When minItems exists, minItems >= 0`, got[0].Message())

	t.Run("valid", func(t *testing.T) {
		s, err := schema.DecodeSchema([]byte(`{"type": "string"}`))
		require.NoError(t, err)
		got, err := Validate(context.Background(), s, "ok.json")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "enum.json", []byte(`{"enum": ["x"], "tsEnumNames": [1]}`))
		got, err := ValidateFile(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "tsEnumNames must be an array of strings", got[0].Rule)
	})
}

func TestCompileCustomName(t *testing.T) {
	doc := []byte(`{"type": "object", "properties": {"c": {"$ref": "#/$defs/color"}}, "additionalProperties": false,
		"$defs": {"color": {"type": "string", "enum": ["red"]}}}`)

	got, err := CompileBytes(context.Background(), doc, "palette.json",
		WithBannerComment(""),
		WithCustomName(func(s *schema.Schema, def string) string {
			if def != "" {
				return "Custom " + def
			}
			return ""
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "export type CustomColor = \"red\";\n\nexport interface Palette {\n  c?: CustomColor;\n}\n", got)
}

type reflectedAddress struct {
	Street string `json:"street"`
	Zip    int    `json:"zip,omitempty"`
}

func TestCompileReflectedSchema(t *testing.T) {
	js := &jsonschema.Schema{
		Type:  "object",
		Title: "Address",
		Properties: map[string]*jsonschema.Schema{
			"street": {Type: "string", Description: "Street and number."},
			"zip":    {Type: "integer"},
			"tags":   {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"street"},
	}
	data, err := json.Marshal(js)
	require.NoError(t, err)

	got, err := CompileBytes(context.Background(), data, "address.json", WithBannerComment(""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "export interface Address {\n"), got)
	assert.Contains(t, got, "  /**\n   * Street and number.\n   */\n  street: string;\n")
	assert.Contains(t, got, "  zip?: number;\n")
	assert.Contains(t, got, "  tags?: string[];\n")
	assert.Contains(t, got, "  [k: string]: unknown;\n")

	t.Run("inferred from a Go type", func(t *testing.T) {
		js, err := jsonschema.For[reflectedAddress](nil)
		require.NoError(t, err)
		data, err := json.Marshal(js)
		require.NoError(t, err)

		got, err := CompileBytes(context.Background(), data, "ReflectedAddress", WithBannerComment(""))
		require.NoError(t, err)
		assert.Contains(t, got, "export interface ReflectedAddress {\n")
		assert.Contains(t, got, "  street: string;\n")
		assert.Contains(t, got, "  zip?: number;\n")
	})
}

func TestCompileWithLogger(t *testing.T) {
	var rec recordingLogger
	_, err := CompileBytes(context.Background(), []byte(`{"type": "string"}`), "Name", WithLogger(&rec))
	require.NoError(t, err)

	stages := rec.stages()
	for _, stage := range []string{"resolve", "link", "validate", "normalize", "parse", "optimize", "generate"} {
		assert.Contains(t, stages, stage)
	}
}

// recordingLogger collects the "stage" attribute of every derived logger.
type recordingLogger struct {
	mu   sync.Mutex
	with []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) With(attrs ...any) json2ts.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == "stage" {
			l.with = append(l.with, attrs[i+1].(string))
		}
	}
	return l
}

func (l *recordingLogger) stages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.with...)
}
