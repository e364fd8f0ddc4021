package resolver

import (
	"context"
	"net/http"

	"github.com/erraggy/json2ts"
)

const (
	// MaxRefDepth is the default limit on chained $ref hops.
	MaxRefDepth = 100

	// MaxCachedDocuments is the default limit on external documents
	// loaded during one resolution.
	MaxCachedDocuments = 100

	// MaxFileSize is the default limit, in bytes, on external documents.
	MaxFileSize = 10 * 1024 * 1024
)

// Fetcher retrieves the body of an HTTP(S) URL.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// Options configures a resolution.
type Options struct {
	// Cwd is the directory file refs are resolved against. It also bounds
	// them: a file ref resolving outside Cwd is rejected.
	Cwd string

	// Location is the path or URL of the root document, if it has one.
	// Relative refs inside the root are resolved against it.
	Location string

	// ResolveHTTPRefs enables http:// and https:// references.
	ResolveHTTPRefs bool

	// HTTPClient is used by the default fetcher. A client with a 30s
	// timeout is used when nil.
	HTTPClient *http.Client

	// UserAgent is sent by the default fetcher.
	UserAgent string

	// Fetcher replaces the default HTTP fetcher.
	Fetcher Fetcher

	// MaxRefDepth, MaxCachedDocuments and MaxFileSize override the package
	// defaults when positive.
	MaxRefDepth        int
	MaxCachedDocuments int
	MaxFileSize        int64

	Logger json2ts.Logger
}

func (o *Options) refDepth() int {
	if o.MaxRefDepth > 0 {
		return o.MaxRefDepth
	}
	return MaxRefDepth
}

func (o *Options) cachedDocuments() int {
	if o.MaxCachedDocuments > 0 {
		return o.MaxCachedDocuments
	}
	return MaxCachedDocuments
}

func (o *Options) fileSize() int64 {
	if o.MaxFileSize > 0 {
		return o.MaxFileSize
	}
	return MaxFileSize
}
