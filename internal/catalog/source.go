package catalog

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// Format is the encoding of a catalog document.
type Format int

// Supported catalog formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatForPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Source fetches the raw catalog document.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	// Format reports how Fetch's bytes are encoded.
	Format() Format
	// Fetch retrieves the document once.
	Fetch(ctx context.Context) ([]byte, error)
}

// OpenOption customizes sources created by OpenSource.
type OpenOption func(*openOptions)

type openOptions struct {
	httpClient *http.Client
	s3Client   S3API
}

// WithHTTPClient sets the client used by HTTP sources.
func WithHTTPClient(client *http.Client) OpenOption {
	return func(o *openOptions) { o.httpClient = client }
}

// WithS3Client sets the client used by S3 sources instead of the default AWS chain.
func WithS3Client(client S3API) OpenOption {
	return func(o *openOptions) { o.s3Client = client }
}

// OpenSource picks a Source for location by scheme:
//
//	"" or "embedded:"    the bundled sample catalog
//	http:// or https://  HTTPSource
//	s3://bucket/key      S3Source
//	file://path or path  FileSource
func OpenSource(ctx context.Context, location string, opts ...OpenOption) (Source, error) {
	o := openOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	location = strings.TrimSpace(location)
	switch {
	case location == "" || location == "embedded:" || location == "embedded":
		return NewEmbeddedSource(), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, o.httpClient), nil
	case strings.HasPrefix(location, "s3://"):
		bucket, key, err := parseS3URL(location)
		if err != nil {
			return nil, err
		}
		if o.s3Client != nil {
			return NewS3Source(o.s3Client, bucket, key), nil
		}
		return NewDefaultS3Source(ctx, bucket, key)
	case strings.HasPrefix(location, "file://"):
		return NewFileSource(strings.TrimPrefix(location, "file://")), nil
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("unsupported catalog source scheme: %s", location)
	default:
		return NewFileSource(location), nil
	}
}
