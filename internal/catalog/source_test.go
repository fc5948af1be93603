package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routineshell/pkg/routinetypes"
)

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/products.json":
			_, _ = w.Write([]byte(sampleJSON))
		case "/accepted.json":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(sampleJSON))
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
	defer server.Close()

	idx, err := Load(context.Background(), NewHTTPSource(server.URL+"/products.json", server.Client()))
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	idx, err = Load(context.Background(), NewHTTPSource(server.URL+"/accepted.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	_, err = Load(context.Background(), NewHTTPSource(server.URL+"/missing.json", nil))
	var loadErr *routinetypes.CatalogLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "404")
}

func TestHTTPSource_Format(t *testing.T) {
	assert.Equal(t, FormatYAML, NewHTTPSource("https://cdn.example/catalog.yaml?v=2", nil).Format())
	assert.Equal(t, FormatJSON, NewHTTPSource("https://cdn.example/api/products", nil).Format())
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("products:\n  - id: 1\n    name: X\n    category: c\n"), 0600))

	src := NewFileSource(yamlPath)
	assert.Equal(t, FormatYAML, src.Format())

	idx, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	_, err = Load(context.Background(), NewFileSource(filepath.Join(dir, "absent.json")))
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"shop/catalog/products.json": sampleJSON}}

	src, err := OpenSource(context.Background(), "s3://shop/catalog/products.json", WithS3Client(client))
	require.NoError(t, err)
	assert.Equal(t, "s3://shop/catalog/products.json", src.Name())

	idx, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	_, err = Load(context.Background(), NewS3Source(client, "shop", "missing.json"))
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		location string
		want interface{}
	}{
		{location: "", want: &EmbeddedSource{}},
		{location: "embedded:", want: &EmbeddedSource{}},
		{location: "http://localhost/products.json", want: &HTTPSource{}},
		{location: "https://cdn.example/products.json", want: &HTTPSource{}},
		{location: "file:///tmp/products.json", want: &FileSource{}},
		{location: "./products.yaml", want: &FileSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			src, err := OpenSource(ctx, tt.location)
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	src, err := OpenSource(ctx, "file:///tmp/products.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/products.json", src.Name())

	_, err = OpenSource(ctx, "ftp://host/products.json")
	assert.Error(t, err)

	_, err = OpenSource(ctx, "s3://bucket-only", WithS3Client(&fakeS3{}))
	assert.Error(t, err)
}

func TestNewDefaultS3Source(t *testing.T) {
	t.Setenv("ROUTINE_S3_REGION", "eu-west-1")
	t.Setenv("ROUTINE_S3_ENDPOINT", "http://127.0.0.1:9000")
	t.Setenv("ROUTINE_S3_PATH_STYLE", "true")
	t.Setenv("ROUTINE_S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("ROUTINE_S3_SECRET_ACCESS_KEY", "SECRET")

	src, err := NewDefaultS3Source(context.Background(), "shop", "catalog/products.yaml")
	require.NoError(t, err)
	assert.Equal(t, "s3://shop/catalog/products.yaml", src.Name())
	assert.Equal(t, FormatYAML, src.Format())
}
