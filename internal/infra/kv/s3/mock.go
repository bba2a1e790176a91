package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const mockBucket = "primenest-test"

// NewMockForTests returns a Store whose client talks to an in-process fake of
// the object endpoints the store uses. Nothing leaves the process.
func NewMockForTests() *Store {
	objects := &fakeObjects{byKey: map[string][]byte{}}
	awsCfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://s3.fake.local")
		o.UsePathStyle = true
		o.HTTPClient = &http.Client{Transport: objects}
	})
	return &Store{client: client, bucket: mockBucket}
}

// fakeObjects serves HEAD, GET, PUT and DELETE for path-style object URLs.
type fakeObjects struct {
	mu    sync.Mutex
	byKey map[string][]byte
}

const missingKeyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

func reply(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func (f *fakeObjects) RoundTrip(req *http.Request) (*http.Response, error) {
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, exists := f.byKey[key]

	switch req.Method {
	case http.MethodHead:
		if !exists {
			return reply(http.StatusNotFound, nil, nil), nil
		}
		return reply(http.StatusOK, nil, http.Header{"Content-Length": {strconv.Itoa(len(obj))}}), nil
	case http.MethodGet:
		if !exists {
			return reply(http.StatusNotFound, []byte(missingKeyXML), http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return reply(http.StatusOK, bytes.Clone(obj), http.Header{"Content-Type": {contentType}}), nil
	case http.MethodPut:
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if body, ok := decodeChunked(raw); ok {
			raw = body
		}
		f.byKey[key] = raw
		return reply(http.StatusOK, nil, http.Header{"ETag": {`"fake"`}}), nil
	case http.MethodDelete:
		delete(f.byKey, key)
		return reply(http.StatusNoContent, nil, nil), nil
	default:
		return reply(http.StatusNotImplemented, nil, nil), nil
	}
}

// decodeChunked unwraps a single-chunk aws-chunked body, the framing the SDK
// uses when it streams a trailing checksum: "<hex len>\r\n<data>\r\n0\r\n...".
func decodeChunked(raw []byte) ([]byte, bool) {
	size, rest, ok := bytes.Cut(raw, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	size, _, _ = bytes.Cut(size, []byte(";"))
	n, err := strconv.ParseInt(string(size), 16, 64)
	if err != nil || n < 0 || int64(len(rest)) < n {
		return nil, false
	}
	data, tail := rest[:n], rest[n:]
	if !bytes.HasPrefix(tail, []byte("\r\n0\r\n")) {
		return nil, false
	}
	return data, true
}
