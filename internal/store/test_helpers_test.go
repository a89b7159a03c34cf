package store

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// createTestStore creates a new SQLite store in a temp directory.
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a baseN record with minimal required fields.
func createTestRecord(day, ns string, hour int, symbol string) Record {
	return Record{
		ID:        "rec-" + day + "-" + ns + "-" + strconv.Itoa(hour),
		Namespace: ns,
		Kind:      KindBaseN,
		Day:       day,
		Hour:      hour,
		Base:      3,
		Symbol:    symbol,
		Raw:       Raw{Count: 2, DigitIndex: 1},
		Timestamp: time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC),
	}
}

// createASCIITestRecord creates an ascii record whose views channel is the
// NUL byte (views 256), as recorded for clones=200 views=256.
func createASCIITestRecord(day, ns string, hour int) Record {
	sum := 72
	return Record{
		ID:        "ascii-" + day + "-" + ns + "-" + strconv.Itoa(hour),
		Namespace: ns,
		Kind:      KindASCII,
		Day:       day,
		Hour:      hour,
		Symbol:    "H\x00",
		Raw:       Raw{Clones: 200, Views: 256, ClonesByte: 72, ViewsByte: 0},
		Timestamp: time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC),
		Checksum:  &sum,
	}
}

// testKey builds a storage key in the signal:{day}:{ns}:{hh} layout.
func testKey(day, ns string, hour int) string {
	return "signal:" + day + ":" + ns + ":" + twoDigits(hour)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// fakeS3 is an in-memory s3API. pageSize bounds ListObjectsV2 pages so
// continuation handling is exercised.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int

	deleteBatches []int
	failGet       map[string]error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), pageSize: 2}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	if err, ok := f.failGet[key]; ok {
		return nil, err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+f.pageSize, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteBatches = append(f.deleteBatches, len(in.Delete.Objects))
	for _, obj := range in.Delete.Objects {
		delete(f.objects, aws.ToString(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}
