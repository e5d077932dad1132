package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantum-pipeline/internal/domain"
)

type pagedS3 struct {
	s3API
	pages   [][]string
	deleted []string
}

func (p *pagedS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	idx := 0
	if in.ContinuationToken != nil {
		idx = int(aws.ToString(in.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, key := range p.pages[idx] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key), Size: aws.Int64(int64(len(key)))})
	}
	if idx+1 < len(p.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + idx + 1)))
	}
	return out, nil
}

func (p *pagedS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	for _, obj := range in.Delete.Objects {
		p.deleted = append(p.deleted, aws.ToString(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

type staticPresigner struct{}

func (staticPresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + aws.ToString(in.Key)}, nil
}

func TestS3Service_ListAndDeleteFollowPages(t *testing.T) {
	api := &pagedS3{pages: [][]string{{"a/1.json", "a/2.json"}, {"a/3.json"}}}
	svc := newS3Service(api, staticPresigner{})
	ctx := context.Background()

	objects, err := svc.ListObjects(ctx, "bucket", "a/")
	require.NoError(t, err)
	require.Len(t, objects, 3)
	assert.Equal(t, "a/3.json", objects[2].Key)

	require.NoError(t, svc.DeletePrefix(ctx, "bucket", "a/"))
	assert.Equal(t, []string{"a/1.json", "a/2.json", "a/3.json"}, api.deleted)

	url, err := svc.GetObjectURL(ctx, "bucket", "a/1.json", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/a/1.json", url)
}

func TestS3Service_RequiresBucketAndPrefix(t *testing.T) {
	svc := newS3Service(&pagedS3{}, staticPresigner{})
	ctx := context.Background()

	_, err := svc.ListObjects(ctx, "", "x")
	assert.Error(t, err)
	assert.Error(t, svc.DeletePrefix(ctx, "bucket", "  "))
	_, err = svc.PutObject(ctx, nil, PutOptions{Bucket: "bucket"})
	assert.Error(t, err)
}

type memoryService struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryService() *memoryService {
	return &memoryService{objects: map[string][]byte{}}
}

func (m *memoryService) PutObject(_ context.Context, body io.Reader, opts PutOptions) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[opts.Key] = data
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (m *memoryService) ListObjects(_ context.Context, _, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for key, data := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memoryService) DeletePrefix(_ context.Context, _, prefix string) error {
	for key := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *memoryService) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + "/" + key, nil
}

func completedJob(owner, id string) domain.Job {
	return domain.Job{
		ID:     id,
		Owner:  owner,
		Kind:   domain.JobKindQuantum,
		Status: domain.JobStatusCompleted,
		Input:  "CCO",
		Result: &domain.JobResult{Quantum: &domain.QuantumResult{AdvantagePercent: 22, Fidelity: 0.94}},
	}
}

func TestExporter_ExportListRemove(t *testing.T) {
	mem := newMemoryService()
	exp := NewExporter(mem, "bucket", "/quantum-exports/")
	ctx := context.Background()

	out, err := exp.Export(ctx, completedJob("sess-1", "QJ-00000001"))
	require.NoError(t, err)
	assert.Equal(t, "quantum-exports/sess-1/QJ-00000001.json", out.Key)
	assert.Equal(t, "s3://bucket/quantum-exports/sess-1/QJ-00000001.json", out.Location)
	assert.Equal(t, "https://bucket/quantum-exports/sess-1/QJ-00000001.json", out.URL)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(mem.objects[out.Key], &doc))
	assert.Equal(t, "QJ-00000001", doc["id"])
	assert.Equal(t, "quantum", doc["kind"])

	_, err = exp.Export(ctx, completedJob("sess-2", "QJ-00000002"))
	require.NoError(t, err)

	list, err := exp.List(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "QJ-00000001", list[0].JobID)

	require.NoError(t, exp.Remove(ctx, "sess-1"))
	list, err = exp.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, mem.objects, 1)
}

func TestExporter_RejectsUnfinishedJobs(t *testing.T) {
	exp := NewExporter(newMemoryService(), "bucket", "")
	job := completedJob("sess", "DK-1")
	job.Status = domain.JobStatusRunning
	_, err := exp.Export(context.Background(), job)
	assert.ErrorIs(t, err, ErrJobNotCompleted)
}

func TestExporter_PropagatesUploadErrors(t *testing.T) {
	mem := newMemoryService()
	mem.putErr = errors.New("boom")
	exp := NewExporter(mem, "bucket", "")
	_, err := exp.Export(context.Background(), completedJob("sess", "DK-1"))
	assert.EqualError(t, err, "boom")
}
