package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"quantum-pipeline/internal/domain"
)

// ErrJobNotCompleted is returned when exporting a job without a result.
var ErrJobNotCompleted = errors.New("job has not completed")

const presignExpiry = 15 * time.Minute

// Export describes an uploaded job result.
type Export struct {
	JobID    string
	Key      string
	Location string
	URL      string
	Size     int64
	Modified *time.Time
}

// Exporter writes finished job results under <prefix>/<owner>/<job id>.json.
type Exporter struct {
	svc    Service
	bucket string
	prefix string
}

func NewExporter(svc Service, bucket, keyPrefix string) *Exporter {
	return &Exporter{
		svc:    svc,
		bucket: bucket,
		prefix: strings.Trim(keyPrefix, "/"),
	}
}

type exportDocument struct {
	ID         string            `json:"id"`
	Kind       domain.JobKind    `json:"kind"`
	Input      string            `json:"input"`
	Qubits     int               `json:"qubits,omitempty"`
	Circuits   int               `json:"circuits,omitempty"`
	Result     *domain.JobResult `json:"result"`
	CreatedAt  time.Time         `json:"created_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

func (e *Exporter) Export(ctx context.Context, job domain.Job) (Export, error) {
	if job.Status != domain.JobStatusCompleted || job.Result == nil {
		return Export{}, ErrJobNotCompleted
	}

	body, err := json.MarshalIndent(exportDocument{
		ID:         job.ID,
		Kind:       job.Kind,
		Input:      job.Input,
		Qubits:     job.Qubits,
		Circuits:   job.Circuits,
		Result:     job.Result,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	key := e.key(job.Owner, job.ID+".json")
	location, err := e.svc.PutObject(ctx, bytes.NewReader(body), PutOptions{
		Bucket:      e.bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return Export{}, err
	}

	url, err := e.svc.GetObjectURL(ctx, e.bucket, key, presignExpiry)
	if err != nil {
		return Export{}, err
	}

	return Export{
		JobID:    job.ID,
		Key:      key,
		Location: location,
		URL:      url,
		Size:     int64(len(body)),
	}, nil
}

// List returns the owner's exports with fresh download links.
func (e *Exporter) List(ctx context.Context, owner string) ([]Export, error) {
	objects, err := e.svc.ListObjects(ctx, e.bucket, e.key(owner, ""))
	if err != nil {
		return nil, err
	}

	exports := make([]Export, 0, len(objects))
	for _, obj := range objects {
		url, err := e.svc.GetObjectURL(ctx, e.bucket, obj.Key, presignExpiry)
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{
			JobID:    strings.TrimSuffix(path.Base(obj.Key), ".json"),
			Key:      obj.Key,
			Location: fmt.Sprintf("s3://%s/%s", e.bucket, obj.Key),
			URL:      url,
			Size:     obj.Size,
			Modified: obj.LastModified,
		})
	}
	return exports, nil
}

// Remove deletes every export belonging to owner.
func (e *Exporter) Remove(ctx context.Context, owner string) error {
	return e.svc.DeletePrefix(ctx, e.bucket, e.key(owner, ""))
}

func (e *Exporter) key(owner, name string) string {
	parts := []string{owner, name}
	if e.prefix != "" {
		parts = append([]string{e.prefix}, parts...)
	}
	key := path.Join(parts...)
	if name == "" {
		key += "/"
	}
	return key
}
