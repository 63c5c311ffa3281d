// internal/search/jobs.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// JobIndex maintains the Elasticsearch job index. Indexing is
// best-effort: callers fire it from event subscribers and only log
// failures.
type JobIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewJobIndex(client *elasticsearch.Client, index string, log logger.Logger) *JobIndex {
	return &JobIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "job-index"}),
	}
}

// jobDocument is the searchable projection of a posting.
type jobDocument struct {
	ID          string `json:"id"`
	PostingID   string `json:"postingId,omitempty"`
	Title       string `json:"title"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Index writes or replaces the document for a job.
func (j *JobIndex) Index(ctx context.Context, job *models.Job) error {
	doc := jobDocument{
		ID:          job.ID,
		PostingID:   job.PostingID,
		Title:       job.Title,
		Department:  job.Department,
		Location:    job.Location,
		Type:        job.Type,
		Description: job.Description,
		Status:      string(job.Status),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal job document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      j.index,
		DocumentID: job.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, j.client)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job: %s", res.Status())
	}

	j.logger.Debug("job indexed", map[string]interface{}{"jobId": job.ID})
	return nil
}

// Delete removes the document for a job. A missing document is not an
// error.
func (j *JobIndex) Delete(ctx context.Context, jobID string) error {
	req := esapi.DeleteRequest{
		Index:      j.index,
		DocumentID: jobID,
	}

	res, err := req.Do(ctx, j.client)
	if err != nil {
		return fmt.Errorf("delete job document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete job document: %s", res.Status())
	}
	return nil
}

// Search runs a keyword search over the active postings.
func (j *JobIndex) Search(ctx context.Context, keywords string, size int) ([]*models.Job, error) {
	if size <= 0 {
		size = 25
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  keywords,
							"fields": []string{"title^3", "department^2", "location^2", "description"},
							"type":   "best_fields",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"status": "active"},
					},
				},
			},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{j.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, j.client)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source jobDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	jobs := make([]*models.Job, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		jobs = append(jobs, &models.Job{
			ID:          doc.ID,
			PostingID:   doc.PostingID,
			Title:       doc.Title,
			Department:  doc.Department,
			Location:    doc.Location,
			Type:        doc.Type,
			Description: doc.Description,
			Status:      models.JobStatus(doc.Status),
		})
	}
	return jobs, nil
}
