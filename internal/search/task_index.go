package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olivere/elastic/v7"

	"github.com/creatorflow/apigateway/internal/domain"
)

const taskIndexName = "tasks"

// TaskDoc is the flattened task document stored in the search index. It
// duplicates the store document on purpose: the index is a secondary,
// best-effort read model and never a source of truth.
type TaskDoc struct {
	TaskID          int64             `json:"task_id"`
	OwnerID         string            `json:"owner_id"`
	TaskName        string            `json:"task_name"`
	TaskDescription string            `json:"task_description"`
	TaskNotes       string            `json:"task_notes"`
	Status          domain.TaskStatus `json:"status"`
	Priority        bool              `json:"priority"`
}

// TaskIndex provides full-text search over tasks backed by Elasticsearch.
type TaskIndex struct {
	es *elastic.Client
}

// NewTaskIndex connects to the cluster at url. Sniffing is disabled so a
// single-node or proxied deployment works out of the box.
func NewTaskIndex(url string) (*TaskIndex, error) {
	es, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
	if err != nil {
		return nil, fmt.Errorf("connect to elasticsearch: %w", err)
	}
	return &TaskIndex{es: es}, nil
}

func docID(ownerID string, taskID int64) string {
	return ownerID + ":" + strconv.FormatInt(taskID, 10)
}

// IndexTask upserts one task into the index.
func (i *TaskIndex) IndexTask(ctx context.Context, t *domain.Task) error {
	doc := TaskDoc{
		TaskID:          t.ID,
		OwnerID:         t.OwnerID,
		TaskName:        t.TaskName,
		TaskDescription: t.TaskDescription,
		TaskNotes:       t.TaskNotes,
		Status:          t.Status,
		Priority:        t.Priority,
	}

	_, err := i.es.Index().
		Index(taskIndexName).
		Id(docID(t.OwnerID, t.ID)).
		BodyJson(doc).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("index task %d: %w", t.ID, err)
	}
	return nil
}

// Search runs a full-text query over one owner's tasks.
func (i *TaskIndex) Search(ctx context.Context, ownerID, text string) ([]TaskDoc, error) {
	q := elastic.NewBoolQuery().
		Filter(elastic.NewTermQuery("owner_id", ownerID)).
		Must(elastic.NewMultiMatchQuery(text, "task_name", "task_description", "task_notes"))

	res, err := i.es.Search().
		Index(taskIndexName).
		Query(q).
		Size(50).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	docs := make([]TaskDoc, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc TaskDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
