// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// Elastic implements Indexer against an Elasticsearch-compatible server.
type Elastic struct {
	client *elasticsearch.Client
}

// NewElastic creates an Elastic indexer for the given address.
func NewElastic(addr string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}
	return &Elastic{client: client}, nil
}

// IndexPost upserts the projection document under its slug.
func (e *Elastic) IndexPost(ctx context.Context, locale string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search marshal: %w", err)
	}

	res, err := e.client.Index(
		IndexName(locale),
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(doc.ID),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search index: %s", res.Status())
	}
	return nil
}

// DeletePost removes a slug's document from the locale index. A 404 from
// the engine means the slug was never indexed and is ignored.
func (e *Elastic) DeletePost(ctx context.Context, locale, slug string) error {
	res, err := e.client.Delete(
		IndexName(locale),
		slug,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search delete: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi-field match over title and description and returns
// the hit ids (slugs) in rank order.
func (e *Elastic) Search(ctx context.Context, locale, query string) ([]string, error) {
	var buf bytes.Buffer
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title", "description"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search encode query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(IndexName(locale)),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer res.Body.Close()

	// A missing index means nothing was published yet in this locale.
	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search decode: %w", err)
	}

	slugs := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		slugs = append(slugs, h.ID)
	}
	return slugs, nil
}
