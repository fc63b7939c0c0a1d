package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/nventon/user-backend/internal/transport"
)

// Search runs a fuzzy multi_match over the indexed user fields and returns
// the total hit count plus one page of public user records.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []transport.PublicUser, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"username^2", "firstname", "lastname"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search encode: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source transport.PublicUser `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	users := make([]transport.PublicUser, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		users[i] = hit.Source
	}
	return r.Hits.Total.Value, users, nil
}

func IndexUser(ctx context.Context, es *elasticsearch.Client, index string, u transport.PublicUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(u.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index user: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index user: %s", res.Status())
	}
	return nil
}

func DeleteUser(ctx context.Context, es *elasticsearch.Client, index string, id uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete user doc: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete user doc: %s", res.Status())
	}
	return nil
}
