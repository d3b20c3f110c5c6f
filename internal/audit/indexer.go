package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
)

const Index = "auth_audit"

// Entry is one auth decision as it lands in the audit index.
type Entry struct {
	Event   string    `json:"event"`
	Email   string    `json:"email,omitempty"`
	UserID  uint      `json:"user_id,omitempty"`
	Outcome string    `json:"outcome"`
	At      time.Time `json:"at"`
}

type Indexer struct {
	es *elasticsearch.Client
}

func NewIndexer(url, user, password string) (*Indexer, error) {
	if url == "" {
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("audit: elasticsearch error: %s: %s", res.Status(), body)
	}

	return &Indexer{es: client}, nil
}

// Record indexes one entry. A nil indexer (audit disabled) records nothing.
func (ix *Indexer) Record(ctx context.Context, e Entry) error {
	if ix == nil {
		return nil
	}

	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	res, err := ix.es.Index(Index, bytes.NewReader(data), ix.es.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("audit: index entry: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("audit: index entry: %s", res.Status())
	}
	return nil
}
