package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/augustosalazar/roble-go/schema"
)

const maxBodySize = 1 << 20

// DefaultTable is the collection the original Roble deployments ship with.
const DefaultTable = "Product"

// Service is a CRUD client for one Roble table within a contract.
type Service struct {
	baseURL  string
	contract string
	table    string
	client   *http.Client
}

// New creates a data client for the given base URL (scheme + host) and
// contract identifier.
func New(baseURL, contract string, options ...Option) *Service {
	ret := &Service{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		contract: contract,
		table:    DefaultTable,
		client:   http.DefaultClient,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Table returns the table this client operates on.
func (s *Service) Table() string {
	return s.table
}

// List reads the full table.
func (s *Service) List(ctx context.Context) ([]schema.Record, error) {
	URL := s.endpoint("read") + "?tableName=" + url.QueryEscape(s.table)
	body, err := s.call(ctx, http.MethodGet, URL, nil)
	if err != nil {
		return nil, err
	}
	var records []schema.Record
	if err = json.Unmarshal([]byte(body), &records); err != nil {
		return nil, schema.NewDecodeError("read response is not a record array", err)
	}
	return records, nil
}

// Insert adds one record; the wire protocol requires a batch even for a
// single insert.
func (s *Service) Insert(ctx context.Context, record schema.Record) error {
	payload := &schema.InsertRequest{TableName: s.table, Records: []schema.Record{record}}
	_, err := s.call(ctx, http.MethodPost, s.endpoint("insert"), payload)
	return err
}

// Update merges the supplied fields into the record addressed by id.
func (s *Service) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	payload := &schema.UpdateRequest{
		TableName: s.table,
		IDColumn:  schema.DefaultIDColumn,
		IDValue:   id,
		Updates:   updates,
	}
	_, err := s.call(ctx, http.MethodPut, s.endpoint("update"), payload)
	return err
}

// Delete removes the record addressed by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	payload := &schema.DeleteRequest{
		TableName: s.table,
		IDColumn:  schema.DefaultIDColumn,
		IDValue:   id,
	}
	_, err := s.call(ctx, http.MethodDelete, s.endpoint("delete"), payload)
	return err
}

// DeleteAll lists the table and deletes each record sequentially. It is not
// transactional: a failure partway through leaves the remaining records in
// place. Returns the number of records actually deleted.
func (s *Service) DeleteAll(ctx context.Context) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, record := range records {
		id := record.ID()
		if id == "" {
			continue
		}
		if err = s.Delete(ctx, id); err != nil {
			return deleted, fmt.Errorf("delete all stopped after %v of %v records: %w", deleted, len(records), err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *Service) endpoint(operation string) string {
	return s.baseURL + "/database/" + s.contract + "/" + operation
}

func (s *Service) call(ctx context.Context, method, URL string, payload interface{}) (string, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, reader)
	if err != nil {
		return "", err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		// a failed refresh surfaces through the transport as a schema error
		var remote *schema.Error
		if errors.As(err, &remote) {
			return "", remote
		}
		return "", schema.NewTransportError(method+" "+URL+" failed", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if !is2xx(resp.StatusCode) {
		return "", schema.NewStatusError(resp.StatusCode, method+" "+URL+" failed", string(data))
	}
	return string(data), nil
}

func is2xx(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
