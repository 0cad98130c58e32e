// Package client provides support for talking to a ledger node over its
// HTTP api.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
)

// Error is returned when the node answers with a failure status.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("node responded %d: %s", e.Status, e.Message)
}

// Status is the acknowledgement returned by the node.
type Status struct {
	Status string `json:"status"`
	Index  uint64 `json:"index,omitempty"`
	Hash   string `json:"hash,omitempty"`
}

// Client calls the api of a single node.
type Client struct {
	url  string
	http *http.Client
}

// New constructs a client for the node at the specified base url.
func New(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:  strings.TrimRight(strings.TrimSpace(url), "/"),
		http: httpClient,
	}
}

// Submit posts new content to the node's pool.
func (c *Client) Submit(ctx context.Context, author string, content string) (Status, error) {
	in := struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}{
		Author:  author,
		Content: content,
	}

	var out Status
	if err := c.do(ctx, http.MethodPost, "/new_transaction", in, &out); err != nil {
		return Status{}, err
	}

	return out, nil
}

// Chain returns the node's full chain and peers.
func (c *Client) Chain(ctx context.Context) (state.Chain, error) {
	var out state.Chain
	if err := c.do(ctx, http.MethodGet, "/chain", nil, &out); err != nil {
		return state.Chain{}, err
	}

	return out, nil
}

// Pending returns the records waiting to be mined.
func (c *Client) Pending(ctx context.Context) ([]database.Record, error) {
	var out []database.Record
	if err := c.do(ctx, http.MethodGet, "/pending-tx", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Mine asks the node to mine its pending records and waits for the outcome.
func (c *Client) Mine(ctx context.Context) (Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/mine", nil, &out); err != nil {
		return Status{}, err
	}

	return out, nil
}

// RegisterWith asks the node to join the network of the remote node.
func (c *Client) RegisterWith(ctx context.Context, remote string) (Status, error) {
	in := state.Registration{NodeAddress: remote}

	var out Status
	if err := c.do(ctx, http.MethodPost, "/register_with", in, &out); err != nil {
		return Status{}, err
	}

	return out, nil
}

// =============================================================================

func (c *Client) do(ctx context.Context, method string, path string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er struct {
			Error string `json:"error"`
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
		if err := json.Unmarshal(msg, &er); err != nil || er.Error == "" {
			er.Error = string(bytes.TrimSpace(msg))
		}
		return &Error{Status: resp.StatusCode, Message: er.Error}
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// IsStatus reports whether the error is a node failure with the status.
func IsStatus(err error, status int) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Status == status
}
