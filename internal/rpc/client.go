// Package rpc is a stateless JSON-RPC 2.0 client for a geth node's HTTP
// endpoint, used both by the Miner Instance health checker and by anything
// polling balance, hashrate, peer count, and sync state. Its request/response
// envelope follows this codebase's HTTP-client request-options pattern.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/powerhive/marscreditd/internal/apperr"
)

// Client is a JSON-RPC 2.0 caller bound to a single endpoint. Safe for
// concurrent use.
type Client struct {
	url        string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient builds a Client targeting url (e.g. http://localhost:8546),
// bounding every call by timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int64           `json:"id"`
}

// Call invokes method with params and unmarshals the result into out (which
// may be nil to discard it).
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return apperr.Wrap(apperr.KindRPCError, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(apperr.KindRPCError, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindRPCHTTPError, fmt.Sprintf("call %s", method), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.KindRPCHTTPError, "read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apperr.Error{
			Kind:    apperr.KindRPCHTTPError,
			Message: fmt.Sprintf("%s returned HTTP %d", method, resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return apperr.Wrap(apperr.KindRPCError, "unmarshal response envelope", err)
	}
	if rpcResp.Error != nil {
		return apperr.New(apperr.KindRPCError, fmt.Sprintf("%s: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code))
	}

	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return apperr.Wrap(apperr.KindRPCError, "unmarshal result", err)
	}
	return nil
}
