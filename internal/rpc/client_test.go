package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/powerhive/marscreditd/internal/apperr"
)

func jsonRPCServer(t *testing.T, result any, rpcErr *rpcError) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			raw, err := json.Marshal(result)
			if err != nil {
				t.Fatalf("marshal result: %v", err)
			}
			resp.Result = raw
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestNetVersion(t *testing.T) {
	srv := jsonRPCServer(t, "110110", nil)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.NetVersion(context.Background())
	if err != nil {
		t.Fatalf("NetVersion returned error: %v", err)
	}
	if got != "110110" {
		t.Errorf("NetVersion() = %q, want %q", got, "110110")
	}
}

func TestCallPropagatesRPCError(t *testing.T) {
	srv := jsonRPCServer(t, nil, &rpcError{Code: -32601, Message: "method not found"})
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Call(context.Background(), "bogus_method", nil, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !apperr.Is(err, apperr.KindRPCError) {
		t.Errorf("expected KindRPCError, got %v", err)
	}
}

func TestCallHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Call(context.Background(), "net_version", nil, nil)
	if !apperr.Is(err, apperr.KindRPCHTTPError) {
		t.Errorf("expected KindRPCHTTPError, got %v", err)
	}
}

func TestEthSyncingFalse(t *testing.T) {
	srv := jsonRPCServer(t, false, nil)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	status, err := c.EthSyncing(context.Background())
	if err != nil {
		t.Fatalf("EthSyncing returned error: %v", err)
	}
	if status.Syncing {
		t.Errorf("expected Syncing=false")
	}
}

func TestEthSyncingInProgress(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{
		"currentBlock": "0x10",
		"highestBlock": "0x100",
	}, nil)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	status, err := c.EthSyncing(context.Background())
	if err != nil {
		t.Fatalf("EthSyncing returned error: %v", err)
	}
	if !status.Syncing {
		t.Errorf("expected Syncing=true")
	}
	if status.CurrentBlock != "0x10" || status.HighestBlock != "0x100" {
		t.Errorf("unexpected sync status: %+v", status)
	}
}

func TestGetBalancePreferLocalFallsBackOnFailure(t *testing.T) {
	remote := jsonRPCServer(t, "0x1bc16d674ec80000", nil)
	defer remote.Close()

	got, err := GetBalancePreferLocal(context.Background(), "http://127.0.0.1:1", remote.URL, "0xdead", 500*time.Millisecond)
	if err != nil {
		t.Fatalf("GetBalancePreferLocal returned error: %v", err)
	}
	if got != "0x1bc16d674ec80000" {
		t.Errorf("GetBalancePreferLocal() = %q, want remote result", got)
	}
}

func TestGetBalancePreferLocalUsesLocalWhenHealthy(t *testing.T) {
	local := jsonRPCServer(t, "0x1", nil)
	defer local.Close()
	remote := jsonRPCServer(t, "0x2", nil)
	defer remote.Close()

	got, err := GetBalancePreferLocal(context.Background(), local.URL, remote.URL, "0xdead", time.Second)
	if err != nil {
		t.Fatalf("GetBalancePreferLocal returned error: %v", err)
	}
	if got != "0x1" {
		t.Errorf("GetBalancePreferLocal() = %q, want local result", got)
	}
}
