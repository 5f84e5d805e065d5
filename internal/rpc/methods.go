package rpc

import (
	"context"
	"fmt"
)

// NetVersion returns the network id the node reports, used as the health
// checker's cheapest possible liveness probe.
func (c *Client) NetVersion(ctx context.Context) (string, error) {
	var out string
	err := c.Call(ctx, "net_version", nil, &out)
	return out, err
}

// NetPeerCount returns the hex-encoded peer count.
func (c *Client) NetPeerCount(ctx context.Context) (string, error) {
	var out string
	err := c.Call(ctx, "net_peerCount", nil, &out)
	return out, err
}

// SyncStatus is either false (not syncing) or an object describing
// progress; eth_syncing's result shape depends on sync state.
type SyncStatus struct {
	Syncing      bool
	CurrentBlock string
	HighestBlock string
}

// EthSyncing reports the node's sync state.
func (c *Client) EthSyncing(ctx context.Context) (SyncStatus, error) {
	var raw any
	if err := c.Call(ctx, "eth_syncing", nil, &raw); err != nil {
		return SyncStatus{}, err
	}
	switch v := raw.(type) {
	case bool:
		return SyncStatus{Syncing: false}, nil
	case map[string]any:
		status := SyncStatus{Syncing: true}
		if cb, ok := v["currentBlock"].(string); ok {
			status.CurrentBlock = cb
		}
		if hb, ok := v["highestBlock"].(string); ok {
			status.HighestBlock = hb
		}
		return status, nil
	default:
		return SyncStatus{}, fmt.Errorf("unexpected eth_syncing result shape %T", raw)
	}
}

// EthMining reports whether the node believes it is actively mining.
func (c *Client) EthMining(ctx context.Context) (bool, error) {
	var out bool
	err := c.Call(ctx, "eth_mining", nil, &out)
	return out, err
}

// EthHashrate returns the hex-encoded current hashrate in hashes/second.
func (c *Client) EthHashrate(ctx context.Context) (string, error) {
	var out string
	err := c.Call(ctx, "eth_hashrate", nil, &out)
	return out, err
}

// EthBlockNumber returns the hex-encoded current block height.
func (c *Client) EthBlockNumber(ctx context.Context) (string, error) {
	var out string
	err := c.Call(ctx, "eth_blockNumber", nil, &out)
	return out, err
}

// EthGetBalance returns the hex-encoded wei balance of address at the
// "latest" block.
func (c *Client) EthGetBalance(ctx context.Context, address string) (string, error) {
	var out string
	err := c.Call(ctx, "eth_getBalance", []any{address, "latest"}, &out)
	return out, err
}

// MinerSetEtherbase updates the node's configured mining reward address.
func (c *Client) MinerSetEtherbase(ctx context.Context, address string) (bool, error) {
	var out bool
	err := c.Call(ctx, "miner_setEtherbase", []any{address}, &out)
	return out, err
}

// MinerStart resumes mining with threads worker threads.
func (c *Client) MinerStart(ctx context.Context, threads int) error {
	return c.Call(ctx, "miner_start", []any{threads}, nil)
}

// MinerStop pauses mining without stopping the node.
func (c *Client) MinerStop(ctx context.Context) error {
	return c.Call(ctx, "miner_stop", nil, nil)
}
