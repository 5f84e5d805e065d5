package rpc

import (
	"context"
	"time"
)

// GetBalancePreferLocal tries localURL first (when non-empty) and falls
// back to the fixed remote read-only endpoint on any failure, so balance
// queries keep working while a local node is syncing, down, or simply not
// configured for this tab.
func GetBalancePreferLocal(ctx context.Context, localURL, remoteURL, address string, timeout time.Duration) (string, error) {
	if localURL != "" {
		local := NewClient(localURL, timeout)
		if balance, err := local.EthGetBalance(ctx, address); err == nil {
			return balance, nil
		}
	}

	remote := NewClient(remoteURL, timeout)
	return remote.EthGetBalance(ctx, address)
}
