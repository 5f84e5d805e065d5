package miner

import "strconv"

// networkID is the fixed Mars Credit chain id.
const networkID = "110110"

// bootnodes is the fixed set of enode URIs new instances dial on startup.
var bootnodes = []string{
	"enode://a1b2c3d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff0011@boot1.marscredit.org:30304",
	"enode://b2c3d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff001122@boot2.marscredit.org:30304",
	"enode://c3d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233@boot3.marscredit.org:30304",
	"enode://d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff0011223344@boot4.marscredit.org:30304",
}

// PortTriple is the deterministic set of ports owned by a miner index.
type PortTriple struct {
	HTTP int
	WS   int
	P2P  int
}

// DerivePorts computes the fixed port triple for a 1-based miner index.
// The same index always owns the same ports, so a restarted instance never
// collides with a still-running one at a different index.
func DerivePorts(minerIndex int) PortTriple {
	return PortTriple{
		HTTP: 8546 + 2*(minerIndex-1),
		WS:   8547 + 2*(minerIndex-1),
		P2P:  30304 + (minerIndex - 1),
	}
}

// buildArgs composes the bit-exact Geth argument vector for a start, in the
// fixed order the health-probing JSON-RPC surface and P2P networking depend
// on being present.
func buildArgs(dataDir, keystoreDir string, ports PortTriple, threads, cacheMB int, etherbase string) []string {
	args := []string{
		"--datadir", dataDir,
		"--keystore", keystoreDir,
		"--syncmode", "full",
		"--gcmode", "full",
		"--http",
		"--http.addr", "localhost",
		"--http.port", strconv.Itoa(ports.HTTP),
		"--http.api", "personal,eth,net,web3,miner,admin,debug",
		"--http.vhosts", "*",
		"--http.corsdomain", "*",
		"--ws",
		"--ws.addr", "localhost",
		"--ws.port", strconv.Itoa(ports.WS),
		"--ws.api", "personal,eth,net,web3,miner,admin,debug",
		"--port", strconv.Itoa(ports.P2P),
		"--networkid", networkID,
		"--bootnodes", joinBootnodes(),
		"--nat", "any",
		"--mine",
		"--miner.threads", strconv.Itoa(threads),
		"--verbosity", "3",
		"--maxpeers", "50",
		"--cache", strconv.Itoa(cacheMB),
		"--cache.database", "75",
		"--cache.trie", "25",
		"--cache.gc", "25",
		"--cache.snapshot", "10",
		"--txpool.globalslots", "8192",
		"--txpool.globalqueue", "2048",
		"--nousb",
		"--metrics",
		"--allow-insecure-unlock",
		"--snapshot",
	}
	if etherbase != "" {
		args = append(args, "--miner.etherbase", etherbase)
	}
	return args
}

func joinBootnodes() string {
	out := bootnodes[0]
	for _, n := range bootnodes[1:] {
		out += "," + n
	}
	return out
}
