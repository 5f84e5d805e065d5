// Package wallet generates and imports Mars Credit mining wallets, writes
// Geth-compatible keystore files into a miner's data directory, and
// persists an address-only mining target when no key material is held.
// Private keys never outlive the call that produced or consumed them.
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/powerhive/marscreditd/internal/apperr"
	"github.com/powerhive/marscreditd/internal/platform"
)

// Generated is the result of Generate or ImportFromMnemonic: a fresh
// account plus the material that derived it.
type Generated struct {
	Address    string
	Mnemonic   string
	PrivateKey string
}

// Info summarizes a miner's persisted wallet state without exposing key
// material.
type Info struct {
	Address       string
	Mode          string // "full", "address_only", or "none"
	HasMnemonic   bool
	HasPrivateKey bool
}

// Generate creates a cryptographically random 12-word BIP39 mnemonic and
// derives its first standard Ethereum account.
func Generate() (Generated, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return Generated{}, apperr.Wrap(apperr.KindInvalidMnemonic, "generate entropy", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Generated{}, apperr.Wrap(apperr.KindInvalidMnemonic, "generate mnemonic", err)
	}
	return deriveFromMnemonic(mnemonic)
}

// ImportFromMnemonic validates and derives the standard account from an
// existing BIP39 mnemonic.
func ImportFromMnemonic(mnemonic string) (Generated, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return Generated{}, apperr.New(apperr.KindInvalidMnemonic, "mnemonic failed BIP39 checksum validation")
	}
	return deriveFromMnemonic(mnemonic)
}

func deriveFromMnemonic(mnemonic string) (Generated, error) {
	seed := bip39.NewSeed(mnemonic, "")
	priv, err := derivePrivateKey(seed)
	if err != nil {
		return Generated{}, apperr.Wrap(apperr.KindInvalidMnemonic, "derive account from mnemonic", err)
	}
	address := crypto.PubkeyToAddress(priv.PublicKey).Hex()
	return Generated{
		Address:    address,
		Mnemonic:   mnemonic,
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(priv)),
	}, nil
}

// ImportFromPrivateKey derives the account address for an existing raw
// secp256k1 private key, hex-encoded with or without a 0x prefix.
func ImportFromPrivateKey(privateKeyHex string) (Generated, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return Generated{}, apperr.Wrap(apperr.KindInvalidMnemonic, "parse private key", err)
	}
	address := crypto.PubkeyToAddress(priv.PublicKey).Hex()
	return Generated{Address: address, PrivateKey: strings.TrimPrefix(privateKeyHex, "0x")}, nil
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether address is a well-formed, 0x-prefixed
// 20-byte hex address.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// SetAddressOnly persists address as the mining target with no associated
// key material, used when the operator wants rewards sent somewhere the
// supervisor never holds the key for.
func SetAddressOnly(paths *platform.Paths, address string) error {
	if !IsValidAddress(address) {
		return apperr.New(apperr.KindInvalidAddress, fmt.Sprintf("%q is not a valid address", address))
	}
	canonical := common.HexToAddress(address).Hex()
	return os.WriteFile(paths.MiningAddressPath(), []byte(canonical), 0o600)
}

// GetStoredMiningAddress prefers the address-only file; failing that, and if
// minerIndex is non-nil, it falls back to the first keystore file found in
// that miner's keystore directory.
func GetStoredMiningAddress(paths *platform.Paths, minerIndex *int) (string, error) {
	if addr, err := os.ReadFile(paths.MiningAddressPath()); err == nil {
		return strings.TrimSpace(string(addr)), nil
	} else if !os.IsNotExist(err) {
		return "", apperr.Wrap(apperr.KindInvalidAddress, "read mining address file", err)
	}

	if minerIndex == nil {
		return "", nil
	}

	addr, err := firstKeystoreAddress(paths.MinerKeystoreDir(*minerIndex))
	if err != nil {
		return "", err
	}
	return addr, nil
}

// keystoreFile mirrors the top-level fields of a go-ethereum V3 keystore
// envelope that we need to read the embedded address back out.
type keystoreFile struct {
	Address string `json:"address"`
}

func firstKeystoreAddress(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", apperr.Wrap(apperr.KindInvalidAddress, "list keystore directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "UTC--") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)

	raw, err := os.ReadFile(filepath.Join(dir, names[0]))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidAddress, "read keystore file", err)
	}

	var kf keystoreFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return "", apperr.Wrap(apperr.KindInvalidAddress, "parse keystore file", err)
	}
	return common.HexToAddress(kf.Address).Hex(), nil
}

// WriteKeystoreToMiner encrypts privateKeyHex into a Geth-compatible V3
// keystore envelope under the given miner's keystore directory.
func WriteKeystoreToMiner(paths *platform.Paths, minerIndex int, privateKeyHex, password string) (string, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidMnemonic, "parse private key", err)
	}

	dir := paths.MinerKeystoreDir(minerIndex)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", apperr.Wrap(apperr.KindInvalidMnemonic, "create keystore directory", err)
	}

	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(priv, password)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidMnemonic, "encrypt keystore", err)
	}

	if err := os.Chmod(account.URL.Path, 0o600); err != nil {
		return "", apperr.Wrap(apperr.KindInvalidMnemonic, "restrict keystore file permissions", err)
	}

	return account.Address.Hex(), nil
}

// GetWalletInfo summarizes a miner's persisted wallet state. minerIndex may
// be nil to report only the address-only / mnemonic state shared across all
// miners.
func GetWalletInfo(paths *platform.Paths, minerIndex *int) (Info, error) {
	address, err := GetStoredMiningAddress(paths, minerIndex)
	if err != nil {
		return Info{}, err
	}

	hasMnemonic := HasMnemonic(paths.WalletEncPath())

	hasKeystore := false
	if minerIndex != nil {
		entries, err := os.ReadDir(paths.MinerKeystoreDir(*minerIndex))
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.HasPrefix(e.Name(), "UTC--") {
					hasKeystore = true
					break
				}
			}
		}
	}

	mode := "none"
	switch {
	case hasKeystore:
		mode = "full"
	case address != "":
		mode = "address_only"
	}

	return Info{
		Address:       address,
		Mode:          mode,
		HasMnemonic:   hasMnemonic,
		HasPrivateKey: hasKeystore,
	}, nil
}

// timestampedKeystoreName mirrors the UTC--<timestamp>--<address> naming
// go-ethereum's own keystore writer uses. Nothing in this module calls it.
func timestampedKeystoreName(addr common.Address) string {
	ts := time.Now().UTC().Format("2006-01-02T15-04-05.000000000Z")
	return fmt.Sprintf("UTC--%s--%s", ts, strings.TrimPrefix(addr.Hex(), "0x"))
}
