package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/powerhive/marscreditd/internal/platform"
)

func TestImportFromMnemonicKnownVector(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	const wantAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

	got, err := ImportFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("ImportFromMnemonic returned error: %v", err)
	}
	if got.Address != wantAddress {
		t.Errorf("derived address = %s, want %s", got.Address, wantAddress)
	}
}

func TestImportFromMnemonicRejectsBadChecksum(t *testing.T) {
	_, err := ImportFromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon")
	if err == nil {
		t.Fatalf("expected an error for an invalid mnemonic checksum")
	}
}

func TestGenerateProducesValidMnemonic(t *testing.T) {
	gen, err := Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !IsValidAddress(gen.Address) {
		t.Errorf("generated address %q is not valid", gen.Address)
	}
	if gen.Mnemonic == "" {
		t.Errorf("expected a non-empty mnemonic")
	}

	reimported, err := ImportFromMnemonic(gen.Mnemonic)
	if err != nil {
		t.Fatalf("re-importing the generated mnemonic failed: %v", err)
	}
	if reimported.Address != gen.Address {
		t.Errorf("re-derived address %s does not match original %s", reimported.Address, gen.Address)
	}
}

func TestImportFromPrivateKey(t *testing.T) {
	gen, err := Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	imported, err := ImportFromPrivateKey(gen.PrivateKey)
	if err != nil {
		t.Fatalf("ImportFromPrivateKey returned error: %v", err)
	}
	if imported.Address != gen.Address {
		t.Errorf("address from private key = %s, want %s", imported.Address, gen.Address)
	}
}

func TestIsValidAddress(t *testing.T) {
	if !IsValidAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94") {
		t.Errorf("expected a well-formed address to validate")
	}
	if IsValidAddress("not-an-address") {
		t.Errorf("expected a malformed address to be rejected")
	}
	if IsValidAddress("0x123") {
		t.Errorf("expected a short address to be rejected")
	}
}

func TestSetAddressOnlyAndGetStoredMiningAddress(t *testing.T) {
	paths := platform.NewWithRoot(t.TempDir())
	const addr = "0x000000000000000000000000000000000000dead"

	if err := SetAddressOnly(paths, addr); err != nil {
		t.Fatalf("SetAddressOnly returned error: %v", err)
	}

	got, err := GetStoredMiningAddress(paths, nil)
	if err != nil {
		t.Fatalf("GetStoredMiningAddress returned error: %v", err)
	}
	want := "0x000000000000000000000000000000000000dEaD"
	if got != want {
		t.Errorf("GetStoredMiningAddress() = %s, want %s", got, want)
	}
}

func TestSetAddressOnlyRejectsInvalid(t *testing.T) {
	paths := platform.NewWithRoot(t.TempDir())
	if err := SetAddressOnly(paths, "garbage"); err == nil {
		t.Errorf("expected an error for an invalid address")
	}
}

func TestWriteKeystoreToMinerAndReadBack(t *testing.T) {
	paths := platform.NewWithRoot(t.TempDir())

	gen, err := Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	addr, err := WriteKeystoreToMiner(paths, 1, gen.PrivateKey, "correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("WriteKeystoreToMiner returned error: %v", err)
	}
	if addr != gen.Address {
		t.Errorf("keystore address = %s, want %s", addr, gen.Address)
	}

	entries, err := os.ReadDir(paths.MinerKeystoreDir(1))
	if err != nil {
		t.Fatalf("read keystore dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one keystore file, got %d", len(entries))
	}

	info, err := entries[0].Info()
	if err != nil {
		t.Fatalf("stat keystore file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("keystore file mode = %o, want 0600", perm)
	}

	got, err := GetStoredMiningAddress(paths, intPtr(1))
	if err != nil {
		t.Fatalf("GetStoredMiningAddress returned error: %v", err)
	}
	if got != gen.Address {
		t.Errorf("GetStoredMiningAddress() = %s, want %s", got, gen.Address)
	}
}

func TestGetWalletInfoModes(t *testing.T) {
	paths := platform.NewWithRoot(t.TempDir())

	info, err := GetWalletInfo(paths, intPtr(1))
	if err != nil {
		t.Fatalf("GetWalletInfo returned error: %v", err)
	}
	if info.Mode != "none" {
		t.Errorf("expected mode none before any wallet state, got %s", info.Mode)
	}

	if err := SetAddressOnly(paths, "0x000000000000000000000000000000000000dead"); err != nil {
		t.Fatalf("SetAddressOnly: %v", err)
	}
	info, err = GetWalletInfo(paths, intPtr(1))
	if err != nil {
		t.Fatalf("GetWalletInfo returned error: %v", err)
	}
	if info.Mode != "address_only" {
		t.Errorf("expected mode address_only, got %s", info.Mode)
	}
}

func TestSaveAndLoadMnemonic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.enc")
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	const password = "hunter2"

	if err := SaveMnemonic(path, mnemonic, password); err != nil {
		t.Fatalf("SaveMnemonic returned error: %v", err)
	}
	if !HasMnemonic(path) {
		t.Errorf("expected HasMnemonic to report true after saving")
	}

	got, err := LoadMnemonic(path, password)
	if err != nil {
		t.Fatalf("LoadMnemonic returned error: %v", err)
	}
	if got != mnemonic {
		t.Errorf("LoadMnemonic() = %q, want %q", got, mnemonic)
	}
}

func TestLoadMnemonicWrongPassword(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.enc")

	if err := SaveMnemonic(path, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "correct"); err != nil {
		t.Fatalf("SaveMnemonic: %v", err)
	}

	if _, err := LoadMnemonic(path, "wrong"); err == nil {
		t.Errorf("expected an error when decrypting with the wrong password")
	}
}

func TestLoadMnemonicMissingFile(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadMnemonic(filepath.Join(dir, "missing.enc"), "whatever")
	if err != nil {
		t.Fatalf("expected no error for a missing store, got: %v", err)
	}
	if got != "" {
		t.Errorf("expected an empty mnemonic for a missing store, got %q", got)
	}
}

func intPtr(i int) *int { return &i }
