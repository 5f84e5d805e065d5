package wallet

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

const hardenedOffset = 0x80000000

// ethDerivationPath is the fixed BIP44 path for the first account of a
// standard Ethereum wallet: m/44'/60'/0'/0/0.
var ethDerivationPath = []uint32{
	44 + hardenedOffset,
	60 + hardenedOffset,
	0 + hardenedOffset,
	0,
	0,
}

// extendedKey is a BIP32 private extended key: a 32-byte scalar plus its
// 32-byte chain code.
type extendedKey struct {
	key       []byte
	chainCode []byte
}

func masterKeyFromSeed(seed []byte) *extendedKey {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return &extendedKey{key: sum[:32], chainCode: sum[32:]}
}

func (k *extendedKey) deriveChild(index uint32) (*extendedKey, error) {
	data := make([]byte, 0, 37)
	if index >= hardenedOffset {
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append(data, compressedPublicKey(k.key)...)
	}
	idxBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(idxBytes, index)
	data = append(data, idxBytes...)

	mac := hmac.New(sha512.New, k.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	n := crypto.S256().Params().N
	il := new(big.Int).SetBytes(sum[:32])
	parent := new(big.Int).SetBytes(k.key)

	child := new(big.Int).Add(il, parent)
	child.Mod(child, n)
	if child.Sign() == 0 {
		return nil, errors.New("derived a zero-valued child key, retry with a different seed")
	}

	childKeyBytes := make([]byte, 32)
	b := child.Bytes()
	copy(childKeyBytes[32-len(b):], b)

	return &extendedKey{key: childKeyBytes, chainCode: sum[32:]}, nil
}

func compressedPublicKey(privKey []byte) []byte {
	priv, err := crypto.ToECDSA(privKey)
	if err != nil {
		// deriveChild only ever feeds scalars already reduced mod the
		// curve order, so this failing indicates a derivation bug.
		panic(err)
	}
	return crypto.CompressPubkey(&priv.PublicKey)
}

// derivePrivateKey walks ethDerivationPath from a BIP39 seed and returns the
// resulting secp256k1 private key.
func derivePrivateKey(seed []byte) (*ecdsa.PrivateKey, error) {
	key := masterKeyFromSeed(seed)
	var err error
	for _, idx := range ethDerivationPath {
		key, err = key.deriveChild(idx)
		if err != nil {
			return nil, err
		}
	}
	return crypto.ToECDSA(key.key)
}
