package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"go-ai-nft-minter/internal/models"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNoSigner     = errors.New("no signer configured (set PrivateKey or KeystorePath)")
	ErrSignerLocked = errors.New("signer could not be unlocked")
)

// Signer holds the key that authorizes mint transactions.
type Signer struct {
	key     *ecdsa.PrivateKey
	Address common.Address
}

// SignerFunc obtains the signer when a mint starts, so a locked or missing
// wallet fails that mint rather than startup.
type SignerFunc func() (*Signer, error)

// NewSigner wraps an already loaded private key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}
}

// SignerFromHex parses a hex private key, with or without 0x prefix.
func SignerFromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key: %v", ErrSignerLocked, err)
	}
	return NewSigner(key), nil
}

// SignerFromKeystore decrypts a web3 secret storage file.
func SignerFromKeystore(path, passphrase string) (*Signer, error) {
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading keystore %s: %v", ErrSignerLocked, path, err)
	}
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting keystore %s: %v", ErrSignerLocked, path, err)
	}
	return NewSigner(key.PrivateKey), nil
}

// ConfigSigner returns a SignerFunc reading the key settings of cfg.
// A raw PrivateKey wins over a keystore.
func ConfigSigner(cfg models.Config) SignerFunc {
	return func() (*Signer, error) {
		switch {
		case cfg.PrivateKey != "":
			return SignerFromHex(cfg.PrivateKey)
		case cfg.KeystorePath != "":
			return SignerFromKeystore(cfg.KeystorePath, cfg.KeystorePassphrase)
		default:
			return nil, ErrNoSigner
		}
	}
}
