package chain

import (
	"os"
	"path/filepath"
	"testing"

	"go-ai-nft-minter/internal/models"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerFromHex(t *testing.T) {
	for _, key := range []string{devKey, devKey[2:], "  " + devKey + "\n"} {
		s, err := SignerFromHex(key)
		require.NoError(t, err)
		assert.Equal(t, devAddress, s.Address.Hex())
	}

	_, err := SignerFromHex("0xnothex")
	assert.ErrorIs(t, err, ErrSignerLocked)
}

func writeKeystore(t *testing.T, passphrase string) string {
	t.Helper()
	pk, err := crypto.HexToECDSA(devKey[2:])
	require.NoError(t, err)
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(pk.PublicKey),
		PrivateKey: pk,
	}
	keyJSON, err := keystore.EncryptKey(key, passphrase, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keystore.json")
	require.NoError(t, os.WriteFile(path, keyJSON, 0600))
	return path
}

func TestSignerFromKeystore(t *testing.T) {
	path := writeKeystore(t, "correct horse")

	s, err := SignerFromKeystore(path, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, devAddress, s.Address.Hex())

	_, err = SignerFromKeystore(path, "wrong")
	assert.ErrorIs(t, err, ErrSignerLocked)

	_, err = SignerFromKeystore(filepath.Join(t.TempDir(), "missing.json"), "x")
	assert.ErrorIs(t, err, ErrSignerLocked)
}

func TestConfigSigner(t *testing.T) {
	_, err := ConfigSigner(models.Config{})()
	assert.ErrorIs(t, err, ErrNoSigner)

	s, err := ConfigSigner(models.Config{PrivateKey: devKey, KeystorePath: "/ignored"})()
	require.NoError(t, err)
	assert.Equal(t, devAddress, s.Address.Hex())

	path := writeKeystore(t, "pw")
	s, err = ConfigSigner(models.Config{KeystorePath: path, KeystorePassphrase: "pw"})()
	require.NoError(t, err)
	assert.Equal(t, devAddress, s.Address.Hex())
}
