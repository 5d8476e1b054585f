package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.PlanStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts plan state
// using AES-GCM. Stored snapshots keep only the run ID and coarse status in
// the clear; itineraries and step outputs travel inside the envelope.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.PlanStore) ports.PlanStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, planRunID string, state *domain.PlanState) error {
	plainText, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal plan state: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt plan state: %w", err)
	}

	// The envelope exposes the run state for monitoring; everything else is
	// opaque.
	envelope := &domain.PlanState{
		PlanRunID: state.PlanRunID,
		State:     state.State,
		Outputs: map[string]any{
			"__encrypted__": base64.StdEncoding.EncodeToString(ciphertext),
		},
	}

	return m.next.Save(ctx, planRunID, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	envelope, err := m.next.Load(ctx, planRunID)
	if err != nil {
		return nil, err
	}

	encryptedStr, ok := envelope.Outputs["__encrypted__"].(string)
	if !ok {
		// A configured key means we expect every stored snapshot to be an
		// envelope. Fail secure instead of passing plain data through.
		return nil, errors.New("plan state is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt plan state: %w", err)
	}

	var realState domain.PlanState
	if err := json.Unmarshal(plainText, &realState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted plan state: %w", err)
	}

	return &realState, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, planRunID string) error {
	return m.next.Delete(ctx, planRunID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
