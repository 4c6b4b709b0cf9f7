package credstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	identityFile    = "identity.key"
	credentialsFile = "credentials.age"
)

// Sealed is a file-backed Store encrypted with age. A per-device x25519
// identity is generated on first open and kept next to the ciphertext with
// 0600 permissions; the entries live in a single encrypted JSON map that
// is rewritten atomically on every mutation.
//
// This is the on-device equivalent of the platform secure-storage facility:
// credentials at rest are unreadable without the key file, and the key file
// never leaves the device.
type Sealed struct {
	dir       string
	identity  *age.X25519Identity
	recipient *age.X25519Recipient

	mu sync.Mutex
}

// OpenSealed opens (or initializes) a sealed store rooted at dir.
func OpenSealed(dir string) (*Sealed, error) {
	if dir == "" {
		return nil, errors.New("credstore: sealed store directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credstore: creating store directory: %w", err)
	}

	identity, err := loadOrCreateIdentity(filepath.Join(dir, identityFile))
	if err != nil {
		return nil, err
	}

	return &Sealed{
		dir:       dir,
		identity:  identity,
		recipient: identity.Recipient(),
	}, nil
}

func loadOrCreateIdentity(path string) (*age.X25519Identity, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		identity, err := age.ParseX25519Identity(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("credstore: parsing device identity: %w", err)
		}
		return identity, nil
	case os.IsNotExist(err):
		identity, err := age.GenerateX25519Identity()
		if err != nil {
			return nil, fmt.Errorf("credstore: generating device identity: %w", err)
		}
		if err := os.WriteFile(path, []byte(identity.String()+"\n"), 0o600); err != nil {
			return nil, fmt.Errorf("credstore: writing device identity: %w", err)
		}
		return identity, nil
	default:
		return nil, fmt.Errorf("credstore: reading device identity: %w", err)
	}
}

// Get implements [Store].
func (s *Sealed) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set implements [Store].
func (s *Sealed) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(entries)
}

// Delete implements [Store]. Deleting a missing key is a no-op.
func (s *Sealed) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *Sealed) load() (map[string]string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, credentialsFile))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: reading credentials: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(raw), s.identity)
	if err != nil {
		return nil, fmt.Errorf("credstore: decrypting credentials: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("credstore: decrypting credentials: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, fmt.Errorf("credstore: decoding credentials: %w", err)
	}
	return entries, nil
}

// save encrypts and atomically replaces the credentials file. The rename
// keeps a crash from ever leaving a truncated ciphertext behind.
func (s *Sealed) save(entries map[string]string) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("credstore: encoding credentials: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, s.recipient)
	if err != nil {
		return fmt.Errorf("credstore: creating encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("credstore: encrypting credentials: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("credstore: finalizing encryption: %w", err)
	}

	target := filepath.Join(s.dir, credentialsFile)
	tmp, err := os.CreateTemp(s.dir, credentialsFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("credstore: staging credentials: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(ciphertext.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: writing credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: securing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: closing credentials: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: replacing credentials: %w", err)
	}
	return nil
}
