//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package cellcipher implements the symmetric, key-committing cipher
// used to encrypt a single garbled-table cell under a pair of wire
// labels. It is the Go-idiomatic descendant of the garbler's
// AES-based encrypt/decrypt helpers, extended with an authentication
// tag so the evaluator can detect a wrong key pair instead of silently
// decrypting garbage (spec: "detect, with overwhelming probability,
// when a wrong key pair is supplied").
package cellcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrCellCorrupt is returned by Decrypt when the ciphertext does not
// authenticate under the given key pair.
var ErrCellCorrupt = errors.New("cellcipher: cell does not decrypt under key pair")

// Encrypt seals msg under the two keys k1 and k2. The zero nonce is
// safe here because every (k1, k2) key pair is drawn fresh per wire
// per garbled circuit and is never reused across evaluations (spec
// §3: "single-use — reusing any label across evaluations is a
// protocol break").
func Encrypt(k1, k2, msg []byte) ([]byte, error) {
	gcm, err := newAEAD(k1, k2)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	return gcm.Seal(nil, nonce, msg, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt under the same key
// pair. It returns ErrCellCorrupt when authentication fails, which is
// the signal the garbled-circuit evaluator uses to detect that it
// indexed the wrong table cell or that the table was tampered with.
func Decrypt(k1, k2, ct []byte) ([]byte, error) {
	gcm, err := newAEAD(k1, k2)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	msg, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrCellCorrupt
	}
	return msg, nil
}

// newAEAD derives a 32 byte AES key from k1 || k2 via HKDF-SHA256 and
// wraps it in an AES-GCM AEAD.
func newAEAD(k1, k2 []byte) (cipher.AEAD, error) {
	ikm := append(append([]byte{}, k1...), k2...)
	kdf := hkdf.New(sha256.New, ikm, nil, []byte("yaogc/cellcipher"))

	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
