// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package envelope implements the WalletConnect v1 {iv,data,hmac}
// encryption envelope: AES-256-CBC with PKCS#7 padding, integrity
// protected by a keyed HMAC-SHA256 over ciphertext||iv. The scheme is a
// fixed legacy wire format the peer dictates; a generic AEAD is not a
// drop-in substitute.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

const (
	// KeySize is the required length, in bytes, of the session key.
	KeySize = 32
	ivSize  = aes.BlockSize
)

// Envelope is the wire representation exchanged over the relay: every
// field is lowercase hex.
type Envelope struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
	HMAC string `json:"hmac"`
}

// MarshalJSON/UnmarshalJSON are the default struct tags' behavior;
// Envelope needs no custom codec beyond what encoding/json already
// derives from the json tags above. ToJSON/FromJSON are convenience
// wrappers used by the relay frame codec, which embeds envelopes as a
// JSON string.
func ToJSON(e *Envelope) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal envelope")
	}
	return string(b), nil
}

func FromJSON(s string) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "unmarshal envelope")
	}
	return &e, nil
}

// Encrypt produces a fresh Envelope for plaintext under key, which must
// be exactly KeySize bytes — the full 32 bytes serve as the AES-256 key,
// per the canonical WalletConnect v1 scheme. Some ecosystem
// implementations instead split the key in half; this package always
// uses the full key and must be validated against the peer it targets.
func Encrypt(plaintext, key []byte) (*Envelope, error) {
	if len(key) != KeySize {
		return nil, wcerrors.New(wcerrors.CodeUnknown, "key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "new AES cipher")
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "read IV")
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := computeHMAC(key, ciphertext, iv)

	return &Envelope{
		IV:   hex.EncodeToString(iv),
		Data: hex.EncodeToString(ciphertext),
		HMAC: hex.EncodeToString(mac),
	}, nil
}

// Decrypt verifies e's HMAC in constant time, then AES-CBC decrypts and
// unpads. A mismatch surfaces CodeHmacMismatch without touching the
// ciphertext; a padding/length error surfaces CodeDecryptionFailed.
func Decrypt(e *Envelope, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, wcerrors.New(wcerrors.CodeUnknown, "key must be 32 bytes")
	}

	iv, err := hex.DecodeString(e.IV)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeDecryptionFailed, err, "decode iv hex")
	}
	ciphertext, err := hex.DecodeString(e.Data)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeDecryptionFailed, err, "decode data hex")
	}
	wantMAC, err := hex.DecodeString(e.HMAC)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeHmacMismatch, err, "decode hmac hex")
	}

	gotMAC := computeHMAC(key, ciphertext, iv)
	if !hmac.Equal(gotMAC, wantMAC) {
		return nil, wcerrors.New(wcerrors.CodeHmacMismatch, "")
	}

	if len(iv) != ivSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, wcerrors.New(wcerrors.CodeDecryptionFailed, "malformed ciphertext")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeDecryptionFailed, err, "new AES cipher")
	}

	plainPadded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plainPadded, ciphertext)

	plaintext, err := pkcs7Unpad(plainPadded, aes.BlockSize)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeDecryptionFailed, err, "unpad")
	}

	return plaintext, nil
}

// computeHMAC is HMAC-SHA256(key, ciphertext||iv).
func computeHMAC(key, ciphertext, iv []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(ciphertext)
	mac.Write(iv)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, wcerrors.New(wcerrors.CodeDecryptionFailed, "invalid padded length")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, wcerrors.New(wcerrors.CodeDecryptionFailed, "invalid pkcs7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, wcerrors.New(wcerrors.CodeDecryptionFailed, "invalid pkcs7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}
