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

// Package uri decodes a WalletConnect v1 pairing URI into a Session
// descriptor.
package uri

import (
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// Source labels which pairing-URI variant produced the Session.
type Source string

const (
	SourceWC      Source = "wc"
	SourceCWE     Source = "cwe"
	SourceUnknown Source = "unknown"
)

// Session is the immutable descriptor extracted from a pairing URI. It
// is shared, never mutated, for the lifetime of the interactor that
// owns it.
type Session struct {
	Topic            string  `validate:"required"`
	Version          string  `validate:"required"`
	Bridge           string  `validate:"required,url"`
	Key              []byte  `validate:"required,len=32"`
	NumericalVersion float64
	Source           Source
	IsExtension      bool
}

var validate = validator.New()

// Equal reports whether two sessions describe the same pairing. The
// interactor uses it to decide whether a store hit matches the current
// URI and the handshake watchdog can be skipped.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Topic == other.Topic &&
		s.Version == other.Version &&
		s.Bridge == other.Bridge &&
		string(s.Key) == string(other.Key)
}

// Parse decodes raw into a Session. raw is percent-decoded once, only
// when it does not already begin with a recognized scheme prefix
// ("wc:" or "CWE:").
func Parse(raw string) (*Session, error) {
	working, source, err := resolveScheme(raw)
	if err != nil {
		return nil, err
	}

	idx := strings.IndexByte(working, ':')
	if idx < 0 {
		return nil, invalidURI("missing ':' after scheme")
	}
	scheme := working[:idx]
	rest := working[idx+1:]

	u, err := url.Parse(scheme + "://" + rest)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeInvalidURI, err, "malformed URI")
	}

	topic := u.User.Username()
	version := u.Hostname()
	if topic == "" {
		return nil, invalidURI("missing topic")
	}
	if version == "" {
		return nil, invalidURI("missing version")
	}

	query := u.Query()

	bridge := query.Get("bridge")
	if bridge == "" {
		return nil, invalidURI("missing bridge parameter")
	}
	bridgeURL, err := url.Parse(bridge)
	if err != nil || !bridgeURL.IsAbs() {
		return nil, invalidURI("bridge is not an absolute URL")
	}

	keyHex := strings.ToLower(query.Get("key"))
	if keyHex == "" || len(keyHex)%2 != 0 {
		return nil, invalidURI("key is missing or not even-length hex")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeInvalidURI, err, "key is not valid hex")
	}
	if len(key) != 32 {
		return nil, invalidURI("key must decode to 32 bytes")
	}

	sess := &Session{
		Topic:            topic,
		Version:          version,
		Bridge:           bridge,
		Key:              key,
		NumericalVersion: numericalVersion(version),
		Source:           source,
		IsExtension:      query.Get("role") == "extension",
	}

	if err := validate.Struct(sess); err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeInvalidURI, err, "session failed validation")
	}

	return sess, nil
}

func resolveScheme(raw string) (working string, source Source, err error) {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "wc:"):
		return raw, SourceWC, nil
	case strings.HasPrefix(lower, "cwe:"):
		return raw, SourceCWE, nil
	}

	if !looksPercentEncoded(raw) {
		return "", "", invalidURI("unrecognized scheme")
	}

	decoded, decErr := url.QueryUnescape(raw)
	if decErr != nil {
		return "", "", wcerrors.Wrap(wcerrors.CodeInvalidURI, decErr, "percent-decode failed")
	}
	decodedLower := strings.ToLower(decoded)
	switch {
	case strings.HasPrefix(decodedLower, "wc:"):
		return decoded, SourceWC, nil
	case strings.HasPrefix(decodedLower, "cwe:"):
		return decoded, SourceCWE, nil
	default:
		return "", "", invalidURI("unrecognized scheme after percent-decode")
	}
}

func looksPercentEncoded(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "%3a")
}

func numericalVersion(version string) float64 {
	v, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return 1.0
	}
	return v
}

func invalidURI(desc string) error {
	return wcerrors.New(wcerrors.CodeInvalidURI, desc)
}
