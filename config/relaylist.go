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

package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// KnownRelay is one entry in the relays.toml allow-list the CLI uses
// to flag a pairing URI whose bridge isn't on the known-good list.
// This never gates the interactor itself, which takes the bridge from
// the URI verbatim; it only informs the CLI's "status" output.
type KnownRelay struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// RelayList is the parsed contents of a relays.toml file.
type RelayList struct {
	Relays []KnownRelay `toml:"relays"`
}

// LoadRelayList parses path. A missing file yields an empty list, not
// an error.
func LoadRelayList(path string) (RelayList, error) {
	var rl RelayList
	if path == "" {
		return rl, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return rl, nil
	}
	if _, err := toml.DecodeFile(path, &rl); err != nil {
		return RelayList{}, fmt.Errorf("config: parse relay list %s: %w", path, err)
	}
	return rl, nil
}

// Known reports whether bridge matches a URL in the list.
func (rl RelayList) Known(bridge string) bool {
	for _, r := range rl.Relays {
		if r.URL == bridge {
			return true
		}
	}
	return false
}
