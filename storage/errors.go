// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when the requested item is not stored.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when different content is inserted under an occupied key.
	ErrConflict = errors.New("conflicting content")
)

// IsNotFound returns whether err is caused by missing item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
