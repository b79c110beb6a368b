// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

import "fmt"

// Iterate calls fn for each key/value pair in ascending key order,
// until fn returns false.
func (t *Trie) Iterate(fn func(key, value []byte) bool) error {
	_, err := t.walk(t.root, nil, fn)
	return err
}

func (t *Trie) walk(n node, path []byte, fn func(key, value []byte) bool) (bool, error) {
	switch n := n.(type) {
	case nil:
		return true, nil
	case valueNode:
		return fn(hexToKeybytes(path), n), nil
	case *shortNode:
		return t.walk(n.Val, concat(path, n.Key...), fn)
	case *fullNode:
		// the value slot holds a key which is the prefix of all others
		if cont, err := t.walk(n.Children[terminator], concat(path, terminator), fn); !cont || err != nil {
			return cont, err
		}
		for i := range terminator {
			if cont, err := t.walk(n.Children[i], concat(path, byte(i)), fn); !cont || err != nil {
				return cont, err
			}
		}
		return true, nil
	case hashNode:
		rn, err := t.resolveHash(n, path)
		if err != nil {
			return false, err
		}
		return t.walk(rn, path, fn)
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}
