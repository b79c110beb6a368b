// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the genesis block, which initializes the state
// of services.
package genesis

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/akki2825/huobi-chain/huobi"
)

// Service is the genesis payload of a service.
type Service struct {
	Name    string `yaml:"name"`
	Payload string `yaml:"payload"`
}

// Genesis describes the genesis block.
type Genesis struct {
	ChainID   huobi.Hash    `yaml:"chain_id"`
	Timestamp uint64        `yaml:"timestamp"`
	Proposer  huobi.Address `yaml:"proposer"`
	Services  []Service     `yaml:"services"`
}

// Parse parses genesis from yaml.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var g Genesis
	if err := dec.Decode(&g); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Load loads genesis from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Validate checks the genesis.
func (g *Genesis) Validate() error {
	if g.ChainID.IsZero() {
		return errors.New("genesis: chain_id required")
	}
	seen := make(map[string]bool)
	for _, s := range g.Services {
		if s.Name == "" {
			return errors.New("genesis: empty service name")
		}
		if seen[s.Name] {
			return errors.Errorf("genesis: service %q initialized twice", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
