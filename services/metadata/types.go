// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metadata

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
)

// ValidatorExtend is a consensus validator with its weights.
type ValidatorExtend struct {
	BLSPubKey     hexutil.Bytes `json:"bls_pub_key"`
	Address       huobi.Address `json:"address"`
	ProposeWeight uint32        `json:"propose_weight"`
	VoteWeight    uint32        `json:"vote_weight"`
}

// Metadata is the chain wide parameters.
type Metadata struct {
	ChainID        huobi.Hash        `json:"chain_id"`
	CommonRef      hexutil.Bytes     `json:"common_ref"`
	TimeoutGap     uint64            `json:"timeout_gap"`
	CyclesLimit    uint64            `json:"cycles_limit"`
	CyclesPrice    uint64            `json:"cycles_price"`
	Interval       uint64            `json:"interval"`
	VerifierList   []ValidatorExtend `json:"verifier_list"`
	ProposeRatio   uint64            `json:"propose_ratio"`
	PrevoteRatio   uint64            `json:"prevote_ratio"`
	PrecommitRatio uint64            `json:"precommit_ratio"`
	BrakeRatio     uint64            `json:"brake_ratio"`
	TxNumLimit     uint64            `json:"tx_num_limit"`
	MaxTxSize      uint64            `json:"max_tx_size"`
}

// Validate checks the metadata.
func (m *Metadata) Validate() error {
	if m.ChainID.IsZero() {
		return errors.New("chain id required")
	}
	if m.Interval == 0 {
		return errors.New("zero interval")
	}
	return validateVerifiers(m.VerifierList)
}

// UpdateMetadataPayload is the payload of update_metadata.
type UpdateMetadataPayload struct {
	VerifierList   []ValidatorExtend `json:"verifier_list"`
	Interval       uint64            `json:"interval"`
	ProposeRatio   uint64            `json:"propose_ratio"`
	PrevoteRatio   uint64            `json:"prevote_ratio"`
	PrecommitRatio uint64            `json:"precommit_ratio"`
	BrakeRatio     uint64            `json:"brake_ratio"`
}

func (p *UpdateMetadataPayload) validate() error {
	if p.Interval == 0 {
		return errors.New("zero interval")
	}
	return validateVerifiers(p.VerifierList)
}

func validateVerifiers(list []ValidatorExtend) error {
	if len(list) == 0 {
		return errors.New("empty verifier list")
	}
	seen := make(map[huobi.Address]bool, len(list))
	for _, v := range list {
		if len(v.BLSPubKey) == 0 {
			return errors.Errorf("verifier %v: empty bls pubkey", v.Address)
		}
		if seen[v.Address] {
			return errors.Errorf("verifier %v: duplicated", v.Address)
		}
		seen[v.Address] = true
	}
	return nil
}
