// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
	"github.com/akki2825/huobi-chain/xenv"
)

// invalidTxError is the reason a tx is rejected without being executed.
type invalidTxError struct {
	msg string
}

func (e invalidTxError) Error() string {
	return e.msg
}

func invalidTx(format string, args ...any) error {
	return invalidTxError{fmt.Sprintf(format, args...)}
}

// validateTx checks the tx against the block it's included in.
// It doesn't touch the state.
func validateTx(t *tx.Transaction, blockCtx *xenv.BlockContext, timeoutGap uint64) error {
	if t.ChainID() != blockCtx.ChainID {
		return invalidTx("chain id mismatch, want %v got %v", blockCtx.ChainID, t.ChainID())
	}
	if t.Timeout() < blockCtx.Height {
		return invalidTx("tx expired at %v", t.Timeout())
	}
	if timeoutGap > 0 && t.Timeout() > blockCtx.Height+timeoutGap {
		return invalidTx("timeout %v too far ahead", t.Timeout())
	}
	if t.Service() == "" || t.Method() == "" {
		return invalidTx("empty call target")
	}
	return verifySignature(t)
}

// verifySignature checks the secp256k1 signature over the signing hash,
// and that the sender is derived from the signing key.
func verifySignature(t *tx.Transaction) error {
	pub := t.PubKey()
	if len(pub) == 0 {
		return invalidTx("unsigned tx")
	}
	if huobi.PubkeyToAddress(pub) != t.Sender() {
		return invalidTx("sender does not match pubkey")
	}
	sig := t.Signature()
	if len(sig) == crypto.SignatureLength {
		// drop the recovery id
		sig = sig[:crypto.SignatureLength-1]
	}
	hash := t.SigningHash()
	if !crypto.VerifySignature(pub, hash[:], sig) {
		return invalidTx("bad signature")
	}
	return nil
}
