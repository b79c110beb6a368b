// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/api/utils"
	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/chain"
	"github.com/akki2825/huobi-chain/storage"
)

type Blocks struct {
	storage *storage.Storage
	querier *chain.Querier
}

func New(s *storage.Storage, querier *chain.Querier) *Blocks {
	return &Blocks{
		s,
		querier,
	}
}

// getBlock returns nil if the block is not found.
func (b *Blocks) getBlock(req *http.Request) (*block.Block, error) {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	if !revision.Hash.IsZero() {
		blk, err := b.storage.GetBlockByHash(req.Context(), revision.Hash)
		if err != nil {
			if storage.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return blk, nil
	}
	return b.querier.GetBlockByHeight(revision.Height)
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	blk, err := b.getBlock(req)
	if err != nil {
		return err
	}
	if blk == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertBlock(blk))
}

func (b *Blocks) handleGetProof(w http.ResponseWriter, req *http.Request) error {
	blk, err := b.getBlock(req)
	if err != nil {
		return err
	}
	if blk == nil {
		return utils.WriteJSON(w, nil)
	}
	proof, err := b.querier.GetProof(blk.Header().Height())
	if err != nil {
		return err
	}
	if proof == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertProof(proof))
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("blocks_get_block").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
	sub.Path("/{revision}/proof").
		Methods(http.MethodGet).
		Name("blocks_get_proof").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetProof))
}
