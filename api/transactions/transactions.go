// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/api/utils"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/storage"
)

type Transactions struct {
	storage *storage.Storage
}

func New(s *storage.Storage) *Transactions {
	return &Transactions{s}
}

func parseHash(req *http.Request) (huobi.Hash, error) {
	hash, err := huobi.ParseHash(mux.Vars(req)["hash"])
	if err != nil {
		return huobi.Hash{}, utils.BadRequest(errors.WithMessage(err, "hash"))
	}
	return hash, nil
}

func (t *Transactions) handleGetTransactionByHash(w http.ResponseWriter, req *http.Request) error {
	hash, err := parseHash(req)
	if err != nil {
		return err
	}
	trx, height, err := t.storage.GetTransactionByHash(req.Context(), hash)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, convertTransaction(trx, height))
}

func (t *Transactions) handleGetReceiptByHash(w http.ResponseWriter, req *http.Request) error {
	hash, err := parseHash(req)
	if err != nil {
		return err
	}
	receipt, err := t.storage.GetReceiptByHash(req.Context(), hash)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{hash}").
		Methods(http.MethodGet).
		Name("transactions_get_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByHash))
	sub.Path("/{hash}/receipt").
		Methods(http.MethodGet).
		Name("transactions_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReceiptByHash))
}
