// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package services

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/api/utils"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/service"
)

// Reader calls read only methods on the latest state.
type Reader interface {
	Read(ctx context.Context, caller huobi.Address, svc, method string, payload []byte) (service.Response, error)
}

// ReadRequest is the body of a service query.
type ReadRequest struct {
	Caller  *huobi.Address `json:"caller"`
	Payload string         `json:"payload"`
}

type JSONResponse struct {
	Code    uint64 `json:"code"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

type Services struct {
	reader Reader
}

func New(reader Reader) *Services {
	return &Services{reader}
}

func (s *Services) handleRead(w http.ResponseWriter, req *http.Request) error {
	var body ReadRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var caller huobi.Address
	if body.Caller != nil {
		caller = *body.Caller
	}

	vars := mux.Vars(req)
	resp, err := s.reader.Read(req.Context(), caller, vars["service"], vars["method"], []byte(body.Payload))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONResponse{
		Code:    resp.Code,
		Data:    string(resp.Data),
		Message: resp.Message,
	})
}

func (s *Services) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{service}/{method}").
		Methods(http.MethodPost).
		Name("services_read").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRead))
}
