// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metadata implements the service keeping chain wide parameters.
package metadata

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/sdk"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/xenv"
)

// Name is the service name.
const Name = "metadata"

const metadataKey = "metadata"

// CodeNotInitialized is returned when metadata is absent.
const CodeNotInitialized = service.CodeServiceDefined + 1

// Service keeps the chain metadata.
type Service struct {
	sdk *sdk.SDK
}

// New creates the service.
func New(s *sdk.SDK) service.Service {
	return &Service{s}
}

func (s *Service) Name() string { return Name }

func (s *Service) Methods() []service.Method {
	return []service.Method{
		{Name: "get_metadata", ReadOnly: true, Run: s.getMetadata},
		{Name: "update_metadata", Run: s.updateMetadata},
	}
}

// InitGenesis stores the initial metadata.
func (s *Service) InitGenesis(ctx *xenv.ServiceContext, payload []byte) error {
	var m Metadata
	if err := json.Unmarshal(payload, &m); err != nil {
		return errors.Wrap(err, "decode metadata")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return s.sdk.SetValue(ctx, metadataKey, &m)
}

// Get returns the metadata, nil if not initialized.
func (s *Service) Get(ctx *xenv.ServiceContext) (*Metadata, error) {
	var m Metadata
	found, err := s.sdk.GetValue(ctx, metadataKey, &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *Service) getMetadata(ctx *xenv.ServiceContext) service.Response {
	m, err := s.Get(ctx)
	if err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	if m == nil {
		return service.Error(CodeNotInitialized, "metadata not initialized")
	}
	return service.OKJSON(m)
}

func (s *Service) updateMetadata(ctx *xenv.ServiceContext) service.Response {
	if !service.Admitted(ctx) {
		return service.Error(service.CodePermissionDenied, "admission required")
	}

	var p UpdateMetadataPayload
	if err := json.Unmarshal(ctx.Payload(), &p); err != nil {
		return service.Errorf(service.CodeBadPayload, "decode payload: %v", err)
	}
	if err := p.validate(); err != nil {
		return service.Error(service.CodeBadPayload, err.Error())
	}

	m, err := s.Get(ctx)
	if err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	if m == nil {
		return service.Error(CodeNotInitialized, "metadata not initialized")
	}

	m.VerifierList = p.VerifierList
	m.Interval = p.Interval
	m.ProposeRatio = p.ProposeRatio
	m.PrevoteRatio = p.PrevoteRatio
	m.PrecommitRatio = p.PrecommitRatio
	m.BrakeRatio = p.BrakeRatio

	if err := s.sdk.SetValue(ctx, metadataKey, m); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	if err := s.sdk.EventLog(ctx, "UpdateMetadata", ctx.Payload()); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	return service.OK(nil)
}
