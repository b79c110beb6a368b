// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kyc implements the service managing kyc organizations and the
// tags they put on users.
package kyc

import (
	"encoding/json"
	"slices"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/sdk"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/services/kyc/expression"
	"github.com/akki2825/huobi-chain/xenv"
)

// Name is the service name.
const Name = "kyc"

// service defined codes
const (
	CodeOrgExists = service.CodeServiceDefined + iota + 1
	CodeOrgNotFound
	CodeNotOrgAdmin
	CodeTagNotSupported
	CodeBadExpression
)

const orgNamesKey = "orgs"

func orgKey(name string) string { return "org:" + name }

func tagKey(org, tag string) string { return "tag:" + org + "." + tag }

// Service keeps kyc organizations and user tags.
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
		{Name: "register_org", Run: s.registerOrg},
		{Name: "update_user_tags", Run: s.updateUserTags},
		{Name: "get_orgs", ReadOnly: true, Run: s.getOrgs},
		{Name: "get_org_info", ReadOnly: true, Run: s.getOrgInfo},
		{Name: "get_user_tags", ReadOnly: true, Run: s.getUserTags},
		{Name: "eval_user_tag_expression", ReadOnly: true, Run: s.evalUserTagExpression},
	}
}

// InitGenesis registers the genesis orgs.
func (s *Service) InitGenesis(ctx *xenv.ServiceContext, payload []byte) error {
	var g Genesis
	if err := json.Unmarshal(payload, &g); err != nil {
		return errors.Wrap(err, "decode kyc genesis")
	}
	for _, org := range g.Orgs {
		if err := org.validate(); err != nil {
			return err
		}
		if resp := s.register(ctx, org); resp.IsError() {
			return resp.Err()
		}
	}
	return nil
}

func decode(ctx *xenv.ServiceContext, v any) *service.Response {
	if err := json.Unmarshal(ctx.Payload(), v); err != nil {
		resp := service.Errorf(service.CodeBadPayload, "decode payload: %v", err)
		return &resp
	}
	return nil
}

func internal(err error) service.Response {
	return service.Error(service.CodeInternal, err.Error())
}

func (s *Service) loadOrg(ctx *xenv.ServiceContext, name string) (*OrgInfo, error) {
	var org OrgInfo
	found, err := s.sdk.GetValue(ctx, orgKey(name), &org)
	if err != nil || !found {
		return nil, err
	}
	return &org, nil
}

func (s *Service) register(ctx *xenv.ServiceContext, org *OrgInfo) service.Response {
	existing, err := s.loadOrg(ctx, org.Name)
	if err != nil {
		return internal(err)
	}
	if existing != nil {
		return service.Errorf(CodeOrgExists, "org %q exists", org.Name)
	}

	var names []string
	if _, err := s.sdk.GetValue(ctx, orgNamesKey, &names); err != nil {
		return internal(err)
	}
	if err := s.sdk.SetValue(ctx, orgNamesKey, append(names, org.Name)); err != nil {
		return internal(err)
	}
	if err := s.sdk.SetValue(ctx, orgKey(org.Name), org); err != nil {
		return internal(err)
	}

	data, err := json.Marshal(org)
	if err != nil {
		return internal(err)
	}
	if err := s.sdk.EventLog(ctx, "RegisterOrg", data); err != nil {
		return internal(err)
	}
	return service.OK(nil)
}

func (s *Service) registerOrg(ctx *xenv.ServiceContext) service.Response {
	if !service.Admitted(ctx) {
		return service.Error(service.CodePermissionDenied, "admission required")
	}
	var org OrgInfo
	if resp := decode(ctx, &org); resp != nil {
		return *resp
	}
	if err := org.validate(); err != nil {
		return service.Error(service.CodeBadPayload, err.Error())
	}
	return s.register(ctx, &org)
}

func (s *Service) updateUserTags(ctx *xenv.ServiceContext) service.Response {
	var p UpdateUserTagsPayload
	if resp := decode(ctx, &p); resp != nil {
		return *resp
	}
	org, err := s.loadOrg(ctx, p.OrgName)
	if err != nil {
		return internal(err)
	}
	if org == nil {
		return service.Errorf(CodeOrgNotFound, "org %q not found", p.OrgName)
	}
	if ctx.Caller() != org.Admin {
		return service.Errorf(CodeNotOrgAdmin, "%v is not admin of org %q", ctx.Caller(), org.Name)
	}

	// sorted, so that state access is deterministic
	tags := make([]string, 0, len(p.Tags))
	for tag, values := range p.Tags {
		if !org.supports(tag) {
			return service.Errorf(CodeTagNotSupported, "tag %q not supported by org %q", tag, org.Name)
		}
		if err := validateValues(values); err != nil {
			return service.Errorf(service.CodeBadPayload, "tag %q: %v", tag, err)
		}
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	for _, tag := range tags {
		values := p.Tags[tag]
		if len(values) == 0 {
			err = s.sdk.RemoveAccountValue(ctx, p.User, tagKey(org.Name, tag))
		} else {
			err = s.sdk.SetAccountValue(ctx, p.User, tagKey(org.Name, tag), values)
		}
		if err != nil {
			return internal(err)
		}
	}

	if err := s.sdk.EventLog(ctx, "UpdateUserTags", ctx.Payload()); err != nil {
		return internal(err)
	}
	return service.OK(nil)
}

func (s *Service) getOrgs(ctx *xenv.ServiceContext) service.Response {
	var names []string
	if _, err := s.sdk.GetValue(ctx, orgNamesKey, &names); err != nil {
		return internal(err)
	}
	if names == nil {
		names = []string{}
	}
	return service.OKJSON(names)
}

func (s *Service) getOrgInfo(ctx *xenv.ServiceContext) service.Response {
	var p GetOrgInfoPayload
	if resp := decode(ctx, &p); resp != nil {
		return *resp
	}
	org, err := s.loadOrg(ctx, p.OrgName)
	if err != nil {
		return internal(err)
	}
	if org == nil {
		return service.Errorf(CodeOrgNotFound, "org %q not found", p.OrgName)
	}
	return service.OKJSON(org)
}

func (s *Service) getUserTags(ctx *xenv.ServiceContext) service.Response {
	var p GetUserTagsPayload
	if resp := decode(ctx, &p); resp != nil {
		return *resp
	}
	org, err := s.loadOrg(ctx, p.OrgName)
	if err != nil {
		return internal(err)
	}
	if org == nil {
		return service.Errorf(CodeOrgNotFound, "org %q not found", p.OrgName)
	}

	tags := make(map[string][]string)
	for _, tag := range org.SupportedTags {
		values, err := s.GetTags(ctx, p.User, org.Name, tag)
		if err != nil {
			return internal(err)
		}
		if len(values) > 0 {
			tags[tag] = values
		}
	}
	return service.OKJSON(tags)
}

func (s *Service) evalUserTagExpression(ctx *xenv.ServiceContext) service.Response {
	var p EvalUserTagExpressionPayload
	if resp := decode(ctx, &p); resp != nil {
		return *resp
	}
	node, err := expression.Parse(p.Expression)
	if err != nil {
		return service.Error(CodeBadExpression, err.Error())
	}
	ok, err := node.Eval(feed{s, ctx}, p.User)
	if err != nil {
		return internal(err)
	}
	return service.OKJSON(ok)
}

// GetTags returns values of the user's tag put by org.
func (s *Service) GetTags(ctx *xenv.ServiceContext, user huobi.Address, org, tag string) ([]string, error) {
	var values []string
	if _, err := s.sdk.GetAccountValue(ctx, user, tagKey(org, tag), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// feed binds the service to a call as the expression data feed.
type feed struct {
	s   *Service
	ctx *xenv.ServiceContext
}

func (f feed) GetTags(target huobi.Address, kyc, tag string) ([]string, error) {
	return f.s.GetTags(f.ctx, target, kyc, tag)
}
