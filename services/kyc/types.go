// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kyc

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/services/kyc/expression"
)

const (
	maxTagValues   = 64
	maxValueLength = 64
)

// OrgInfo describes a kyc organization.
type OrgInfo struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Admin         huobi.Address `json:"admin"`
	SupportedTags []string      `json:"supported_tags"`
}

func (o *OrgInfo) validate() error {
	if !expression.IsIdent(o.Name) {
		return errors.Errorf("invalid org name %q", o.Name)
	}
	if o.Admin.IsZero() {
		return errors.New("admin required")
	}
	if len(o.SupportedTags) == 0 {
		return errors.New("no supported tags")
	}
	seen := make(map[string]bool, len(o.SupportedTags))
	for _, tag := range o.SupportedTags {
		if !expression.IsIdent(tag) {
			return errors.Errorf("invalid tag name %q", tag)
		}
		if seen[tag] {
			return errors.Errorf("tag %q duplicated", tag)
		}
		seen[tag] = true
	}
	return nil
}

func (o *OrgInfo) supports(tag string) bool {
	for _, t := range o.SupportedTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Genesis is the genesis payload.
type Genesis struct {
	Orgs []*OrgInfo `json:"orgs"`
}

// GetOrgInfoPayload is the payload of get_org_info.
type GetOrgInfoPayload struct {
	OrgName string `json:"org_name"`
}

// UpdateUserTagsPayload is the payload of update_user_tags.
// A tag with no values is removed from the user.
type UpdateUserTagsPayload struct {
	OrgName string              `json:"org_name"`
	User    huobi.Address       `json:"user"`
	Tags    map[string][]string `json:"tags"`
}

// GetUserTagsPayload is the payload of get_user_tags.
type GetUserTagsPayload struct {
	OrgName string        `json:"org_name"`
	User    huobi.Address `json:"user"`
}

// EvalUserTagExpressionPayload is the payload of eval_user_tag_expression.
type EvalUserTagExpressionPayload struct {
	User       huobi.Address `json:"user"`
	Expression string        `json:"expression"`
}

func validateValues(values []string) error {
	if len(values) > maxTagValues {
		return errors.Errorf("too many values, max %d", maxTagValues)
	}
	for _, v := range values {
		if v == "" || len(v) > maxValueLength {
			return errors.Errorf("invalid value length %d", len(v))
		}
		if strings.ContainsRune(v, '`') {
			return errors.Errorf("invalid value %q", v)
		}
	}
	return nil
}
