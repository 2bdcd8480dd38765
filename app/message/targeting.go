package message

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

func parseRoles(raw []string) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(raw))
	for _, r := range raw {
		role, err := model.ParseRole(r)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// targetSpec is the creation-time targeting input: either an explicit
// recipient list or a role filter, plus exclusions and the include-creator
// flag. Resolution runs exactly once; the result is frozen on the message.
type targetSpec struct {
	explicitIDs    []string
	roles          []string
	allUsers       bool
	excludeIDs     []string
	includeCreator bool
	creatorID      string
}

// resolveRecipients snapshots the recipient set. Role membership is queried
// once, at this moment; later role changes never add or remove recipients.
// Exclusion always wins over inclusion. An empty result is valid.
func (s *service) resolveRecipients(ctx context.Context, spec targetSpec) ([]string, error) {
	var base []string
	var err error

	switch {
	case len(spec.explicitIDs) > 0:
		base = spec.explicitIDs
	case spec.allUsers:
		base, err = s.identity.ListAllIDs(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "unable to snapshot user set")
		}
	case len(spec.roles) > 0:
		roles, perr := parseRoles(spec.roles)
		if perr != nil {
			return nil, perr
		}
		base, err = s.identity.ListIDsByRoles(ctx, roles)
		if err != nil {
			return nil, errors.Wrap(err, "unable to snapshot role membership")
		}
	}

	excluded := make(map[string]struct{}, len(spec.excludeIDs)+1)
	for _, id := range spec.excludeIDs {
		excluded[id] = struct{}{}
	}
	if spec.creatorID != "" && !spec.includeCreator {
		excluded[spec.creatorID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(base))
	resolved := make([]string, 0, len(base))
	add := func(id string) {
		if id == "" {
			return
		}
		if _, skip := excluded[id]; skip {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}

	for _, id := range base {
		add(id)
	}
	if spec.includeCreator {
		add(spec.creatorID)
	}

	sort.Strings(resolved)
	return resolved, nil
}
