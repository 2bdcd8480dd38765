package message

import (
	"context"
	"reflect"
	"testing"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

func TestResolveRecipients(t *testing.T) {
	ident := newFakeIdentity(
		user("admin", model.RoleAdministrator),
		user("lead1", model.RoleLeader),
		user("part1", model.RoleParticipant),
		user("part2", model.RoleParticipant),
	)
	svc := newTestService(NewMemStore(), ident, nil).(*service)

	cases := []struct {
		name string
		spec targetSpec
		want []string
	}{
		{
			"explicit ids with duplicates and blanks",
			targetSpec{explicitIDs: []string{"u2", "u1", "u2", "", "u3"}},
			[]string{"u1", "u2", "u3"},
		},
		{
			"all users excludes creator by default",
			targetSpec{allUsers: true, creatorID: "admin"},
			[]string{"lead1", "part1", "part2"},
		},
		{
			"include creator",
			targetSpec{allUsers: true, creatorID: "admin", includeCreator: true},
			[]string{"admin", "lead1", "part1", "part2"},
		},
		{
			"exclusion wins over include creator",
			targetSpec{allUsers: true, creatorID: "admin", includeCreator: true,
				excludeIDs: []string{"admin", "part2"}},
			[]string{"lead1", "part1"},
		},
		{
			"role filter",
			targetSpec{roles: []string{string(model.RoleParticipant)}, creatorID: "admin"},
			[]string{"part1", "part2"},
		},
		{
			"role filter with no members",
			targetSpec{roles: []string{string(model.RoleSuperAdmin)}, creatorID: "admin"},
			[]string{},
		},
		{
			"no base and no creator",
			targetSpec{},
			[]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.resolveRecipients(context.Background(), tc.spec)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveRecipientsRejectsUnknownRole(t *testing.T) {
	svc := newTestService(NewMemStore(), newFakeIdentity(), nil).(*service)
	_, err := svc.resolveRecipients(context.Background(), targetSpec{roles: []string{"Owner"}})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
