package model

import "testing"

func TestParseMessageType(t *testing.T) {
	for _, valid := range []string{
		"announcement", "maintenance", "update", "warning",
		"auth_level_change", "event_notice", "welcome",
	} {
		if _, err := ParseMessageType(valid); err != nil {
			t.Errorf("ParseMessageType(%q): %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Announcement", "gossip"} {
		if _, err := ParseMessageType(invalid); err == nil {
			t.Errorf("ParseMessageType(%q) accepted", invalid)
		}
	}
}

func TestParsePriorityDefault(t *testing.T) {
	p, err := ParsePriority("")
	if err != nil || p != PriorityMedium {
		t.Fatalf("empty priority should default to medium, got %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("unknown priority accepted")
	}
}

func TestRoleOrdering(t *testing.T) {
	order := []Role{RoleParticipant, RoleLeader, RoleAdministrator, RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		if !order[i].AtLeast(order[i-1]) {
			t.Errorf("%s should be at least %s", order[i], order[i-1])
		}
		if order[i-1].AtLeast(order[i]) {
			t.Errorf("%s should rank below %s", order[i-1], order[i])
		}
	}
	if Role("Owner").AtLeast(RoleLeader) {
		t.Error("unknown role should rank lowest")
	}
	if !RoleLeader.AtLeast(RoleLeader) {
		t.Error("a role is at least itself")
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("Super Admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseRole("superadmin"); err == nil {
		t.Fatal("case/spacing variant accepted")
	}
}
