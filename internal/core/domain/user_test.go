package domain

import "testing"

func TestUserProfile_HasRole(t *testing.T) {
	u := &UserProfile{Username: "alice", Roles: []Role{RoleUser, "EDITOR"}}

	if !u.HasRole("EDITOR") {
		t.Fatalf("expected EDITOR role")
	}
	if u.HasRole("editor") {
		t.Fatalf("role comparison must be exact")
	}
	if u.HasRole("NEVER_SEEN") {
		t.Fatalf("unexpected role match")
	}

	var none *UserProfile
	if none.HasRole(RoleAdmin) {
		t.Fatalf("nil profile must not have roles")
	}
}

func TestUserProfile_CloneIsIndependent(t *testing.T) {
	u := &UserProfile{ID: 1, Roles: []Role{RoleAdmin}}
	c := u.Clone()
	c.Roles[0] = RoleUser

	if u.Roles[0] != RoleAdmin {
		t.Fatalf("clone shares role slice with original")
	}
}

func TestSession_Authenticated(t *testing.T) {
	if (Session{Token: "abc"}).Authenticated() {
		t.Fatalf("token without user must not count as authenticated")
	}
	if (Session{User: &UserProfile{}}).Authenticated() {
		t.Fatalf("user without token must not count as authenticated")
	}
	if !(Session{Token: "abc", User: &UserProfile{}}).Authenticated() {
		t.Fatalf("expected authenticated session")
	}
}
