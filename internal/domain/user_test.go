package domain

import "testing"

func TestAccountKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		user     User
		kind     AccountKind
		password bool
	}{
		{
			name:     "local signup",
			user:     User{NationalID: "123456789012", PasswordHash: "hash"},
			kind:     AccountLocal,
			password: true,
		},
		{
			name:     "federated provision",
			user:     User{Email: "voter@example.com"},
			kind:     AccountFederated,
			password: false,
		},
		{
			name:     "linked account",
			user:     User{NationalID: "123456789012", PasswordHash: "hash", Email: "voter@example.com"},
			kind:     AccountLinked,
			password: true,
		},
		{
			name:     "national id without hash is not local",
			user:     User{NationalID: "123456789012"},
			kind:     AccountFederated,
			password: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.user.Kind(); got != tc.kind {
				t.Fatalf("kind = %v, want %v", got, tc.kind)
			}
			if got := tc.user.HasPassword(); got != tc.password {
				t.Fatalf("has password = %v, want %v", got, tc.password)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	if (User{Role: RoleVoter}).IsAdmin() {
		t.Fatalf("voter must not be admin")
	}
	if !(User{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("admin role not recognized")
	}
}
