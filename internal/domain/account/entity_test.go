package account

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "tutor-platform/pkg/errors"
)

func TestCheckProfile(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
	}{
		{"student with student profile", Account{Role: RoleStudent, Profile: &StudentProfile{}}, false},
		{"tutor with tutor profile", Account{Role: RoleTutor, Profile: &TutorProfile{}}, false},
		{"admin without profile", Account{Role: RoleAdmin}, false},
		{"student without profile", Account{Role: RoleStudent}, true},
		{"tutor with student profile", Account{Role: RoleTutor, Profile: &StudentProfile{}}, true},
		{"admin with profile", Account{Role: RoleAdmin, Profile: &TutorProfile{}}, true},
		{"unknown role", Account{Role: Role("parent")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.CheckProfile()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleOpposite(t *testing.T) {
	r, ok := RoleStudent.Opposite()
	assert.True(t, ok)
	assert.Equal(t, RoleTutor, r)

	_, ok = RoleAdmin.Opposite()
	assert.False(t, ok)
}

func TestPrincipalGates(t *testing.T) {
	approvedTutor := Principal{Role: RoleTutor, Lifecycle: State{IsApproved: true}}
	pendingTutor := Principal{Role: RoleTutor}
	rejectedStudent := Principal{Role: RoleStudent, Lifecycle: State{IsRejected: true}}
	admin := Principal{Role: RoleAdmin, IsStaff: true, Lifecycle: State{IsApproved: true}}

	assert.NoError(t, approvedTutor.RequireApprovedRole(RoleTutor))
	assert.ErrorIs(t, approvedTutor.RequireApprovedRole(RoleStudent), appErrors.ErrWrongRole)
	assert.ErrorIs(t, pendingTutor.RequireApprovedRole(RoleTutor), appErrors.ErrAccountNotApproved)
	assert.ErrorIs(t, pendingTutor.RequireApprovedRole(RoleStudent), appErrors.ErrWrongRole)
	assert.ErrorIs(t, rejectedStudent.RequireApprovedRole(RoleStudent), appErrors.ErrAccountNotApproved)

	assert.NoError(t, admin.RequireAdmin())
	assert.ErrorIs(t, approvedTutor.RequireAdmin(), appErrors.ErrAdminRequired)
}

func TestParseRate(t *testing.T) {
	valid := map[string]Rate{
		"0":       0,
		"25":      2500,
		"25.5":    2550,
		"25.05":   2505,
		"9999.99": MaxRate,
		" 12.30 ": 1230,
	}
	for raw, want := range valid {
		got, err := ParseRate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "-1", "10000", "1.234", "abc", "1e3"} {
		_, err := ParseRate(raw)
		assert.Error(t, err, raw)
	}
}

func TestRateJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Rate Rate `json:"hourly_rate"`
	}{Rate: 2500})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hourly_rate":"25.00"}`, string(out))

	var in struct {
		A Rate `json:"a"`
		B Rate `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12.50","b":7.25}`), &in))
	assert.Equal(t, Rate(1250), in.A)
	assert.Equal(t, Rate(725), in.B)
}
