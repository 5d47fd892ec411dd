package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]UserRole{
		"pin":              RolePIN,
		"PIN":              RolePIN,
		"CSR Rep":          RoleCSR,
		"csr-rep":          RoleCSR,
		" csr_rep ":        RoleCSR,
		"Platform Manager": RolePlatformManager,
		"admin":            RoleAdmin,
	}
	for raw, want := range cases {
		got, err := ParseRole(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestStatusValidation(t *testing.T) {
	for _, s := range AllRequestStatuses {
		assert.True(t, s.Valid())
	}
	_, err := ParseRequestStatus("cancelled")
	assert.Error(t, err)

	s, err := ParseRequestStatus(" Completed ")
	assert.NoError(t, err)
	assert.Equal(t, RequestStatusCompleted, s)

	_, err = ParseMatchStatus("done")
	assert.Error(t, err)
	m, err := ParseMatchStatus("in_progress")
	assert.NoError(t, err)
	assert.Equal(t, MatchStatusInProgress, m)
}

func TestParseUrgency(t *testing.T) {
	u, err := ParseUrgency("")
	assert.NoError(t, err)
	assert.Equal(t, UrgencyMedium, u)

	u, err = ParseUrgency("HIGH")
	assert.NoError(t, err)
	assert.Equal(t, UrgencyHigh, u)

	_, err = ParseUrgency("critical")
	assert.Error(t, err)
}

func TestMaskRequester(t *testing.T) {
	s := RequestSummary{RequesterName: "Jane", Anonymous: true}
	s.MaskRequester()
	assert.Equal(t, "Anonymous", s.RequesterName)

	s = RequestSummary{RequesterName: "Jane"}
	s.MaskRequester()
	assert.Equal(t, "Jane", s.RequesterName)
}
