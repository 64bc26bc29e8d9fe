package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/project"
)

type memProjects struct {
	byID map[string]*project.Project
}

func (r *memProjects) ProjectByID(ctx context.Context, id string) (*project.Project, error) {
	return r.byID[id], nil
}

type memMembers struct {
	members map[string]bool // teamID/userID
	calls   int
}

func (r *memMembers) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	r.calls++
	return r.members[teamID+"/"+userID], nil
}

func newFixture() (*Gate, *memMembers) {
	projects := &memProjects{byID: map[string]*project.Project{
		"proj_1": {ID: "proj_1", TeamID: "team_1"},
	}}
	members := &memMembers{members: map[string]bool{
		"team_1/user_member": true,
	}}
	return NewGate(projects, members), members
}

func TestEnsureAccessMember(t *testing.T) {
	gate, _ := newFixture()
	assert.NoError(t, gate.EnsureAccess(context.Background(), "proj_1", "user_member"))
}

func TestEnsureAccessNonMemberForbidden(t *testing.T) {
	gate, _ := newFixture()
	err := gate.EnsureAccess(context.Background(), "proj_1", "user_outsider")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestEnsureAccessUnknownProjectNotFound(t *testing.T) {
	gate, members := newFixture()
	err := gate.EnsureAccess(context.Background(), "proj_missing", "user_member")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	// NotFound is decided before any membership check happens.
	assert.Zero(t, members.calls)
}
