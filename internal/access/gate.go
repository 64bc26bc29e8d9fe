// Package access gates analytics reads on team membership.
package access

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/project"
)

// ProjectLookup resolves a project by ID, or nil when unknown.
type ProjectLookup interface {
	ProjectByID(ctx context.Context, id string) (*project.Project, error)
}

// MembershipLookup reports whether a user belongs to a team.
type MembershipLookup interface {
	IsTeamMember(ctx context.Context, teamID, userID string) (bool, error)
}

// Gate verifies a caller may read a project's analytics. Purely
// read-then-decide; no side effects.
type Gate struct {
	projects ProjectLookup
	members  MembershipLookup
}

func NewGate(projects ProjectLookup, members MembershipLookup) *Gate {
	return &Gate{projects: projects, members: members}
}

// EnsureAccess fails with NotFound for an unknown project, before any
// membership check, and with Forbidden when the user is not a member of
// the project's team.
func (g *Gate) EnsureAccess(ctx context.Context, projectID, userID string) error {
	p, err := g.projects.ProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project %s: %w", projectID, apperr.ErrNotFound)
	}

	ok, err := g.members.IsTeamMember(ctx, p.TeamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s is not a member of the project's team: %w", userID, apperr.ErrForbidden)
	}
	return nil
}
