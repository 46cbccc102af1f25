package lms

import (
	"context"
	"fmt"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// Group is a Canvas group.
type Group struct {
	record
	course *Course
}

// WebURL returns the group's page in the browser.
func (g *Group) WebURL() string {
	return g.course.client().WebURL(fmt.Sprintf("groups/%d", g.ID()))
}

// Members lists the users of the group.
func (g *Group) Members(ctx context.Context) (entity.List, error) {
	return g.course.client().Get(ctx, fmt.Sprintf("groups/%d/users", g.ID()), nil)
}

// AddMembers sets the membership of the group to userIDs. Users not listed
// are removed.
func (g *Group) AddMembers(ctx context.Context, userIDs []int64) (entity.Entity, error) {
	args := canvas.Args{}
	for _, id := range userIDs {
		args = args.Add("members[]", id)
	}
	return g.course.client().Put(ctx, fmt.Sprintf("groups/%d", g.ID()), args)
}

// Delete deletes the group.
func (g *Group) Delete(ctx context.Context) (entity.Entity, error) {
	return g.course.client().Delete(ctx, fmt.Sprintf("groups/%d", g.ID()), nil)
}
