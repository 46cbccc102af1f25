package lms

import (
	"context"
	"fmt"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// GroupCategory is a set of groups, such as the project groups of a course.
type GroupCategory struct {
	record
	course *Course
}

// Course returns the owning course.
func (g *GroupCategory) Course() *Course {
	return g.course
}

// WebURL returns the category's tab on the course's groups page.
func (g *GroupCategory) WebURL() string {
	return g.course.client().WebURL(fmt.Sprintf("courses/%d/groups#tab-%d", g.course.ID(), g.ID()))
}

// ListGroups lists the groups of the category.
func (g *GroupCategory) ListGroups(ctx context.Context) (entity.List, error) {
	return g.course.client().Get(ctx, fmt.Sprintf("group_categories/%d/groups", g.ID()), nil)
}

// Group picks a group of the category.
func (g *GroupCategory) Group(ctx context.Context, sel Selector) (*Group, error) {
	resolver := listResolver{kind: entity.KindGroup, list: g.ListGroups}
	r, err := open(ctx, entity.KindGroup, sel, resolver, g.course.session.cache)
	if err != nil {
		return nil, err
	}
	return &Group{record: r, course: g.course}, nil
}

// CreateGroup creates an invitation-only group in the category.
func (g *GroupCategory) CreateGroup(ctx context.Context, name string) (entity.Entity, error) {
	return g.course.client().Post(ctx, fmt.Sprintf("group_categories/%d/groups", g.ID()),
		canvas.Params("name", name, "join_level", "invitation_only"))
}

// DeleteGroup deletes a group by id.
func (g *GroupCategory) DeleteGroup(ctx context.Context, id int64) (entity.Entity, error) {
	return g.course.client().Delete(ctx, fmt.Sprintf("groups/%d", id), nil)
}

// DeleteAllGroups deletes every group of the category and returns how many
// were deleted. It stops at the first failure.
func (g *GroupCategory) DeleteAllGroups(ctx context.Context) (int, error) {
	groups, err := g.ListGroups(ctx)
	if err != nil {
		return 0, err
	}

	for i, group := range groups {
		if _, err := g.DeleteGroup(ctx, group.MustID()); err != nil {
			return i, fmt.Errorf("failed to delete group %s: %w", group.Label(), err)
		}
	}
	return len(groups), nil
}

// GroupList returns the category's groups, each with its members under
// "members".
func (g *GroupCategory) GroupList(ctx context.Context) (*GroupList, error) {
	groups, err := g.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	client := g.course.client()
	for _, group := range groups {
		members, err := client.Get(ctx, fmt.Sprintf("groups/%d/users", group.MustID()), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of group %s: %w", group.Label(), err)
		}
		group["members"] = entity.Normalize(members)
	}

	g.course.session.logger.Debug().
		Str("category", g.Name()).
		Int("groups", len(groups)).
		Msg("Fetched group list")

	return &GroupList{Listing: newListing(entity.KindGroups, groups, g.course.session.cache)}, nil
}

// GroupCategoryList is every group category of a course.
type GroupCategoryList struct {
	Listing
	course *Course
}

// Categories returns a facade for each listed category.
func (l *GroupCategoryList) Categories() []*GroupCategory {
	out := make([]*GroupCategory, 0, len(l.items))
	for _, g := range l.items {
		out = append(out, &GroupCategory{
			record: l.course.child(entity.KindGroupCategory, g, l.course.ListGroupCategories),
			course: l.course,
		})
	}
	return out
}
