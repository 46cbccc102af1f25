package lms

import (
	"context"
	"fmt"
	"net/http"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// Course is a Canvas course.
type Course struct {
	record
	session *Session
}

func (c *Course) client() *canvas.Client {
	return c.session.client
}

func (c *Course) path(format string, args ...any) string {
	return fmt.Sprintf("courses/%d/", c.ID()) + fmt.Sprintf(format, args...)
}

// WebURL returns the course's page in the browser.
func (c *Course) WebURL() string {
	return c.client().WebURL(fmt.Sprintf("courses/%d/", c.ID()))
}

// Sections

// ListSections lists the sections with their rosters.
func (c *Course) ListSections(ctx context.Context) (entity.List, error) {
	return c.client().Get(ctx, c.path("sections"), canvas.Params("include[]", "students"))
}

// Section picks a section.
func (c *Course) Section(ctx context.Context, sel Selector) (*Section, error) {
	resolver := listResolver{kind: entity.KindSection, list: c.ListSections}
	r, err := open(ctx, entity.KindSection, sel, resolver, c.session.cache)
	if err != nil {
		return nil, err
	}
	return &Section{record: r, course: c}, nil
}

// CreateSection creates a section. It refuses to create a second section
// with the exact same name.
func (c *Course) CreateSection(ctx context.Context, name string) (entity.Entity, error) {
	sections, err := c.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		if s.Name() == name {
			return nil, fmt.Errorf("%w: section %q (id %d)", ErrExists, name, s.MustID())
		}
	}

	return c.client().Post(ctx, c.path("sections"), canvas.Params("course_section[name]", name))
}

// DeleteSection deletes a section by id.
func (c *Course) DeleteSection(ctx context.Context, id int64) (entity.Entity, error) {
	return c.client().Delete(ctx, fmt.Sprintf("sections/%d", id), nil)
}

// EnrollInSection enrolls a user in a section.
func (c *Course) EnrollInSection(ctx context.Context, sectionID, userID int64) (entity.Entity, error) {
	return c.client().Post(ctx, fmt.Sprintf("sections/%d/enrollments", sectionID),
		canvas.Params("enrollment[user_id]", userID))
}

// Students returns everyone enrolled in any section, each once, in roster
// order.
func (c *Course) Students(ctx context.Context) (*StudentList, error) {
	sections, err := c.ListSections(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	students := entity.List{}
	for _, section := range sections {
		roster, err := entity.FromValue(section["students"])
		if err != nil {
			// Canvas sends null for an empty roster
			continue
		}
		for _, student := range roster {
			id, ok := student.ID()
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			students = append(students, student)
		}
	}

	c.session.logger.Debug().
		Int("sections", len(sections)).
		Int("students", len(students)).
		Msg("Collected course roster")

	return newStudentList(newListing(entity.KindStudents, students, c.session.cache)), nil
}

// Users

// SearchUsers searches the course's users by name, login or email.
func (c *Course) SearchUsers(ctx context.Context, term string) (entity.List, error) {
	return c.client().Get(ctx, c.path("search_users"), canvas.Params("search_term", term))
}

// User returns a user as seen from the course.
func (c *Course) User(ctx context.Context, userID int64) (entity.Entity, error) {
	return c.client().Call(ctx, http.MethodGet, c.path("users/%d", userID), nil)
}

// Assignments

// ListAssignments lists the course's assignments.
func (c *Course) ListAssignments(ctx context.Context) (entity.List, error) {
	return c.client().Get(ctx, c.path("assignments"), nil)
}

// Assignment picks an assignment.
func (c *Course) Assignment(ctx context.Context, sel Selector) (*Assignment, error) {
	resolver := listResolver{kind: entity.KindAssignment, list: c.ListAssignments}
	r, err := open(ctx, entity.KindAssignment, sel, resolver, c.session.cache)
	if err != nil {
		return nil, err
	}
	return &Assignment{record: r, course: c}, nil
}

// Assignments returns a facade for every assignment, in listing order.
func (c *Course) Assignments(ctx context.Context) ([]*Assignment, error) {
	list, err := c.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Assignment, 0, len(list))
	for _, a := range list {
		out = append(out, &Assignment{record: c.child(entity.KindAssignment, a, c.ListAssignments), course: c})
	}
	return out, nil
}

// Groups

// ListGroupCategories lists the course's group categories.
func (c *Course) ListGroupCategories(ctx context.Context) (entity.List, error) {
	return c.client().Get(ctx, c.path("group_categories"), nil)
}

// GroupCategories returns the group categories as a cacheable listing.
func (c *Course) GroupCategories(ctx context.Context) (*GroupCategoryList, error) {
	list, err := c.ListGroupCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &GroupCategoryList{
		Listing: newListing(entity.KindGroupCategories, list, c.session.cache),
		course:  c,
	}, nil
}

// GroupCategory picks a group category.
func (c *Course) GroupCategory(ctx context.Context, sel Selector) (*GroupCategory, error) {
	resolver := listResolver{kind: entity.KindGroupCategory, list: c.ListGroupCategories}
	r, err := open(ctx, entity.KindGroupCategory, sel, resolver, c.session.cache)
	if err != nil {
		return nil, err
	}
	return &GroupCategory{record: r, course: c}, nil
}

// CreateGroupCategory creates a group category.
func (c *Course) CreateGroupCategory(ctx context.Context, name string) (entity.Entity, error) {
	return c.client().Post(ctx, c.path("group_categories"), canvas.Params("name", name))
}

// DeleteGroupCategory deletes a group category and its groups.
func (c *Course) DeleteGroupCategory(ctx context.Context, id int64) (entity.Entity, error) {
	return c.client().Delete(ctx, fmt.Sprintf("group_categories/%d", id), nil)
}

// ListGroups lists every group of the course regardless of category.
func (c *Course) ListGroups(ctx context.Context) (entity.List, error) {
	return c.client().Get(ctx, c.path("groups"), nil)
}

// Group picks a group among all of the course's groups.
func (c *Course) Group(ctx context.Context, sel Selector) (*Group, error) {
	resolver := listResolver{kind: entity.KindGroup, list: c.ListGroups}
	r, err := open(ctx, entity.KindGroup, sel, resolver, c.session.cache)
	if err != nil {
		return nil, err
	}
	return &Group{record: r, course: c}, nil
}

// child wraps an entity taken straight from one of the course's listings.
func (c *Course) child(kind entity.Kind, e entity.Entity, list func(context.Context) (entity.List, error)) record {
	return record{
		kind:     kind,
		data:     e,
		resolver: listResolver{kind: kind, list: list},
		cache:    c.session.cache,
	}
}
