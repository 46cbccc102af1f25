package lms

import (
	"context"
	"fmt"
	"net/http"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// Section is a course section.
type Section struct {
	record
	course *Course
}

// Students returns the section's roster. Sections picked from the course
// listing already carry it; otherwise it is fetched.
func (s *Section) Students(ctx context.Context) (entity.List, error) {
	if roster, ok := s.data["students"]; ok && roster != nil {
		return entity.FromValue(roster)
	}

	section, err := s.course.client().Call(ctx, http.MethodGet, fmt.Sprintf("sections/%d", s.ID()),
		canvas.Params("include[]", "students"))
	if err != nil {
		return nil, err
	}
	if section["students"] == nil {
		return entity.List{}, nil
	}
	return entity.FromValue(section["students"])
}

// Enroll enrolls a user in the section.
func (s *Section) Enroll(ctx context.Context, userID int64) (entity.Entity, error) {
	return s.course.EnrollInSection(ctx, s.ID(), userID)
}

// Delete deletes the section.
func (s *Section) Delete(ctx context.Context) (entity.Entity, error) {
	return s.course.DeleteSection(ctx, s.ID())
}
