package lms

import (
	"github.com/s0up4200/staffeli/entity"
)

// Attachment is a file handed in with a submission.
type Attachment struct {
	ID          int64
	Filename    string
	DisplayName string
	URL         string
	ContentType string
	Size        int64
}

// Submission is one student's (or group's) hand-in for an assignment.
type Submission struct {
	record
}

// UserID returns the id of the submitting user.
func (s *Submission) UserID() (int64, bool) {
	return s.data.Int("user_id")
}

// StudentIDs returns the ids of the students the submission belongs to.
func (s *Submission) StudentIDs() []int64 {
	if id, ok := s.UserID(); ok {
		return []int64{id}
	}
	return nil
}

// PreviewURL returns the SpeedGrader preview of the submission.
func (s *Submission) PreviewURL() string {
	return s.data.String("preview_url")
}

// HasAttachments reports whether Canvas sent an attachments field at all.
// Submissions that were never handed in have none.
func (s *Submission) HasAttachments() bool {
	return s.data.Has("attachments")
}

// Attachments returns the submitted files.
func (s *Submission) Attachments() []Attachment {
	list, err := entity.FromValue(s.data["attachments"])
	if err != nil {
		return nil
	}

	out := make([]Attachment, 0, len(list))
	for _, a := range list {
		size, _ := a.Int("size")
		out = append(out, Attachment{
			ID:          a.MustID(),
			Filename:    a.String("filename"),
			DisplayName: a.String("display_name"),
			URL:         a.String("url"),
			ContentType: a.String("content-type"),
			Size:        size,
		})
	}
	return out
}
