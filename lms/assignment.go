package lms

import (
	"context"
	"fmt"
	"net/http"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// submissionHistoryIncludes are the extras fetched with a single submission.
var submissionHistoryIncludes = []any{
	"visibility",
	"submission_history",
	"submission_comments",
	"rubric_assessment",
}

// Assignment is a course assignment.
type Assignment struct {
	record
	course *Course
}

// Course returns the owning course.
func (a *Assignment) Course() *Course {
	return a.course
}

func (a *Assignment) path(suffix string) string {
	return fmt.Sprintf("courses/%d/assignments/%d", a.course.ID(), a.ID()) + suffix
}

// Submissions lists the submissions of the assignment.
func (a *Assignment) Submissions(ctx context.Context) (entity.List, error) {
	return a.course.client().Get(ctx, a.path("/submissions"), nil)
}

// SubmissionList returns the submissions as facades.
func (a *Assignment) SubmissionList(ctx context.Context) ([]*Submission, error) {
	subs, err := a.Submissions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Submission, 0, len(subs))
	for _, sub := range subs {
		out = append(out, &Submission{record: record{
			kind:     entity.KindSubmission,
			data:     sub,
			resolver: listResolver{kind: entity.KindSubmission, list: a.Submissions},
			cache:    a.course.session.cache,
		}})
	}
	return out, nil
}

// SubmissionHistory returns one user's submission with its history,
// comments and rubric assessment.
func (a *Assignment) SubmissionHistory(ctx context.Context, userID int64) (entity.Entity, error) {
	args := canvas.Args{}.AddAll("include[]", submissionHistoryIncludes...)
	return a.course.client().Call(ctx, http.MethodGet, a.path(fmt.Sprintf("/submissions/%d", userID)), args)
}

// SubmissionsDownloadURL returns the URL of the zip of all submissions.
func (a *Assignment) SubmissionsDownloadURL(ctx context.Context) (string, error) {
	current, err := a.course.client().Call(ctx, http.MethodGet, a.path(""), nil)
	if err != nil {
		return "", err
	}
	u := current.String("submissions_download_url")
	if u == "" {
		return "", fmt.Errorf("assignment %s has no submissions_download_url", a.data.Label())
	}
	return u, nil
}
