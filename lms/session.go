package lms

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
)

// Session is an authenticated view of one Canvas site.
type Session struct {
	client    *canvas.Client
	accountID int64
	logger    zerolog.Logger
	cache     Cacheable
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAccountID sets the account courses are created under.
func WithAccountID(id int64) SessionOption {
	return func(s *Session) {
		s.accountID = id
	}
}

// WithCache replaces the .staffeli.yml cache.
func WithCache(cache Cacheable) SessionOption {
	return func(s *Session) {
		s.cache = cache
	}
}

// NewSession creates a session over client.
func NewSession(client *canvas.Client, logger zerolog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		client: client,
		logger: logger,
		cache:  fileCache{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying API client.
func (s *Session) Client() *canvas.Client {
	return s.client
}

// Courses lists the courses the token can see.
func (s *Session) Courses(ctx context.Context) (entity.List, error) {
	return s.client.Get(ctx, "courses", nil)
}

// Course picks a course.
func (s *Session) Course(ctx context.Context, sel Selector) (*Course, error) {
	resolver := listResolver{kind: entity.KindCourse, list: s.Courses}
	r, err := open(ctx, entity.KindCourse, sel, resolver, s.cache)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("id", r.ID()).
		Str("name", r.Name()).
		Str("source", sel.String()).
		Msg("Resolved course")

	return &Course{record: r, session: s}, nil
}

// CreateCourse creates a course under the session's account.
func (s *Session) CreateCourse(ctx context.Context, name string) (entity.Entity, error) {
	if s.accountID == 0 {
		return nil, fmt.Errorf("%w: creating a course requires an account id", entity.ErrUsage)
	}
	return s.client.Post(ctx, fmt.Sprintf("accounts/%d/courses", s.accountID),
		canvas.Params("course[name]", name))
}

// User returns the profile of a user.
func (s *Session) User(ctx context.Context, id int64) (entity.Entity, error) {
	return s.client.Call(ctx, http.MethodGet, fmt.Sprintf("users/%d/profile", id), nil)
}

// Students loads a cached student list from the students directory at path,
// or its closest ancestor holding one when walk is set.
func (s *Session) Students(path string, walk bool) (*StudentList, error) {
	l, err := loadListing(s.cache, entity.KindStudents, path, walk)
	if err != nil {
		return nil, err
	}
	return newStudentList(l), nil
}

// GroupList loads a cached group list file such as groups/Projects.yml.
func (s *Session) GroupList(path string) (*GroupList, error) {
	l, err := loadListing(s.cache, entity.KindGroups, path, false)
	if err != nil {
		return nil, err
	}
	return &GroupList{Listing: l}, nil
}

// Submission loads a cached submission.
func (s *Session) Submission(path string, walk bool) (*Submission, error) {
	sel := Selector{FromCache: true, Path: path, Walk: walk}
	r, err := open(context.Background(), entity.KindSubmission, sel, nil, s.cache)
	if err != nil {
		return nil, err
	}
	return &Submission{record: r}, nil
}
