package lms

import (
	"fmt"
	"strconv"

	"github.com/s0up4200/staffeli/entity"
)

// loginLength is how much of sis_login_id makes up a KU id.
const loginLength = 6

// StudentList is a course roster, fetched or cached.
type StudentList struct {
	Listing
	byID map[int64]entity.Entity
}

func newStudentList(l Listing) *StudentList {
	byID := make(map[int64]entity.Entity, len(l.items))
	for _, s := range l.items {
		if id, ok := s.ID(); ok {
			byID[id] = s
		}
	}
	return &StudentList{Listing: l, byID: byID}
}

// ByID returns the student with the given id.
func (s *StudentList) ByID(id int64) (entity.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Login returns the short login of a student: the first six characters of
// sis_login_id. Test students have none.
func (s *StudentList) Login(id int64) (string, bool) {
	e, ok := s.byID[id]
	if !ok {
		return "", false
	}
	sis := []rune(e.String("sis_login_id"))
	if len(sis) == 0 {
		return "", false
	}
	if len(sis) > loginLength {
		sis = sis[:loginLength]
	}
	return string(sis), true
}

// DirName returns the "<login>_<id>" directory name of a student.
func (s *StudentList) DirName(id int64) (string, error) {
	login, ok := s.Login(id)
	if !ok {
		if _, known := s.byID[id]; known {
			return "", fmt.Errorf("student %d has no sis_login_id, likely a test student", id)
		}
		return "", fmt.Errorf("user %d is not on the student list", id)
	}
	return login + "_" + strconv.FormatInt(id, 10), nil
}
