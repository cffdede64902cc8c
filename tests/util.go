package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	dummyapi "github.com/tdkhoa/sodiem/backend/dummy"
	"github.com/tdkhoa/sodiem/core/school"
)

// CaptureNotifier records every notification for assertions.
type CaptureNotifier struct {
	mu        sync.Mutex
	Successes []string
	Warnings  []string
	Errors    []string
}

func (n *CaptureNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *CaptureNotifier) Warn(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Warnings = append(n.Warnings, msg)
}

func (n *CaptureNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

func (n *CaptureNotifier) ErrorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Errors)
}

// NewStudent builds a seeded-looking student record; pass it through
// DB.AddStudent to obtain a server id.
func NewStudent(familyName, givenName, yearID, gradeID string) school.Student {
	return school.Student{
		FamilyName:      familyName,
		GivenName:       givenName,
		Gender:          "female",
		BirthDate:       time.Date(2010, time.September, 5, 0, 0, 0, 0, time.UTC),
		Email:           null.StringFrom(givenName + "@school.test"),
		AdmissionYearID: school.ID(yearID),
		ExpectedGradeID: school.ID(gradeID),
	}
}

// OpenDB opens a dummy backend database.
func OpenDB(t *testing.T) *dummyapi.DB {
	t.Helper()
	db, err := dummyapi.Open()
	if err != nil {
		t.Fatalf("dummyapi.Open() failed: %v", err)
	}
	return db
}
