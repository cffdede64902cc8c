// Package dummyapi is an in-memory stand-in for the school records backend,
// used by tests and the demo app. It honors the same collaborator contracts
// as the REST client, including structured failures, and can inject one.
package dummyapi

import (
	"strconv"
	"sync"

	"github.com/tdkhoa/sodiem/core/school"
	"github.com/tdkhoa/sodiem/core/score"
)

type scoreKey struct {
	classID   string
	subjectID string
	termID    string
	studentID string
}

type DB struct {
	mu       sync.RWMutex
	pk       int
	students map[string]*school.Student
	classes  map[string]*school.Class
	accounts map[string]*school.Account
	rosters  map[string][]string // class id -> member student ids
	scores   map[scoreKey]score.Row
	settings school.Settings

	failNext error
	latency  func() // optional hook run before each call, see SetLatency
}

func Open() (*DB, error) {
	return &DB{
		students: make(map[string]*school.Student),
		classes:  make(map[string]*school.Class),
		accounts: make(map[string]*school.Account),
		rosters:  make(map[string][]string),
		scores:   make(map[scoreKey]score.Row),
		settings: school.Settings{PassThreshold: score.DefaultPassThreshold, DefaultCapacity: 40},
	}, nil
}

// FailNext makes the next collaborator call fail with err.
func (db *DB) FailNext(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failNext = err
}

// SetLatency installs a hook run at the start of every call; tests use it to
// hold a response until told to settle.
func (db *DB) SetLatency(hook func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.latency = hook
}

// SetSettings overrides the school-wide parameters.
func (db *DB) SetSettings(settings school.Settings) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.settings = settings
}

// AddStudent seeds a student, assigning it a server id.
func (db *DB) AddStudent(st school.Student) school.Student {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.pk++
	st.ID = school.ID(strconv.Itoa(db.pk))
	st.Deletable = true
	db.students[st.ID.String()] = &st
	return st
}

// AddClass seeds a class, assigning it a server id.
func (db *DB) AddClass(cl school.Class) school.Class {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.pk++
	cl.ID = school.ID(strconv.Itoa(db.pk))
	db.classes[cl.ID.String()] = &cl
	return cl
}

// AddAccount seeds an account, assigning it a server id.
func (db *DB) AddAccount(acc school.Account) school.Account {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.pk++
	acc.ID = school.ID(strconv.Itoa(db.pk))
	db.accounts[acc.ID.String()] = &acc
	return acc
}

// RosterIDs returns the stored membership of one class, for assertions.
func (db *DB) RosterIDs(classID string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]string(nil), db.rosters[classID]...)
}

// begin runs the latency hook and consumes any injected failure. Callers
// hold no lock while the hook runs.
func (db *DB) begin() error {
	db.mu.Lock()
	hook := db.latency
	err := db.failNext
	db.failNext = nil
	db.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (db *DB) nextID() school.ID {
	db.pk++
	return school.ID(strconv.Itoa(db.pk))
}
