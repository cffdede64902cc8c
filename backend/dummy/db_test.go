package dummyapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dummyapi "github.com/tdkhoa/sodiem/backend/dummy"
	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
	testutil "github.com/tdkhoa/sodiem/tests"
)

func TestStudentBackendListFilters(t *testing.T) {
	db := testutil.OpenDB(t)
	an := db.AddStudent(testutil.NewStudent("Nguyen", "An", "1", "1"))
	db.AddStudent(testutil.NewStudent("Tran", "Binh", "1", "2"))
	db.AddStudent(testutil.NewStudent("Le", "Chi", "2", "1"))

	backend := dummyapi.NewStudentBackend(db)

	filters := listsync.NewFilterSet()
	filters.Set("nien_khoa_id", "1")
	filters.Set("khoi_id", "1")
	students, err := backend.List(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, an.ID, students[0].ID)

	search := listsync.NewFilterSet()
	search.Set("search", "binh")
	students, err = backend.List(context.Background(), search)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Tran Binh", students[0].FullName())
}

func TestStudentBackendDeleteRefusesPlaced(t *testing.T) {
	db := testutil.OpenDB(t)
	class := db.AddClass(school.Class{Name: "10A1", YearID: "1", GradeID: "1"})
	st := db.AddStudent(testutil.NewStudent("Nguyen", "An", "1", "1"))

	svc := dummyapi.NewRosterService(db)
	require.NoError(t, svc.SetGroupMembership(context.Background(), class.ID.String(), []string{st.ID.String()}))

	err := dummyapi.NewStudentBackend(db).Delete(context.Background(), st.ID.String())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestClassBackendDeleteRefusesNonEmpty(t *testing.T) {
	db := testutil.OpenDB(t)
	class := db.AddClass(school.Class{Name: "10A1", YearID: "1", GradeID: "1"})
	st := db.AddStudent(testutil.NewStudent("Nguyen", "An", "1", "1"))

	backend := dummyapi.NewClassBackend(db)
	svc := dummyapi.NewRosterService(db)
	require.NoError(t, svc.SetGroupMembership(context.Background(), class.ID.String(), []string{st.ID.String()}))

	err := backend.Delete(context.Background(), class.ID.String())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.NoError(t, svc.SetGroupMembership(context.Background(), class.ID.String(), nil))
	assert.NoError(t, backend.Delete(context.Background(), class.ID.String()))
}

func TestAccountBackendUsernameUnique(t *testing.T) {
	db := testutil.OpenDB(t)
	backend := dummyapi.NewAccountBackend(db)

	created, err := backend.Create(context.Background(), school.Account{Username: "giaovu", FullName: "Van Phong", Role: "staff", Active: true})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = backend.Create(context.Background(), school.Account{Username: "giaovu", FullName: "Someone Else"})
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.KindValidation, apiErr.Kind())
	assert.Equal(t, "username already taken", apiErr.Fields["username"])

	// Usernames are immutable; updates keep the original.
	updated, err := backend.Update(context.Background(), created.ID.String(), school.Account{Username: "changed", FullName: "Van Phong", Active: false})
	require.NoError(t, err)
	assert.Equal(t, "giaovu", updated.Username)
}

func TestFailNextAffectsOneCall(t *testing.T) {
	db := testutil.OpenDB(t)
	db.AddStudent(testutil.NewStudent("Nguyen", "An", "1", "1"))
	backend := dummyapi.NewStudentBackend(db)

	db.FailNext(&core.APIError{Status: 500})
	_, err := backend.List(context.Background(), listsync.NewFilterSet())
	require.Error(t, err)

	students, err := backend.List(context.Background(), listsync.NewFilterSet())
	require.NoError(t, err)
	assert.Len(t, students, 1)
}
