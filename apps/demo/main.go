// Command demo drives the synchronization core against the in-memory backend:
// a student list with optimistic edits, a class roster session and a grade
// sheet, the same flows the admin screens run.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/volatiletech/null/v8"

	dummyapi "github.com/tdkhoa/sodiem/backend/dummy"
	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/roster"
	"github.com/tdkhoa/sodiem/core/school"
	"github.com/tdkhoa/sodiem/core/score"
	logsvc "github.com/tdkhoa/sodiem/services/logger"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	notifier := logsvc.NewConsoleNotifier(std)

	db, err := dummyapi.Open()
	errAndDie(std, err)
	seed(db)

	ctx := context.Background()

	settings, err := dummyapi.NewSettingsService(db).Latest(ctx)
	errAndDie(std, err)
	std.Printf("settings: pass threshold %.2f, class capacity %d", settings.PassThreshold, settings.DefaultCapacity)

	students := listsync.NewController[school.Student](
		dummyapi.NewStudentBackend(db),
		func(st school.Student) string { return st.ID.String() },
		listsync.Options{
			SearchFilter: "search",
			DependentFilters: map[string][]string{
				"nien_khoa_id": {"khoi_id"},
			},
			Logger:   logger,
			Notifier: notifier,
		},
	)
	defer students.Close()

	students.Refresh()
	waitForLoad(students)
	std.Printf("loaded %d students", students.Store().Len())

	// Optimistic create: the record shows up immediately under a synthetic id
	// and is reconciled with the server copy.
	ns := school.NewStudent{
		FamilyName:      "Pham",
		GivenName:       "Dung",
		Gender:          "female",
		BirthDate:       time.Date(2010, time.March, 14, 0, 0, 0, 0, time.UTC),
		Email:           "dung@school.test",
		AdmissionYearID: "1",
		ExpectedGradeID: "1",
	}
	errAndDie(std, ns.Validate())
	if err := students.Create(ctx, ns.Record(school.ID(listsync.PendingID()))); err != nil {
		logger.Error("create failed", err)
	}
	std.Printf("after create: %d students, head %q", students.Store().Len(), students.Records()[0].FullName())

	demoRoster(ctx, std, db)
	demoSheet(ctx, std, logger, db, settings)
}

func demoRoster(ctx context.Context, std *log.Logger, db *dummyapi.DB) {
	sess := roster.NewSession(dummyapi.NewRosterService(db), nil)
	errAndDie(std, sess.Load(ctx, "1"))

	sess.SelectAll(roster.SideAvailable)
	sess.Transfer(roster.SideAvailable)
	if sess.OverCapacity() {
		std.Printf("roster over capacity, dropping one")
		errAndDie(std, sess.MoveOne(roster.SideInGroup, sess.InGroup()[0].ID.String()))
	}
	errAndDie(std, sess.Commit(ctx))
	std.Printf("class roster committed: %d members", len(sess.InGroup()))
}

func demoSheet(ctx context.Context, std *log.Logger, logger core.Logger, db *dummyapi.DB, settings school.Settings) {
	sheet := score.NewSheet(dummyapi.NewGradingService(db), logger)
	key := score.SheetKey{YearID: "1", ClassID: "1", SubjectID: "1", TermID: "1"}
	errAndDie(std, sheet.Load(ctx, key))

	sheet.Begin()
	for _, row := range sheet.Rows() {
		errAndDie(std, sheet.Input(row.StudentID, score.FieldQuiz, "75"))
		errAndDie(std, sheet.Input(row.StudentID, score.FieldTest, "9"))
		errAndDie(std, sheet.Blur(row.StudentID, score.FieldTest))
	}
	errAndDie(std, sheet.Commit(ctx))

	for _, row := range sheet.Rows() {
		std.Printf("%-20s quiz=%-5s test=%-5s avg=%-5s %s",
			row.FullName, row.Quiz, row.Test, row.Average(), row.Result(settings.PassThreshold))
	}
}

func seed(db *dummyapi.DB) {
	db.AddClass(school.Class{Name: "10A1", YearID: "1", GradeID: "1"})

	birth := time.Date(2010, time.September, 5, 0, 0, 0, 0, time.UTC)
	for _, st := range []school.Student{
		{FamilyName: "Nguyen", GivenName: "An", Gender: "male", BirthDate: birth, AdmissionYearID: "1", ExpectedGradeID: "1"},
		{FamilyName: "Tran", GivenName: "Binh", Gender: "female", BirthDate: birth, Email: null.StringFrom("binh@school.test"), AdmissionYearID: "1", ExpectedGradeID: "1"},
		{FamilyName: "Le", GivenName: "Chi", Gender: "female", BirthDate: birth, AdmissionYearID: "1", ExpectedGradeID: "1"},
	} {
		db.AddStudent(st)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

func waitForLoad(c *listsync.Controller[school.Student]) {
	for c.Loading() {
		time.Sleep(time.Millisecond)
	}
}
