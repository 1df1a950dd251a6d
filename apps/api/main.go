package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/profile"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifsvc "github.com/trezcool/darasa/services/notifier"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

// TODO:
// - graceful shutdown
// - APM/Tracing
func main() {
	conf, err := core.LoadConfig(core.Getwd())
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile), conf)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	xdb := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	notifier := notifsvc.NewEmailNotifier(conf, mailSvc, logger)

	profileRepo := sqlxrepos.NewProfileRepository(xdb)
	profileSvc := profile.NewService(conf, profileRepo, sqlxrepos.NewIdentityRepository(xdb), logger)
	courseSvc := course.NewService(conf, sqlxrepos.NewCourseRepository(xdb), profileSvc)
	attendanceSvc := attendance.NewService(conf, sqlxrepos.NewAttendanceRepository(xdb), profileSvc, notifier, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:       conf.Server.Address(),
			Conf:          conf,
			ProfileSvc:    profileSvc,
			CourseSvc:     courseSvc,
			AttendanceSvc: attendanceSvc,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
