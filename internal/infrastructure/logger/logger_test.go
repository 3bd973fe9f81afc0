package logger

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the logger factory", t, func() {
		Convey("When created with console output only", func() {
			log, err := New("info", "")

			Convey("It should initialize successfully", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				log.Infof("hello %s", "world")
				log.Close()
			})
		})

		Convey("When created with an unknown log level", func() {
			log, err := New("chatty", "")

			Convey("It should fall back to info instead of failing", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				log.Close()
			})
		})

		Convey("When a log file is configured", func() {
			dir := t.TempDir()
			logFile := filepath.Join(dir, "logs", "dbkeeper.log")

			log, err := New("debug", logFile)

			Convey("It should create the log directory and write to the file", func() {
				So(err, ShouldBeNil)

				log.Infof("backup cycle started")
				log.Close()

				content, readErr := os.ReadFile(logFile)
				So(readErr, ShouldBeNil)
				So(string(content), ShouldContainSubstring, "backup cycle started")
			})
		})
	})
}
