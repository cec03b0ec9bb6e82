// Package logging builds the logrus logger shared by every component.
//
// Usage:
//
//	log := logging.NewLogger("streamflix", "info", "json")
//	log.WithField("profile_id", id).Info("profile deleted")
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns an entry carrying a service field. Unknown levels fall
// back to info, any format other than "text" is JSON.
func NewLogger(service, level, format string) *logrus.Entry {
	return newLogger(os.Stdout, service, level, format)
}

func newLogger(out io.Writer, service, level, format string) *logrus.Entry {
	log := logrus.New()
	if format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil || level == "" {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log.WithField("service", service)
}
