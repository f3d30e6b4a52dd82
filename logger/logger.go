// Package logger configures application-lifecycle logging for the launcher.
//
// Library packages speak the component-level key-value logger; this package
// owns the logrus side: launcher-wide level and format, plus an optional
// Sentry hook forwarding error-and-above entries to an external collector.
package logger

import (
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// sentryTimeout bounds how long a single hook delivery may block a log call.
const sentryTimeout = 3 * time.Second

// Setup applies the level and output format to the standard logrus logger.
// An unknown level falls back to info with a warning instead of failing the
// run.
func Setup(level string, jsonFormat bool) {
	if jsonFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.WithField("level", level).Warn("Unknown log level, using info")
		return
	}
	logrus.SetLevel(lvl)
}

// AttachSentry forwards error, fatal and panic entries to the collector at
// dsn, tagged with the given release. An empty dsn is a no-op, so callers
// can pass a flag value through unconditionally.
func AttachSentry(dsn, release string) error {
	if dsn == "" {
		return nil
	}

	hook, err := logrus_sentry.NewSentryHook(dsn, []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	})
	if err != nil {
		return err
	}
	hook.StacktraceConfiguration.Enable = true
	hook.Timeout = sentryTimeout
	if release != "" {
		hook.SetRelease(release)
	}

	logrus.AddHook(hook)
	return nil
}
