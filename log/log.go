// Package log provides loggers for graphs and drivers.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv enables debug level of loggers when it's parsed as true.
const DebugEnv = "FLO_DEBUG"

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// WithNode returns a logger entry for a graph node.
func WithNode(l logrus.FieldLogger, id, name string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"node": name,
		"id":   id,
	})
}
