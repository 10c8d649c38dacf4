package controllers

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the verbosity of the controllers package logger
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
