// Package belog adapts logrus to the ble.Logger interface consumed by the
// att and gatt clients.
package belog

import (
	"github.com/sirupsen/logrus"

	"github.com/nimbus-ble/ble"
)

// entry wraps a *logrus.Entry to satisfy ble.Logger.
type entry struct {
	e *logrus.Entry
}

// New returns a ble.Logger backed by a fresh logrus.Logger at Info level,
// logging text to stderr in the formatter logrus.Logger defaults to.
func New() ble.Logger {
	l := logrus.New()
	return &entry{e: logrus.NewEntry(l)}
}

// NewFromLogrus adapts an existing *logrus.Logger, letting the caller share
// one logrus instance (and its output/formatter/hooks) across an
// application.
func NewFromLogrus(l *logrus.Logger) ble.Logger {
	return &entry{e: logrus.NewEntry(l)}
}

func (l *entry) Debug(msg string)                  { l.e.Debug(msg) }
func (l *entry) Debugf(f string, a ...interface{}) { l.e.Debugf(f, a...) }
func (l *entry) Info(msg string)                   { l.e.Info(msg) }
func (l *entry) Infof(f string, a ...interface{})  { l.e.Infof(f, a...) }
func (l *entry) Warnf(f string, a ...interface{})  { l.e.Warnf(f, a...) }
func (l *entry) Error(msg string)                  { l.e.Error(msg) }
func (l *entry) Errorf(f string, a ...interface{}) { l.e.Errorf(f, a...) }

func (l *entry) ChildLogger(fields map[string]interface{}) ble.Logger {
	return &entry{e: l.e.WithFields(logrus.Fields(fields))}
}
