package logging

import (
	"go.uber.org/zap"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger routes Wails runtime logging through zap.
type WailsLogger struct {
	l *zap.Logger
}

var _ wailslogger.Logger = (*WailsLogger)(nil)

func NewWailsLogger(l *zap.Logger) *WailsLogger {
	return &WailsLogger{l: l.Named("wails").WithOptions(zap.AddCallerSkip(1))}
}

func (w *WailsLogger) Print(message string)   { w.l.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.l.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.l.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.l.Info(message) }
func (w *WailsLogger) Warning(message string) { w.l.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.l.Error(message) }
func (w *WailsLogger) Fatal(message string)   { w.l.Fatal(message) }
