package events

import "go.uber.org/zap"

func logRuntimeEvent(logger *zap.Logger, name string, evt PanelEvent) {
	fields := []zap.Field{
		zap.String("event", name),
		zap.String("id", evt.ID),
		zap.String("mode", evt.Mode),
	}
	switch evt.Type {
	case EventWarn:
		logger.Warn(evt.Message, fields...)
	default:
		logger.Info(evt.Message, fields...)
	}
}
