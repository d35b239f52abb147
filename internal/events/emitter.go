package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

// Emit sends evt to the web view. It is a no-op until an emitter is set.
var Emit = func(ctx context.Context, name string, evt PanelEvent) {}

// EnableRuntimeEmitter routes Emit through the Wails runtime. Calls made
// without a runtime context are logged and dropped.
func EnableRuntimeEmitter(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	Emit = func(ctx context.Context, name string, evt PanelEvent) {
		logRuntimeEvent(logger, name, evt)
		if ctx == nil {
			return
		}
		runtime.EventsEmit(ctx, name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt PanelEvent)) {
	if f == nil {
		Emit = func(context.Context, string, PanelEvent) {}
		return
	}
	Emit = f
}
