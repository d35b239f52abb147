//go:build darwin

package tray

/*
void trayDispatchMain(void);
*/
import "C"

import "sync"

var (
	mainMu sync.Mutex
	mainFn []func()
)

// onMainThread queues fn on the AppKit main queue, which the Wails run loop
// services. Status bar items may only be created there.
func onMainThread(fn func()) {
	mainMu.Lock()
	mainFn = append(mainFn, fn)
	mainMu.Unlock()
	C.trayDispatchMain()
}

//export trayRunMain
func trayRunMain() {
	mainMu.Lock()
	queued := mainFn
	mainFn = nil
	mainMu.Unlock()
	for _, fn := range queued {
		fn()
	}
}
