//go:build !darwin

package tray

// onMainThread runs fn directly. The Linux and Windows trays run their own
// DBus and message loops.
func onMainThread(fn func()) {
	fn()
}
