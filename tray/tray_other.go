//go:build !darwin

package tray

func Init() <-chan struct{}    { return make(chan struct{}) }
func updateRecordingIcon(bool) {}
func updateTooltip(string)     {}
func updateCopyLastTitle(string) {}
