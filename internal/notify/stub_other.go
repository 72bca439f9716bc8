//go:build !linux

package notify

// New returns a no-op Notifier; notifications need D-Bus.
func New() Notifier {
	return stubNotifier{}
}
