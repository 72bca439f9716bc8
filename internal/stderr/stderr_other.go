//go:build !unix

package stderr

import "go.uber.org/zap"

// Capture is a no-op where file descriptors cannot be redirected.
func Capture(_ *zap.Logger) (restore func(), err error) {
	return func() {}, nil
}
