//go:build !windows && !linux

package inject

// newPlatform reports that no native injector exists for this platform.
func newPlatform() (Injector, error) {
	return nil, ErrUnsupported
}
