package hwcomposer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownDevice is returned by Open when the requested name does not
// match any registered composition device.
var ErrUnknownDevice = errors.New("hwcomposer: unknown device")

// Factory creates a composition device instance.
type Factory func(opts ...Option) (*Device, error)

// registry maps advertised device identifiers to factories. This
// backend registers itself under DeviceID; alternate backends built on
// the same protocol can register under their own names.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

func init() {
	Register(DeviceID, NewDevice)
}

// Register registers a device factory under the given identifier.
// If a factory with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a device factory from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Registered returns the advertised identifiers of all registered
// devices.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// Open opens the composition device advertised under name. It fails
// with ErrUnknownDevice if no factory is registered for that name.
func Open(name string, opts ...Option) (*Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	return factory(opts...)
}
