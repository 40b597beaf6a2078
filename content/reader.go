package content

import (
	"reflect"
	"sync"
)

// readerSet holds the registered readers. Lookups scan registered
// readers in order and fall back to the per-type default table on a
// miss. Append-only registration keeps concurrent lookups and
// first-time registrations safe without a lookup-wide lock.
type readerSet struct {
	mu      sync.RWMutex
	readers []Reader
}

func (s *readerSet) add(r Reader) {
	s.mu.Lock()
	s.readers = append(s.readers, r)
	s.mu.Unlock()
}

// find returns a reader claiming capability for (t, parameter), or nil.
// When no registered reader claims the pair, the type's default reader
// factory is consulted; a default reader that passes its own capability
// check is registered for reuse.
func (s *readerSet) find(t reflect.Type, parameter any) Reader {
	s.mu.RLock()
	for _, r := range s.readers {
		if r.CanRead(t, parameter) {
			s.mu.RUnlock()
			return r
		}
	}
	s.mu.RUnlock()

	factory := defaultReaderFor(t)
	if factory == nil {
		return nil
	}
	r := factory()
	if r == nil || !r.CanRead(t, parameter) {
		return nil
	}
	s.add(r)
	return r
}

func (s *readerSet) snapshot() []Reader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readers[:len(s.readers):len(s.readers)]
}

var (
	defaultsMu     sync.RWMutex
	defaultReaders = map[reflect.Type]func() Reader{}
)

// RegisterDefaultReader publishes a default reader factory for the
// asset type T. It is the opt-in a type makes alongside its definition
// so that it can be loaded without explicit reader registration; a
// manager consults it only when none of its registered readers claim
// the type. Usually called from an init function of the asset package.
func RegisterDefaultReader[T any](factory func() Reader) {
	defaultsMu.Lock()
	defaultReaders[TypeOf[T]()] = factory
	defaultsMu.Unlock()
}

func defaultReaderFor(t reflect.Type) func() Reader {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultReaders[t]
}
