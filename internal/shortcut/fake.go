package shortcut

import (
	"fmt"
	"sync"
	"time"
)

// FakeProvider is an in-memory Provider for tests.
type FakeProvider struct {
	mu       sync.Mutex
	handlers map[Descriptor]func(Activation)
	refuse   map[Descriptor]error
	panicMsg any
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		handlers: make(map[Descriptor]func(Activation)),
		refuse:   make(map[Descriptor]error),
	}
}

func (f *FakeProvider) Register(d Descriptor, onFire func(Activation)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicMsg != nil {
		msg := f.panicMsg
		f.panicMsg = nil
		panic(msg)
	}
	if err := f.refuse[d]; err != nil {
		return err
	}
	if _, ok := f.handlers[d]; ok {
		return fmt.Errorf("%s is already registered", d)
	}
	f.handlers[d] = onFire
	return nil
}

func (f *FakeProvider) Unregister(d Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, d)
	return nil
}

// Refuse makes every later Register of d fail with err, as if another
// application had claimed the combination.
func (f *FakeProvider) Refuse(d Descriptor, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refuse[d] = err
}

// Allow undoes Refuse.
func (f *FakeProvider) Allow(d Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refuse, d)
}

// PanicOnRegister makes the next Register call panic with v.
func (f *FakeProvider) PanicOnRegister(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panicMsg = v
}

// Registered returns the descriptors currently registered.
func (f *FakeProvider) Registered() []Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Descriptor, 0, len(f.handlers))
	for d := range f.handlers {
		out = append(out, d)
	}
	return out
}

// Fire simulates a key-down of d. It reports whether d was registered.
func (f *FakeProvider) Fire(d Descriptor) bool {
	f.mu.Lock()
	onFire, ok := f.handlers[d]
	f.mu.Unlock()

	if !ok {
		return false
	}
	onFire(Activation{Descriptor: d, At: time.Now()})
	return true
}
