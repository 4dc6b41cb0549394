package input

import "sync"

// ManualAdapter is the button surface. It has no platform dependency and
// is always available.
type ManualAdapter struct {
	mu      sync.Mutex
	handler func(Command)
}

func NewManualAdapter() *ManualAdapter { return &ManualAdapter{} }

func (a *ManualAdapter) Source() Source { return SourceManual }

func (a *ManualAdapter) OnCommand(handler func(Command)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = handler
}

func (a *ManualAdapter) Start() error { return nil }

func (a *ManualAdapter) Stop() error { return nil }

// Tap submits a button press.
func (a *ManualAdapter) Tap(cmd Command) {
	cmd.Source = SourceManual
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()
	if h != nil {
		h(cmd)
	}
}
