package shortcut

// Phase is the externally visible lifecycle of the shortcut.
type Phase int

const (
	// PhaseUnregistered: no descriptor known, nothing registered.
	PhaseUnregistered Phase = iota
	// PhaseEnabled: the current descriptor is registered with the provider.
	PhaseEnabled
	// PhaseDisabled: the descriptor is retained but nothing is registered.
	PhaseDisabled
)

func (p Phase) String() string {
	switch p {
	case PhaseEnabled:
		return "enabled"
	case PhaseDisabled:
		return "disabled"
	default:
		return "unregistered"
	}
}

// state is guarded by Manager.mu. enabled implies current != nil and that
// exactly current is registered with the provider.
type state struct {
	current *Descriptor
	enabled bool
}

func (s state) phase() Phase {
	switch {
	case s.enabled:
		return PhaseEnabled
	case s.current != nil:
		return PhaseDisabled
	default:
		return PhaseUnregistered
	}
}

// live reports whether d is the descriptor currently registered.
func (s state) live(d Descriptor) bool {
	return s.enabled && s.current != nil && *s.current == d
}

// State is a point-in-time copy of the shared shortcut state.
type State struct {
	Descriptor *Descriptor
	Enabled    bool
	Phase      Phase
}

func (s state) snapshot() State {
	out := State{Enabled: s.enabled, Phase: s.phase()}
	if s.current != nil {
		d := *s.current
		out.Descriptor = &d
	}
	return out
}
