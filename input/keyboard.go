package input

// Action is the transition a key callback reports.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return "release"
	}
}

// Event is one key-down seen since the previous snapshot. Auto-repeat
// key-downs are events too; the door cooldown exists to absorb them.
type Event struct {
	Code   int
	Repeat bool
}

// Snapshot is the keyboard as the simulation sees it for one tick.
type Snapshot struct {
	held   map[int]bool
	Events []Event
}

func (s Snapshot) IsHeld(code int) bool {
	return s.held[code]
}

func (s Snapshot) Empty() bool {
	if len(s.Events) > 0 {
		return false
	}
	for _, down := range s.held {
		if down {
			return false
		}
	}
	return true
}

// Keyboard tracks held keys and queues key-down events between ticks. It is
// fed by the window's key callback and drained by the tick on the same
// goroutine, so it carries no lock.
type Keyboard struct {
	held   map[int]bool
	events []Event
}

func NewKeyboard() *Keyboard {
	return &Keyboard{held: make(map[int]bool)}
}

func (k *Keyboard) HandleKey(code int, action Action) {
	switch action {
	case Press, Repeat:
		k.held[code] = true
		k.events = append(k.events, Event{Code: code, Repeat: action == Repeat})
	case Release:
		delete(k.held, code)
	}
}

func (k *Keyboard) IsHeld(code int) bool {
	return k.held[code]
}

// Snapshot copies the held set and drains the queued events.
func (k *Keyboard) Snapshot() Snapshot {
	held := make(map[int]bool, len(k.held))
	for code, down := range k.held {
		held[code] = down
	}
	events := k.events
	k.events = nil
	return Snapshot{held: held, Events: events}
}
