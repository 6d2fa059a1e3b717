package session

// Activity is a user input signal that postpones the inactivity lock.
type Activity int

const (
	PointerMove Activity = iota
	KeyPress
	Click
	Scroll
	Touch
	VisibilityRegained
)

var activityNames = [...]string{
	PointerMove:        "mousemove",
	KeyPress:           "keydown",
	Click:              "click",
	Scroll:             "scroll",
	Touch:              "touchstart",
	VisibilityRegained: "visibilitychange",
}

func (a Activity) String() string {
	if int(a) < 0 || int(a) >= len(activityNames) {
		return "unknown"
	}
	return activityNames[a]
}
