package playback

// Status is the reportable snapshot of a playing source, consumed by the
// presentation layer. Field order mirrors the wire order of the status
// command output.
type Status struct {
	Name         string `json:"name"`
	RemainedTime int    `json:"remainedTime"`
	Repeat       string `json:"repeat"`
	Shuffle      bool   `json:"shuffle"`
	Paused       bool   `json:"paused"`
}

// EmptyStatus is what the player reports when nothing is loaded or the
// loaded source has finished playing.
func EmptyStatus() Status {
	return Status{
		Name:         "",
		RemainedTime: 0,
		Repeat:       RepeatNone.String(),
		Shuffle:      false,
		Paused:       true,
	}
}
