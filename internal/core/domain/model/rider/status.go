package rider

// Status is the derived availability view of a rider. It is recomputed on
// every read from the shift window and the live active load; nothing stores it.
type Status string

const (
	Available Status = "AVAILABLE"
	Busy      Status = "BUSY"
	OffShift  Status = "OFF_SHIFT"
)

func (s Status) String() string {
	return string(s)
}
