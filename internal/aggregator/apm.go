package aggregator

// DefaultAPMIntervalMS is the length of one activity interval.
const DefaultAPMIntervalMS = 60000

// NewActionTrackingSegment closes the current activity interval of length
// intervalMS, appending its action count scaled to one minute, and opens a new
// one. intervalMS <= 0 means DefaultAPMIntervalMS.
func (p *Player) NewActionTrackingSegment(intervalMS int) {
	if intervalMS <= 0 {
		intervalMS = DefaultAPMIntervalMS
	}
	p.Actions.Timed = append(p.Actions.Timed, p.currentlyTrackedAPM*60000/intervalMS)
	p.currentlyTrackedAPM = 0
}

// CurrentSegmentActions returns the raw count of the open interval.
func (p *Player) CurrentSegmentActions() int { return p.currentlyTrackedAPM }
