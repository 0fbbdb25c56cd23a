package model

type predicateEvaluator interface {
	// Checks whether the event may take place in the given room slot (0 stands for "no room", r+1 for resource r)
	Hosts(event, roomSlot int) bool

	// Returns the rooms the event may take place in (empty when rooms are not modeled)
	CandidateRooms(event int) []int

	// Returns the time-groups acting as days, in declaration order
	Days() []int

	// Returns the day the timeslot belongs to, or none
	Day(time int) int

	// Returns the timeslots of the day in declaration order
	DayTimes(day int) []int

	// Checks whether time2 directly follows time1 within the same day
	Adjacent(time1, time2 int) bool

	// Returns every pair of adjacent timeslots, day by day
	AdjacentPairs() [][2]int

	// Returns the teachers the unavailability descriptor applies to
	UnavailableTeachers(descriptor int) []int
}
