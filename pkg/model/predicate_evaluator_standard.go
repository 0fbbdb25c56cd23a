package model

import (
	"slices"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	input     Instance
	rooms     [][]int // Candidate rooms per event
	days      []int
	dayOf     []int // Day per timeslot
	dayTimes  map[int][]int
	following []int        // Timeslot directly following each timeslot within its day
	teachers  map[int]bool // Teacher-typed resources and resources some event resolved as its teacher
}

func newPredicateEvaluator(input Instance, modelRooms bool) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		input:    input,
		rooms:    make([][]int, len(input.Events)),
		dayTimes: make(map[int][]int),
		teachers: make(map[int]bool),
	}

	//** Teachers
	for _, resource := range input.resourcesOfType(TeacherResource) {
		evaluator.teachers[resource] = true
	}
	for _, event := range input.Events {
		evaluator.teachers[event.Teacher] = true
	}

	//** Candidate rooms
	if modelRooms {
		allRooms := input.resourcesOfType(RoomResource)
		for event := range input.Events {
			declared := input.Events[event].Rooms
			evaluator.rooms[event] = lo.Ternary(len(declared) > 0, declared, allRooms)
		}
	}

	//** Days
	for group, timeGroup := range input.TimeGroups {
		if timeGroup.Kind == DayGroup {
			evaluator.days = append(evaluator.days, group)
		}
	}
	// Without explicit days every group acts as one
	if len(evaluator.days) == 0 {
		evaluator.days = lo.Range(len(input.TimeGroups))
	}

	evaluator.dayOf = make([]int, len(input.Timeslots))
	for time, timeslot := range input.Timeslots {
		evaluator.dayOf[time] = none
		// A timeslot belongs to the first day it references
		for _, group := range timeslot.Groups {
			if slices.Contains(evaluator.days, group) {
				evaluator.dayOf[time] = group
				evaluator.dayTimes[group] = append(evaluator.dayTimes[group], time)
				break
			}
		}
	}

	//** Adjacency
	evaluator.following = make([]int, len(input.Timeslots))
	for time := range evaluator.following {
		evaluator.following[time] = none
	}
	for _, times := range evaluator.dayTimes {
		for i, n := 0, len(times)-1; i < n; i++ {
			evaluator.following[times[i]] = times[i+1]
		}
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Hosts(event, roomSlot int) bool {
	rooms := evaluator.rooms[event]
	if len(rooms) == 0 {
		return roomSlot == 0
	}
	return roomSlot > 0 && slices.Contains(rooms, roomSlot-1)
}

func (evaluator *predicateEvaluatorStandard) CandidateRooms(event int) []int {
	return evaluator.rooms[event]
}

func (evaluator *predicateEvaluatorStandard) Days() []int {
	return evaluator.days
}

func (evaluator *predicateEvaluatorStandard) Day(time int) int {
	return evaluator.dayOf[time]
}

func (evaluator *predicateEvaluatorStandard) DayTimes(day int) []int {
	return evaluator.dayTimes[day]
}

func (evaluator *predicateEvaluatorStandard) Adjacent(time1, time2 int) bool {
	return evaluator.following[time1] != none && evaluator.following[time1] == time2
}

func (evaluator *predicateEvaluatorStandard) AdjacentPairs() [][2]int {
	pairs := make([][2]int, 0)
	for _, day := range evaluator.days {
		times := evaluator.dayTimes[day]
		for i, n := 0, len(times)-1; i < n; i++ {
			pairs = append(pairs, [2]int{times[i], times[i+1]})
		}
	}
	return pairs
}

func (evaluator *predicateEvaluatorStandard) UnavailableTeachers(descriptor int) []int {
	constraint := evaluator.input.Constraints[descriptor]
	if constraint.Kind != AvoidUnavailableTimesConstraint {
		return nil
	}

	teachers := make([]int, 0)
	for resource, value := range evaluator.input.Resources {
		// The descriptor's id must match the teacher's id exactly
		if value.Id == constraint.Id && evaluator.teachers[resource] {
			teachers = append(teachers, resource)
		}
	}
	// AppliesTo only widens a descriptor that already took effect
	if len(teachers) == 0 {
		return teachers
	}

	for _, resource := range constraint.Resources {
		if evaluator.teachers[resource] && !slices.Contains(teachers, resource) {
			teachers = append(teachers, resource)
		}
	}
	return teachers
}
