package model

import (
	"fmt"

	"github.com/samber/lo"
)

// variableSpace holds the assignment variables of a compilation and the indices generators look them up through
type variableSpace struct {
	keys      []VariableKey // Distinct assignment variables in enumeration order
	teachers  []int         // Teachers referenced by some event, in first-appearance order
	classes   []int
	rooms     []int
	perEvent  map[int][]VariableKey
	eventTime map[[2]int][]VariableKey
	teacher   map[[2]int][]VariableKey // (teacher, time)
	class     map[[2]int][]VariableKey // (class, time)
	room      map[[2]int][]VariableKey // (room, time)
}

// Enumerates every (event, time, room-slot) combination the evaluator accepts. Events sharing teacher and class share their variables
func buildVariableSpace(input Instance, evaluator predicateEvaluator, modelRooms bool) (variableSpace, Diagnostics) {
	diagnostics := Diagnostics{}
	space := variableSpace{
		perEvent:  make(map[int][]VariableKey),
		eventTime: make(map[[2]int][]VariableKey),
		teacher:   make(map[[2]int][]VariableKey),
		class:     make(map[[2]int][]VariableKey),
		room:      make(map[[2]int][]VariableKey),
	}

	roomSlots := 1
	if modelRooms {
		roomSlots = len(input.Resources) + 1
	}

	generator := newPermutationGenerator(len(input.Events), len(input.Timeslots), roomSlots)
	permutations := generator.ConstrainedPermutations([]func(permutation []int) bool{
		// Hosts(e, r) = 1
		func(permutation []int) bool {
			event, roomSlot := permutation[0], permutation[2]

			return event == none ||
				roomSlot == none ||

				// Actual predicate
				evaluator.Hosts(event, roomSlot)
		},
	})

	seen := make(map[VariableKey]bool)
	for _, permutation := range permutations {
		event, time, roomSlot := permutation[0], permutation[1], permutation[2]
		teacher, class := input.Events[event].Teacher, input.Events[event].Class
		room := roomSlot - 1 // Slot 0 yields none

		key := assignmentKey(teacher, class, time, room)
		space.perEvent[event] = append(space.perEvent[event], key)
		space.eventTime[[2]int{event, time}] = append(space.eventTime[[2]int{event, time}], key)

		if seen[key] {
			continue
		}
		seen[key] = true

		space.keys = append(space.keys, key)
		space.teacher[[2]int{teacher, time}] = append(space.teacher[[2]int{teacher, time}], key)
		space.class[[2]int{class, time}] = append(space.class[[2]int{class, time}], key)
		if room != none {
			space.room[[2]int{room, time}] = append(space.room[[2]int{room, time}], key)
		}
	}

	space.teachers = lo.Uniq(lo.Map(input.Events, func(event Event, _ int) int { return event.Teacher }))
	space.classes = lo.Uniq(lo.Map(input.Events, func(event Event, _ int) int { return event.Class }))
	space.rooms = lo.Uniq(lo.FilterMap(space.keys, func(key VariableKey, _ int) (int, bool) { return key.Room, key.Room != none }))

	//** Report events that share their variables
	owners := make(map[[2]int]string)
	for _, event := range input.Events {
		pair := [2]int{event.Teacher, event.Class}
		if owner, ok := owners[pair]; ok {
			diagnostics.warn("event", event.Id, fmt.Sprintf("shares teacher and class with event %q, both use the same variables", owner))
			continue
		}
		owners[pair] = event.Id
	}

	return space, diagnostics
}

// Assignment variables of the event at the given time (one per candidate room)
func (space variableSpace) eventAt(event, time int) []VariableKey {
	return space.eventTime[[2]int{event, time}]
}

// Assignment variables occupying the teacher at the given time
func (space variableSpace) occupancy(teacher, time int) []VariableKey {
	return space.teacher[[2]int{teacher, time}]
}
