package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// lessonUnit is one timeslot-unit of an event that needs a room
type lessonUnit struct {
	event int
	unit  uint64
}

type roomSlot struct {
	room int
	time int
}

type unplaceableError struct {
	placed, units int
}

func (err unplaceableError) Error() string {
	return fmt.Sprintf("only %d out of %d lesson units can be given a room", err.placed, err.units)
}

// Checks whether every lesson unit can be given a distinct (room, time) slot among its candidate rooms. Passing is necessary but not sufficient for feasibility
func roomPrecheck(input Instance, evaluator predicateEvaluator, limit int) Diagnostics {
	diagnostics := Diagnostics{}

	events := lo.Filter(lo.Range(len(input.Events)), func(event int, _ int) bool { return len(evaluator.CandidateRooms(event)) > 0 })
	rooms := lo.Uniq(lo.FlatMap(events, func(event int, _ int) []int { return evaluator.CandidateRooms(event) }))
	slots := make([]roomSlot, 0, len(rooms)*len(input.Timeslots))
	for _, room := range rooms {
		for time := range input.Timeslots {
			slots = append(slots, roomSlot{room: room, time: time})
		}
	}
	if len(events) == 0 || len(slots) == 0 {
		return diagnostics
	}

	// Durations are unbounded, so units are counted against the limit before any is built
	maxUnits := uint64(limit / len(slots))
	var total uint64
	for _, event := range events {
		duration := input.Events[event].Duration
		if duration > maxUnits-total {
			diagnostics.warn("instance", input.Name, fmt.Sprintf("room pre-check skipped, lesson units times %d room slots exceed the limit of %d candidate edges", len(slots), limit))
			return diagnostics
		}
		total += duration
	}

	units := make([]lessonUnit, 0, total)
	for _, event := range events {
		for unit, n := uint64(0), input.Events[event].Duration; unit < n; unit++ {
			units = append(units, lessonUnit{event: event, unit: unit})
		}
	}

	placed, err := largestRoomMatching(units, slots, evaluator)
	if err != nil {
		diagnostics.warn("instance", input.Name, fmt.Sprintf("room pre-check failed: %v", err))
		return diagnostics
	}
	if placed < len(units) {
		diagnostics.warn("instance", input.Name, unplaceableError{placed: placed, units: len(units)}.Error())
	}

	return diagnostics
}

func largestRoomMatching(units []lessonUnit, slots []roomSlot, evaluator predicateEvaluator) (int, error) {
	// Build neighbors predicate based on candidate rooms
	neighbors := func(unitAny any, slotAny any) (bool, error) {
		unit := unitAny.(lessonUnit)
		slot := slotAny.(roomSlot)

		return evaluator.Hosts(unit.event, slot.room+1), nil
	}

	// Transform units and slots to slices of any
	unitsAny, slotsAny := lo.Map(units, func(unit lessonUnit, _ int) any { return unit }), lo.Map(slots, func(slot roomSlot, _ int) any { return slot })

	graph, err := bipartitegraph.NewBipartiteGraph(unitsAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}

	return len(graph.LargestMatching()), nil
}
