package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Sentinel index for an unresolved (or unused) reference
const none = -1

type ResourceType int

const (
	OtherResource ResourceType = iota
	TeacherResource
	ClassResource
	RoomResource
)

func (resourceType ResourceType) String() string {
	switch resourceType {
	case TeacherResource:
		return "Teacher"
	case ClassResource:
		return "Class"
	case RoomResource:
		return "Room"
	}
	return "Other"
}

// ParseResourceType maps the type (or role) names used by instances onto a ResourceType
func ParseResourceType(name string) ResourceType {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(name, "teacher"):
		return TeacherResource
	case strings.HasPrefix(name, "class"), strings.HasPrefix(name, "student"):
		return ClassResource
	case strings.HasPrefix(name, "room"):
		return RoomResource
	}
	return OtherResource
}

type TimeGroupKind int

const (
	GenericGroup TimeGroupKind = iota
	DayGroup
	WeekGroup
)

func ParseTimeGroupKind(name string) TimeGroupKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "day":
		return DayGroup
	case "week":
		return WeekGroup
	}
	return GenericGroup
}

type ConstraintKind int

const (
	UnrecognizedConstraint ConstraintKind = iota // Ignored by every constraint family
	AvoidUnavailableTimesConstraint
)

// ParseConstraintKind maps a descriptor name onto a known constraint family
func ParseConstraintKind(name string) ConstraintKind {
	name = strings.TrimSuffix(strings.TrimSpace(name), "Constraint")
	if name == "AvoidUnavailableTimes" {
		return AvoidUnavailableTimesConstraint
	}
	return UnrecognizedConstraint
}

type TimeGroup struct {
	Id   string
	Name string
	Kind TimeGroupKind
}

type Timeslot struct {
	Id     string
	Name   string
	Groups []int // Indices into Instance.TimeGroups
}

type Resource struct {
	Id   string
	Name string
	Type ResourceType
}

type Event struct {
	Id            string
	Name          string
	Duration      uint64
	Teacher       int   // Index into Instance.Resources
	Class         int   // Index into Instance.Resources
	Rooms         []int // Declared rooms, indices into Instance.Resources
	MaxDaily      uint64
	DoubleLessons uint64
}

type ConstraintDescriptor struct {
	Id        string
	Name      string
	Kind      ConstraintKind
	Required  bool
	Weight    float64
	Resources []int // Resources the descriptor applies to besides the one matching its Id
	Times     []int // Indices into Instance.Timeslots
}

type Instance struct {
	Name        string
	TimeGroups  []TimeGroup
	Timeslots   []Timeslot
	Resources   []Resource
	Events      []Event
	Constraints []ConstraintDescriptor
}

type RawTimeGroup struct {
	Id   string
	Name string
	Kind string
}

type RawTimeslot struct {
	Id     string
	Name   string
	Groups []string
}

type RawResource struct {
	Id   string
	Name string
	Type string
}

type RawResourceRole struct {
	Reference string
	Role      string
}

type RawEvent struct {
	Id            string
	Name          string
	Duration      *uint64
	MaxDaily      *uint64 `mapstructure:"maxDaily"`
	DoubleLessons *uint64 `mapstructure:"doubleLessons"`
	Resources     []RawResourceRole
}

type RawConstraint struct {
	Id         string
	Name       string
	Required   bool
	Weight     *float64
	Resources  []string
	Times      []string
	TimeGroups []string `mapstructure:"timeGroups"`
}

type RawInstance struct {
	Name        string
	TimeGroups  []RawTimeGroup `mapstructure:"timeGroups"`
	Times       []RawTimeslot
	Resources   []RawResource
	Events      []RawEvent
	Constraints []RawConstraint
}

// ProcessRawInput resolves every reference of the raw instance into indices. Entities that cannot be fully resolved are skipped and reported through the returned diagnostics
func ProcessRawInput(rawInput RawInstance) (Instance, Diagnostics, error) {
	diagnostics := Diagnostics{}
	input := Instance{Name: rawInput.Name}

	//** Manage time-groups
	groupIndices := make(map[string]int)
	for _, rawGroup := range rawInput.TimeGroups {
		if _, ok := groupIndices[rawGroup.Id]; ok || rawGroup.Id == "" {
			diagnostics.warn("time group", rawGroup.Id, "duplicate or empty identifier")
			continue
		}
		groupIndices[rawGroup.Id] = len(input.TimeGroups)
		input.TimeGroups = append(input.TimeGroups, TimeGroup{
			Id:   rawGroup.Id,
			Name: lo.Ternary(rawGroup.Name != "", rawGroup.Name, rawGroup.Id),
			Kind: ParseTimeGroupKind(rawGroup.Kind),
		})
	}

	//** Manage timeslots
	timeIndices := make(map[string]int)
	for _, rawTime := range rawInput.Times {
		if _, ok := timeIndices[rawTime.Id]; ok || rawTime.Id == "" {
			diagnostics.warn("time", rawTime.Id, "duplicate or empty identifier")
			continue
		}

		timeslot := Timeslot{Id: rawTime.Id, Name: rawTime.Name}
		for _, reference := range lo.Uniq(rawTime.Groups) {
			group, ok := groupIndices[reference]
			if !ok {
				// Groups referenced but never declared are taken as days, the way instances reference them through <Day>
				group = len(input.TimeGroups)
				groupIndices[reference] = group
				input.TimeGroups = append(input.TimeGroups, TimeGroup{Id: reference, Name: reference, Kind: DayGroup})
			}
			timeslot.Groups = append(timeslot.Groups, group)
		}

		timeIndices[rawTime.Id] = len(input.Timeslots)
		input.Timeslots = append(input.Timeslots, timeslot)
	}

	//** Manage resources
	resourceIndices := make(map[string]int)
	for _, rawResource := range rawInput.Resources {
		if _, ok := resourceIndices[rawResource.Id]; ok || rawResource.Id == "" {
			diagnostics.warn("resource", rawResource.Id, "duplicate or empty identifier")
			continue
		}
		resourceIndices[rawResource.Id] = len(input.Resources)
		input.Resources = append(input.Resources, Resource{
			Id:   rawResource.Id,
			Name: lo.Ternary(rawResource.Name != "", rawResource.Name, rawResource.Id),
			Type: ParseResourceType(rawResource.Type),
		})
	}

	//** Manage events
	for _, rawEvent := range rawInput.Events {
		if rawEvent.Duration == nil || *rawEvent.Duration == 0 {
			diagnostics.warn("event", rawEvent.Id, "missing or invalid duration, event ignored")
			continue
		}

		event := Event{
			Id:            rawEvent.Id,
			Name:          rawEvent.Name,
			Duration:      *rawEvent.Duration,
			Teacher:       none,
			Class:         none,
			MaxDaily:      lo.FromPtr(rawEvent.MaxDaily),
			DoubleLessons: lo.FromPtr(rawEvent.DoubleLessons),
		}
		resolveEventResources(&event, rawEvent.Resources, input.Resources, resourceIndices, &diagnostics)

		if event.Teacher == none {
			diagnostics.warn("event", rawEvent.Id, "teacher is missing, event ignored")
		}
		if event.Class == none {
			diagnostics.warn("event", rawEvent.Id, "class is missing, event ignored")
		}
		if event.Teacher == none || event.Class == none {
			continue
		}

		input.Events = append(input.Events, event)
	}

	//** Manage constraints
	for _, rawConstraint := range rawInput.Constraints {
		descriptor := ConstraintDescriptor{
			Id:       rawConstraint.Id,
			Name:     rawConstraint.Name,
			Kind:     ParseConstraintKind(rawConstraint.Name),
			Required: rawConstraint.Required,
			Weight:   1.0,
		}
		if rawConstraint.Weight != nil {
			descriptor.Weight = *rawConstraint.Weight
		}

		for _, reference := range rawConstraint.Resources {
			if resource, ok := resourceIndices[reference]; ok {
				descriptor.Resources = append(descriptor.Resources, resource)
			} else {
				diagnostics.warn("constraint", rawConstraint.Id, fmt.Sprintf("unknown resource %q", reference))
			}
		}

		times := make(map[int]bool)
		for _, reference := range rawConstraint.Times {
			if time, ok := timeIndices[reference]; ok {
				times[time] = true
			} else {
				diagnostics.warn("constraint", rawConstraint.Id, fmt.Sprintf("unknown time %q", reference))
			}
		}
		for _, reference := range rawConstraint.TimeGroups {
			group, ok := groupIndices[reference]
			if !ok {
				diagnostics.warn("constraint", rawConstraint.Id, fmt.Sprintf("unknown time group %q", reference))
				continue
			}
			for time, timeslot := range input.Timeslots {
				if lo.Contains(timeslot.Groups, group) {
					times[time] = true
				}
			}
		}
		// Keep declaration order
		for time := range input.Timeslots {
			if times[time] {
				descriptor.Times = append(descriptor.Times, time)
			}
		}

		input.Constraints = append(input.Constraints, descriptor)
	}

	if len(input.Events) == 0 {
		return Instance{}, diagnostics, PreconditionError{Reason: "no valid events were found"}
	}

	return input, diagnostics, nil
}

// Scans the event's resource-role associations. The role decides first; when it is absent (or unknown) the resource's own type does
func resolveEventResources(event *Event, roles []RawResourceRole, resources []Resource, resourceIndices map[string]int, diagnostics *Diagnostics) {
	for _, role := range roles {
		resource, ok := resourceIndices[role.Reference]
		if !ok {
			diagnostics.warn("event", event.Id, fmt.Sprintf("unknown resource %q", role.Reference))
			continue
		}

		resourceType := ParseResourceType(role.Role)
		if resourceType == OtherResource {
			resourceType = resources[resource].Type
		}

		switch resourceType {
		case TeacherResource:
			if event.Teacher == none {
				event.Teacher = resource
			} else if event.Teacher != resource {
				diagnostics.warn("event", event.Id, fmt.Sprintf("additional teacher %q ignored", role.Reference))
			}
		case ClassResource:
			if event.Class == none {
				event.Class = resource
			} else if event.Class != resource {
				diagnostics.warn("event", event.Id, fmt.Sprintf("additional class %q ignored", role.Reference))
			}
		case RoomResource:
			if !lo.Contains(event.Rooms, resource) {
				event.Rooms = append(event.Rooms, resource)
			}
		}
	}
}

func (input Instance) resourcesOfType(resourceType ResourceType) []int {
	indices := make([]int, 0)
	for i, resource := range input.Resources {
		if resource.Type == resourceType {
			indices = append(indices, i)
		}
	}
	return indices
}

func (event Event) hasResources() bool {
	return event.Teacher != none && event.Class != none
}
