package model

import (
	"fmt"
	"strings"
)

type VariableRole int

const (
	AssignmentVariable VariableRole = iota
	DoubleVariable
	IdleVariable
	DayCounterVariable
	ShortfallVariable
)

func (role VariableRole) String() string {
	switch role {
	case AssignmentVariable:
		return "x"
	case DoubleVariable:
		return "double"
	case IdleVariable:
		return "idle"
	case DayCounterVariable:
		return "days"
	case ShortfallVariable:
		return "short"
	}
	return fmt.Sprintf("VariableRole(%d)", int(role))
}

// VariableKey identifies a decision variable. Dimensions the role does not use are set to none
type VariableKey struct {
	Role    VariableRole
	Teacher int
	Class   int
	Time    int
	Room    int
	Event   int
}

func assignmentKey(teacher, class, time, room int) VariableKey {
	return VariableKey{Role: AssignmentVariable, Teacher: teacher, Class: class, Time: time, Room: room, Event: none}
}

func doubleKey(event, time int) VariableKey {
	return VariableKey{Role: DoubleVariable, Teacher: none, Class: none, Time: time, Room: none, Event: event}
}

func idleKey(teacher, time int) VariableKey {
	return VariableKey{Role: IdleVariable, Teacher: teacher, Class: none, Time: time, Room: none, Event: none}
}

func dayCounterKey(teacher int) VariableKey {
	return VariableKey{Role: DayCounterVariable, Teacher: teacher, Class: none, Time: none, Room: none, Event: none}
}

func shortfallKey(teacher, class int) VariableKey {
	return VariableKey{Role: ShortfallVariable, Teacher: teacher, Class: class, Time: none, Room: none, Event: none}
}

// Binary reports whether the variable is restricted to {0, 1}; counters are general integers
func (key VariableKey) Binary() bool {
	return key.Role != DayCounterVariable && key.Role != ShortfallVariable
}

type RowFamily int

const (
	CoverageRow RowFamily = iota
	TeacherConflictRow
	ClassConflictRow
	RoomConflictRow
	UnavailabilityRow
	DailyCapRow
	DoubleLinkingRow
	IdleLinkingRow
	WorkingDaysRow
	DoubleFloorRow
)

func (family RowFamily) String() string {
	switch family {
	case CoverageRow:
		return "coverage"
	case TeacherConflictRow:
		return "teacher"
	case ClassConflictRow:
		return "class"
	case RoomConflictRow:
		return "room"
	case UnavailabilityRow:
		return "unavailable"
	case DailyCapRow:
		return "daily"
	case DoubleLinkingRow:
		return "double"
	case IdleLinkingRow:
		return "idle"
	case WorkingDaysRow:
		return "workdays"
	case DoubleFloorRow:
		return "doubles"
	}
	return fmt.Sprintf("RowFamily(%d)", int(family))
}

// Parts of a double-linking row group
const (
	relaxedPart = iota
	lowerPart
	upperPart
)

// RowKey identifies a generated row. The meaning of A, B and C depends on the family:
//
//	Coverage, DoubleFloor:          A = event
//	TeacherConflict, IdleLinking:   A = teacher, B = time
//	ClassConflict:                  A = class, B = time
//	RoomConflict:                   A = room, B = time
//	Unavailability:                 A = descriptor, B = teacher, C = time
//	DailyCap:                       A = event, B = day
//	DoubleLinking:                  A = event, B = time (first of the pair), Part = relaxed/lower/upper
//	WorkingDays:                    A = teacher, B = day
type RowKey struct {
	Family RowFamily
	Part   int
	A      int
	B      int
	C      int
}

func rowKey(family RowFamily, a, b, c int) RowKey {
	return RowKey{Family: family, A: a, B: b, C: c}
}

// keyNamer renders keys as descriptive LP identifiers and as legend descriptions
type keyNamer struct {
	input Instance
}

func (namer keyNamer) resource(index int) string {
	return namer.input.Resources[index].Id
}

func (namer keyNamer) time(index int) string {
	return namer.input.Timeslots[index].Id
}

func (namer keyNamer) VariableName(key VariableKey) string {
	parts := []string{key.Role.String()}
	switch key.Role {
	case AssignmentVariable:
		parts = append(parts, namer.resource(key.Teacher), namer.resource(key.Class), namer.time(key.Time))
		if key.Room != none {
			parts = append(parts, namer.resource(key.Room))
		}
	case DoubleVariable:
		parts = append(parts, namer.input.Events[key.Event].Id, namer.time(key.Time))
	case IdleVariable:
		parts = append(parts, namer.resource(key.Teacher), namer.time(key.Time))
	case DayCounterVariable:
		parts = append(parts, namer.resource(key.Teacher))
	case ShortfallVariable:
		parts = append(parts, namer.resource(key.Teacher), namer.resource(key.Class))
	}
	return sanitize(strings.Join(parts, "_"))
}

func (namer keyNamer) VariableDescription(key VariableKey) string {
	var fields []string
	if key.Teacher != none {
		fields = append(fields, "teacher="+namer.resource(key.Teacher))
	}
	if key.Class != none {
		fields = append(fields, "class="+namer.resource(key.Class))
	}
	if key.Event != none {
		fields = append(fields, "event="+namer.input.Events[key.Event].Id)
	}
	if key.Time != none {
		fields = append(fields, "time="+namer.time(key.Time))
	}
	if key.Room != none {
		fields = append(fields, "room="+namer.resource(key.Room))
	}
	return fmt.Sprintf("%v(%v)", key.Role, strings.Join(fields, ", "))
}

func (namer keyNamer) rowParts(key RowKey) []string {
	switch key.Family {
	case CoverageRow, DoubleFloorRow:
		return []string{namer.input.Events[key.A].Id}
	case TeacherConflictRow, ClassConflictRow, RoomConflictRow, IdleLinkingRow:
		return []string{namer.resource(key.A), namer.time(key.B)}
	case UnavailabilityRow:
		descriptor := namer.input.Constraints[key.A]
		return []string{descriptor.Id, namer.resource(key.B), namer.time(key.C)}
	case DailyCapRow:
		return []string{namer.input.Events[key.A].Id, namer.input.TimeGroups[key.B].Id}
	case DoubleLinkingRow:
		return []string{namer.input.Events[key.A].Id, namer.time(key.B)}
	case WorkingDaysRow:
		return []string{namer.resource(key.A), namer.input.TimeGroups[key.B].Id}
	}
	return nil
}

func (namer keyNamer) RowName(key RowKey) string {
	prefix := key.Family.String()
	switch {
	case key.Family == DoubleLinkingRow && key.Part == lowerPart:
		prefix = "double_lower"
	case key.Family == DoubleLinkingRow && key.Part == upperPart:
		prefix = "double_upper"
	}
	return sanitize(strings.Join(append([]string{prefix}, namer.rowParts(key)...), "_"))
}

func (namer keyNamer) RowDescription(key RowKey) string {
	description := fmt.Sprintf("%v(%v)", key.Family, strings.Join(namer.rowParts(key), ", "))
	switch {
	case key.Family == DoubleLinkingRow && key.Part == lowerPart:
		description += " lower bound"
	case key.Family == DoubleLinkingRow && key.Part == upperPart:
		description += " upper bound"
	}
	return description
}

// Replaces every character outside the LP identifier alphabet we rely on ([A-Za-z0-9_.]) with an underscore
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}
