package model

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instancesDirectory = "../../test/instances/"

func rawMonday() RawInstance {
	return RawInstance{
		Name:       "raw",
		TimeGroups: []RawTimeGroup{{Id: "Mon", Kind: "Day"}},
		Times: []RawTimeslot{
			{Id: "T1", Groups: []string{"Mon"}},
			{Id: "T2", Groups: []string{"Mon", "Mon"}},
		},
		Resources: []RawResource{
			{Id: "T_A", Type: "Teacher"},
			{Id: "C_A", Type: "Class"},
			{Id: "R1", Type: "Room"},
			{Id: "X", Type: "Equipment"},
		},
		Events: []RawEvent{
			{
				Id:        "E1",
				Duration:  lo.ToPtr(uint64(2)),
				Resources: []RawResourceRole{{Reference: "T_A", Role: "Teacher"}, {Reference: "C_A", Role: "Class"}},
			},
		},
	}
}

func TestProcessRawInput(t *testing.T) {
	t.Run("Resolved instance", func(t *testing.T) {
		//** Arrange
		raw := rawMonday()

		//** Act
		input, diagnostics, err := ProcessRawInput(raw)

		//** Assert
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
		assert.Equal(t, []int{0}, input.Timeslots[1].Groups)
		assert.Equal(t, OtherResource, input.Resources[3].Type)
		assert.Equal(t, Event{Id: "E1", Duration: 2, Teacher: 0, Class: 1}, input.Events[0])
	})

	t.Run("Roles fall back to resource types", func(t *testing.T) {
		raw := rawMonday()
		raw.Events[0].Resources = []RawResourceRole{{Reference: "C_A"}, {Reference: "R1"}, {Reference: "T_A", Role: "unknown"}, {Reference: "X"}}

		input, diagnostics, err := ProcessRawInput(raw)

		require.NoError(t, err)
		assert.Empty(t, diagnostics)
		assert.Equal(t, 0, input.Events[0].Teacher)
		assert.Equal(t, 1, input.Events[0].Class)
		assert.Equal(t, []int{2}, input.Events[0].Rooms)
	})

	t.Run("Role overrides resource type", func(t *testing.T) {
		raw := rawMonday()
		raw.Events[0].Resources = []RawResourceRole{{Reference: "X", Role: "Teacher"}, {Reference: "C_A", Role: "Class"}}

		input, _, err := ProcessRawInput(raw)

		require.NoError(t, err)
		assert.Equal(t, 3, input.Events[0].Teacher)
	})

	t.Run("Optional values", func(t *testing.T) {
		raw := rawMonday()
		raw.Events[0].MaxDaily = lo.ToPtr(uint64(1))
		raw.Constraints = []RawConstraint{
			{Id: "T_A", Name: "AvoidUnavailableTimes", Times: []string{"T2"}},
			{Id: "c", Name: "AvoidUnavailableTimesConstraint", Weight: lo.ToPtr(2.5), TimeGroups: []string{"Mon"}, Resources: []string{"T_A"}},
			{Id: "s", Name: "SplitEvents"},
		}

		input, diagnostics, err := ProcessRawInput(raw)

		require.NoError(t, err)
		assert.Empty(t, diagnostics)
		assert.Equal(t, uint64(1), input.Events[0].MaxDaily)
		assert.Equal(t, uint64(0), input.Events[0].DoubleLessons)
		assert.Equal(t, 1.0, input.Constraints[0].Weight)
		assert.Equal(t, []int{1}, input.Constraints[0].Times)
		assert.Equal(t, 2.5, input.Constraints[1].Weight)
		assert.Equal(t, []int{0, 1}, input.Constraints[1].Times)
		assert.Equal(t, []int{0}, input.Constraints[1].Resources)
		assert.Equal(t, AvoidUnavailableTimesConstraint, input.Constraints[1].Kind)
		assert.Equal(t, UnrecognizedConstraint, input.Constraints[2].Kind)
	})

	t.Run("Unresolvable entities are dropped", func(t *testing.T) {
		raw := rawMonday()
		raw.Times = append(raw.Times, RawTimeslot{Id: "T1"})
		raw.Events = append(raw.Events,
			RawEvent{Id: "NoDuration", Resources: raw.Events[0].Resources},
			RawEvent{Id: "ZeroDuration", Duration: lo.ToPtr(uint64(0)), Resources: raw.Events[0].Resources},
			RawEvent{Id: "NoClass", Duration: lo.ToPtr(uint64(1)), Resources: []RawResourceRole{{Reference: "T_A"}}},
			RawEvent{Id: "Unknown", Duration: lo.ToPtr(uint64(1)), Resources: []RawResourceRole{{Reference: "T_A"}, {Reference: "C_A"}, {Reference: "R9"}}},
		)
		raw.Constraints = []RawConstraint{{Id: "T_A", Name: "AvoidUnavailableTimes", Times: []string{"T9"}}}

		input, diagnostics, err := ProcessRawInput(raw)

		require.NoError(t, err)
		assert.Equal(t, []string{"E1", "Unknown"}, lo.Map(input.Events, func(event Event, _ int) string { return event.Id }))
		assert.Len(t, input.Timeslots, 2)
		assert.Empty(t, input.Constraints[0].Times)

		ids := lo.Map(diagnostics, func(diagnostic Diagnostic, _ int) string { return diagnostic.Id })
		assert.Equal(t, []string{"T1", "NoDuration", "ZeroDuration", "NoClass", "Unknown", "T_A"}, ids)
	})

	t.Run("No valid events", func(t *testing.T) {
		raw := rawMonday()
		raw.Events[0].Resources = raw.Events[0].Resources[:1]

		_, diagnostics, err := ProcessRawInput(raw)

		var precondition PreconditionError
		assert.True(t, errors.As(err, &precondition))
		assert.Len(t, diagnostics, 1)
	})
}

func TestInputFromJson(t *testing.T) {
	t.Run("Valid file", func(t *testing.T) {
		//** Act
		input, diagnostics, err := InputFromJson(instancesDirectory + "week.json")

		//** Assert
		require.NoError(t, err)
		assert.Empty(t, diagnostics)
		assert.Equal(t, "week", input.Name)
		assert.Len(t, input.Timeslots, 6)
		assert.Len(t, input.Events, 3)

		assert.Equal(t, Event{Id: "Math", Duration: 3, Teacher: 0, Class: 2, MaxDaily: 2, DoubleLessons: 1}, input.Events[0])
		assert.Equal(t, []int{5}, input.Events[1].Rooms)
		assert.Equal(t, 1, input.Events[2].Teacher)

		assert.Equal(t, []int{3, 4, 5}, input.Constraints[1].Times)
		assert.Equal(t, 5.0, input.Constraints[1].Weight)
		assert.Equal(t, UnrecognizedConstraint, input.Constraints[2].Kind)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, _, err := InputFromJson(instancesDirectory + "missing.json")
		assert.Error(t, err)
	})

	t.Run("Fractional counts", func(t *testing.T) {
		//** Arrange
		document, err := os.ReadFile(instancesDirectory + "week.json")
		require.NoError(t, err)
		document = []byte(strings.NewReplacer(`"duration": 3`, `"duration": 2.5`, `"maxDaily": 2`, `"maxDaily": 1.5`, `"duration": 2,`, `"duration": -1,`).Replace(string(document)))

		//** Act
		input, diagnostics, err := DecodeJson(document)

		//** Assert
		require.Error(t, err)
		messages := diagnostics.Strings()
		assert.Contains(t, messages, `event "Math": invalid duration 2.5`)
		assert.Contains(t, messages, `event "Math": invalid maxDaily 1.5`)
		assert.Contains(t, messages, `event "Physics": invalid duration -1`)
		assert.Contains(t, messages, `event "Math": missing or invalid duration, event ignored`)
		assert.Empty(t, input.Events)
	})

	t.Run("Integral counts given as decimals", func(t *testing.T) {
		input, diagnostics, err := DecodeJson([]byte(`{"times": [{"id": "T1"}], "resources": [{"id": "P", "type": "Teacher"}, {"id": "G", "type": "Class"}], "events": [{"id": "E", "duration": 2.0, "maxDaily": 1.0, "resources": [{"reference": "P"}, {"reference": "G"}]}]}`))

		require.NoError(t, err)
		assert.Empty(t, diagnostics)
		assert.Equal(t, uint64(2), input.Events[0].Duration)
		assert.Equal(t, uint64(1), input.Events[0].MaxDaily)
	})

	t.Run("Malformed document", func(t *testing.T) {
		_, _, err := DecodeJson([]byte(`{"events": [`))
		assert.Error(t, err)

		_, _, err = DecodeJson([]byte(`{"events": "none"}`))
		assert.Error(t, err)
	})
}

func TestInputFromXml(t *testing.T) {
	t.Run("Valid file", func(t *testing.T) {
		//** Act
		input, diagnostics, err := InputFromXml(instancesDirectory + "monday.xml")

		//** Assert
		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "E2", diagnostics[0].Id)

		assert.Equal(t, "Monday", input.Name)
		assert.Equal(t, []TimeGroupKind{WeekGroup, DayGroup}, lo.Map(input.TimeGroups, func(group TimeGroup, _ int) TimeGroupKind { return group.Kind }))
		assert.Equal(t, []int{1, 0}, input.Timeslots[0].Groups)
		assert.Equal(t, []ResourceType{TeacherResource, ClassResource, RoomResource}, lo.Map(input.Resources, func(resource Resource, _ int) ResourceType { return resource.Type }))
		assert.Equal(t, Event{Id: "E1", Name: "Mathematics", Duration: 2, Teacher: 0, Class: 1}, input.Events[0])

		require.Len(t, input.Constraints, 2)
		assert.Equal(t, AvoidUnavailableTimesConstraint, input.Constraints[0].Kind)
		assert.True(t, input.Constraints[0].Required)
		assert.Equal(t, 10.0, input.Constraints[0].Weight)
		assert.Equal(t, []int{0}, input.Constraints[0].Resources)
		assert.Equal(t, []int{1}, input.Constraints[0].Times)
		assert.Equal(t, UnrecognizedConstraint, input.Constraints[1].Kind)
	})

	t.Run("Compiles", func(t *testing.T) {
		input, _, err := InputFromXml(instancesDirectory + "monday.xml")
		require.NoError(t, err)

		result, err := NewTimeOnlyCompiler(descriptiveOptions()).Compile(input)

		require.NoError(t, err)
		row := findRow(t, result.Model, "unavailable_T_A_T_A_T2")
		assert.Len(t, row.Terms, 1)
	})

	t.Run("Several instances", func(t *testing.T) {
		document := `<Archive><Instances>
			<Instance Id="first">
				<Resources>
					<Resource Id="t"><ResourceType Reference="Teacher"/></Resource>
					<Resource Id="c"><ResourceType Reference="Class"/></Resource>
				</Resources>
				<Events><Event Id="e"><Duration>1</Duration><Resources><Resource Reference="t"/><Resource Reference="c"/></Resources></Event></Events>
			</Instance>
			<Instance Id="second"/>
		</Instances></Archive>`

		input, diagnostics, err := DecodeXml([]byte(document))

		require.NoError(t, err)
		assert.Equal(t, "first", input.Name)
		require.Len(t, diagnostics, 1)
		assert.Contains(t, diagnostics[0].Message, "2 instances")
	})

	t.Run("Malformed document", func(t *testing.T) {
		_, _, err := DecodeXml([]byte(`<Archive><Instances>`))
		assert.Error(t, err)

		_, _, err = DecodeXml([]byte(`<Archive/>`))
		assert.Error(t, err)
	})

	t.Run("Invalid counts", func(t *testing.T) {
		document := `<Archive><Instances><Instance Id="i">
			<Resources>
				<Resource Id="t"><ResourceType Reference="Teacher"/></Resource>
				<Resource Id="c"><ResourceType Reference="Class"/></Resource>
			</Resources>
			<Events><Event Id="e"><Duration>two</Duration><Resources><Resource Reference="t"/><Resource Reference="c"/></Resources></Event></Events>
		</Instance></Instances></Archive>`

		_, diagnostics, err := DecodeXml([]byte(document))

		var precondition PreconditionError
		assert.True(t, errors.As(err, &precondition))
		assert.Len(t, diagnostics, 2)
	})
}
