package model

import (
	"fmt"

	"github.com/limaJavier/timetabling-lp/pkg/lp"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func normalizeOptions(options Options) Options {
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.RoomPrecheckLimit <= 0 {
		options.RoomPrecheckLimit = DefaultOptions().RoomPrecheckLimit
	}
	return options
}

func compile(input Instance, options Options, modelRooms bool) (Result, error) {
	logger := options.Logger.With(zap.String("instance", input.Name), zap.Bool("rooms", modelRooms))

	//** Validate input
	input, diagnostics := filterEvents(input)
	if len(input.Events) == 0 {
		diagnostics.log(logger)
		return Result{Diagnostics: diagnostics}, PreconditionError{Reason: "no valid events were found"}
	}
	if modelRooms && len(input.resourcesOfType(RoomResource)) == 0 {
		diagnostics.log(logger)
		return Result{Diagnostics: diagnostics}, PreconditionError{Reason: "no valid rooms were found"}
	}

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(input, modelRooms)
	space, spaceDiagnostics := buildVariableSpace(input, evaluator, modelRooms)
	diagnostics = append(diagnostics, spaceDiagnostics...)

	if modelRooms && options.RoomPrecheck {
		diagnostics = append(diagnostics, roomPrecheck(input, evaluator, options.RoomPrecheckLimit)...)
	}

	//** Build rows
	// Constraints functions, in emission order
	constraints := []func(state constraintState) []pendingRow{
		coverageConstraints,
		teacherConstraints,
		classConstraints,
		roomConstraints,
		unavailabilityConstraints,
		dailyConstraints,
		doubleLinkingConstraints,
		idleConstraints,
		workingDaysConstraints,
		doubleFloorConstraints,
	}

	state := constraintState{
		input:     input,
		evaluator: evaluator,
		space:     space,
		options:   options,
		rooms:     modelRooms,
	}

	rows := collectRows(constraints, state)
	objective := buildObjective(rows)

	//** Intern keys
	namer := keyNamer{input: input}
	variables, rowNames := newVariableIndexer(options.Naming, namer), newRowIndexer(options.Naming, namer)

	model, err := buildModel(rows, objective, variables, rowNames)
	if err != nil {
		diagnostics.log(logger)
		return Result{Diagnostics: diagnostics}, fmt.Errorf("cannot name model: %w", err)
	}

	diagnostics.log(logger)
	logger.Info("model compiled",
		zap.Int("events", len(input.Events)),
		zap.Uint64("variables", model.Variables()),
		zap.Int("rows", len(model.Rows)),
		zap.Int("warnings", len(diagnostics)),
	)

	return Result{
		Model:          model,
		VariableLegend: variables.Legend(),
		RowLegend:      rowNames.Legend(),
		Diagnostics:    diagnostics,
	}, nil
}

// Returns a copy of the input holding only the events that can be modeled
func filterEvents(input Instance) (Instance, Diagnostics) {
	diagnostics := Diagnostics{}
	events := make([]Event, 0, len(input.Events))

	inRange := func(resource int) bool { return resource >= 0 && resource < len(input.Resources) }
	isType := func(resource int, resourceType ResourceType) bool {
		return inRange(resource) && input.Resources[resource].Type == resourceType
	}

	for _, event := range input.Events {
		if event.Duration == 0 {
			diagnostics.warn("event", event.Id, "missing or invalid duration, event ignored")
			continue
		}
		if !event.hasResources() || !inRange(event.Teacher) || !inRange(event.Class) {
			diagnostics.warn("event", event.Id, "teacher or class is unresolved, event ignored")
			continue
		}

		rooms := lo.Filter(event.Rooms, func(room int, _ int) bool { return isType(room, RoomResource) })
		if len(rooms) != len(event.Rooms) {
			diagnostics.warn("event", event.Id, "references to unknown rooms were dropped")
		}
		event.Rooms = rooms

		if event.Duration > uint64(len(input.Timeslots)) {
			diagnostics.warn("event", event.Id, fmt.Sprintf("duration %d exceeds the %d available timeslots, the model is infeasible", event.Duration, len(input.Timeslots)))
		}

		events = append(events, event)
	}

	input.Events = events
	return input, diagnostics
}

// Runs every constraint function on its own goroutine. Rows are stored in the slot of the function that generated them so the result does not depend on scheduling
func collectRows(constraints []func(state constraintState) []pendingRow, state constraintState) []pendingRow {
	type generated struct {
		slot int
		rows []pendingRow
	}

	slots := make([][]pendingRow, len(constraints))
	rowsChannel := make(chan generated) // Channel to collect rows

	for i, constraint := range constraints {
		go func(slot int, constraint func(state constraintState) []pendingRow) {
			rowsChannel <- generated{slot: slot, rows: constraint(state)}
		}(i, constraint)
	}

	// Collect generated rows
	collected := 0
	for result := range rowsChannel {
		slots[result.slot] = result.rows

		// Check whether all constraints have been collected to properly close the channel
		if collected++; collected == len(constraints) {
			close(rowsChannel)
		}
	}

	return lo.Flatten(slots)
}

// Interns every key in row order and assembles the abstract model
func buildModel(rows []pendingRow, objective []pendingTerm, variables indexer[VariableKey], rowNames indexer[RowKey]) (lp.Model, error) {
	model := lp.Model{
		Objective: make([]lp.Term, 0, len(objective)),
		Rows:      make([]lp.Row, 0, len(rows)),
	}
	declared := make(map[VariableKey]bool)

	toTerms := func(pending []pendingTerm) ([]lp.Term, error) {
		terms := make([]lp.Term, 0, len(pending))
		for _, term := range pending {
			token, err := variables.Intern(term.variable)
			if err != nil {
				return nil, err
			}

			if !declared[term.variable] {
				declared[term.variable] = true
				if term.variable.Binary() {
					model.Binaries = append(model.Binaries, token)
				} else {
					model.Generals = append(model.Generals, token)
				}
			}

			terms = append(terms, lp.Term{Coefficient: term.coefficient, Variable: token})
		}
		return terms, nil
	}

	for _, row := range rows {
		name, err := rowNames.Intern(row.key)
		if err != nil {
			return lp.Model{}, err
		}

		terms, err := toTerms(row.terms)
		if err != nil {
			return lp.Model{}, err
		}

		model.Rows = append(model.Rows, lp.Row{
			Name:          name,
			Terms:         terms,
			Operator:      row.operator,
			RightHandSide: row.rightHandSide,
		})
	}

	objectiveTerms, err := toTerms(objective)
	if err != nil {
		return lp.Model{}, err
	}
	model.Objective = objectiveTerms

	return model, nil
}
