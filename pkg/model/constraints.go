package model

import (
	"github.com/limaJavier/timetabling-lp/pkg/lp"
)

type DoubleLinking int

const (
	PairedLinking  DoubleLinking = iota // Indicator bounded from both sides
	RelaxedLinking                      // Indicator bounded from below only
)

type DoubleFloor int

const (
	ShortfallFloor DoubleFloor = iota // Unmet requests are absorbed by a penalized shortfall counter
	HardFloor                         // Requests must be met
)

type constraintState struct {
	input     Instance
	evaluator predicateEvaluator
	space     variableSpace
	options   Options
	rooms     bool
}

type pendingTerm struct {
	coefficient float64
	variable    VariableKey
}

// pendingRow is a generated row whose row name and variables have not been interned yet
type pendingRow struct {
	key           RowKey
	terms         []pendingTerm
	operator      lp.Operator
	rightHandSide float64
}

// expression accumulates terms, merging the coefficients of repeated variables
type expression struct {
	terms   []pendingTerm
	indices map[VariableKey]int
}

func newExpression() *expression {
	return &expression{indices: make(map[VariableKey]int)}
}

func (expr *expression) AddTerm(variable VariableKey, coefficient float64) *expression {
	if index, ok := expr.indices[variable]; ok {
		expr.terms[index].coefficient += coefficient
		return expr
	}
	expr.indices[variable] = len(expr.terms)
	expr.terms = append(expr.terms, pendingTerm{coefficient: coefficient, variable: variable})
	return expr
}

func (expr *expression) AddSum(variables []VariableKey, coefficient float64) *expression {
	for _, variable := range variables {
		expr.AddTerm(variable, coefficient)
	}
	return expr
}

// Terms that cancelled out are dropped
func (expr *expression) Terms() []pendingTerm {
	terms := make([]pendingTerm, 0, len(expr.terms))
	for _, term := range expr.terms {
		if term.coefficient != 0 {
			terms = append(terms, term)
		}
	}
	return terms
}

// Appends the row unless its expression is empty
func appendRow(rows []pendingRow, key RowKey, expr *expression, operator lp.Operator, rightHandSide float64) []pendingRow {
	terms := expr.Terms()
	if len(terms) == 0 {
		return rows
	}
	return append(rows, pendingRow{key: key, terms: terms, operator: operator, rightHandSide: rightHandSide})
}

// Σ_{t,r} x(e, t, r) = duration(e)
func coverageConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0, len(state.input.Events))
	for event, value := range state.input.Events {
		expr := newExpression().AddSum(state.space.perEvent[event], 1)
		rows = appendRow(rows, rowKey(CoverageRow, event, none, none), expr, lp.Equal, float64(value.Duration))
	}
	return rows
}

// Σ_{c,r} x(p, c, t, r) <= 1
func teacherConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for _, teacher := range state.space.teachers {
		for time := range state.input.Timeslots {
			expr := newExpression().AddSum(state.space.occupancy(teacher, time), 1)
			rows = appendRow(rows, rowKey(TeacherConflictRow, teacher, time, none), expr, lp.LessEqual, 1)
		}
	}
	return rows
}

// Σ_{p,r} x(p, c, t, r) <= 1
func classConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for _, class := range state.space.classes {
		for time := range state.input.Timeslots {
			expr := newExpression().AddSum(state.space.class[[2]int{class, time}], 1)
			rows = appendRow(rows, rowKey(ClassConflictRow, class, time, none), expr, lp.LessEqual, 1)
		}
	}
	return rows
}

// Σ_{p,c} x(p, c, t, r) <= 1
func roomConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	if !state.rooms {
		return rows
	}

	for _, room := range state.space.rooms {
		for time := range state.input.Timeslots {
			expr := newExpression().AddSum(state.space.room[[2]int{room, time}], 1)
			rows = appendRow(rows, rowKey(RoomConflictRow, room, time, none), expr, lp.LessEqual, 1)
		}
	}
	return rows
}

// Σ_{c,r} x(p, c, t, r) = 0 for every time p is unavailable at
func unavailabilityConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for descriptor, constraint := range state.input.Constraints {
		for _, teacher := range state.evaluator.UnavailableTeachers(descriptor) {
			for _, time := range constraint.Times {
				expr := newExpression().AddSum(state.space.occupancy(teacher, time), 1)
				rows = appendRow(rows, rowKey(UnavailabilityRow, descriptor, teacher, time), expr, lp.Equal, 0)
			}
		}
	}
	return rows
}

// Σ_{t∈day,r} x(e, t, r) <= maxDaily(e)
func dailyConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for event, value := range state.input.Events {
		if value.MaxDaily == 0 {
			continue
		}

		for _, day := range state.evaluator.Days() {
			expr := newExpression()
			for _, time := range state.evaluator.DayTimes(day) {
				expr.AddSum(state.space.eventAt(event, time), 1)
			}
			rows = appendRow(rows, rowKey(DailyCapRow, event, day, none), expr, lp.LessEqual, float64(value.MaxDaily))
		}
	}
	return rows
}

// Adjacent pairs the event may hold a double lesson on
func doublePairs(state constraintState, event int) [][2]int {
	pairs := make([][2]int, 0)
	for _, pair := range state.evaluator.AdjacentPairs() {
		if len(state.space.eventAt(event, pair[0])) > 0 && len(state.space.eventAt(event, pair[1])) > 0 {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// d(e, t) - x(e, t) - x(e, t+1) >= -1 and, in the paired form, d(e, t) - x(e, t) <= 0 and d(e, t) - x(e, t+1) <= 0
func doubleLinkingConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for event, value := range state.input.Events {
		if value.DoubleLessons == 0 {
			continue
		}

		for _, pair := range doublePairs(state, event) {
			first, second := state.space.eventAt(event, pair[0]), state.space.eventAt(event, pair[1])
			indicator := doubleKey(event, pair[0])

			relaxed := newExpression().AddTerm(indicator, 1).AddSum(first, -1).AddSum(second, -1)
			rows = appendRow(rows, rowKey(DoubleLinkingRow, event, pair[0], none), relaxed, lp.GreaterEqual, -1)

			if state.options.DoubleLinking != PairedLinking {
				continue
			}

			lower := newExpression().AddTerm(indicator, 1).AddSum(first, -1)
			key := rowKey(DoubleLinkingRow, event, pair[0], none)
			key.Part = lowerPart
			rows = appendRow(rows, key, lower, lp.LessEqual, 0)

			upper := newExpression().AddTerm(indicator, 1).AddSum(second, -1)
			key.Part = upperPart
			rows = appendRow(rows, key, upper, lp.LessEqual, 0)
		}
	}
	return rows
}

// idle(p, t) - occ(p, t) + occ(p, t+1) >= 0
func idleConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	if !state.options.IdleTracking {
		return rows
	}

	for _, teacher := range state.space.teachers {
		for _, pair := range state.evaluator.AdjacentPairs() {
			first, second := state.space.occupancy(teacher, pair[0]), state.space.occupancy(teacher, pair[1])
			if len(first) == 0 && len(second) == 0 {
				continue
			}

			expr := newExpression().AddTerm(idleKey(teacher, pair[0]), 1).AddSum(first, -1).AddSum(second, 1)
			rows = appendRow(rows, rowKey(IdleLinkingRow, teacher, pair[0], none), expr, lp.GreaterEqual, 0)
		}
	}
	return rows
}

// days(p) - Σ_{t∈day} occ(p, t) >= 0
func workingDaysConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	if !state.options.WorkingDays {
		return rows
	}

	for _, teacher := range state.space.teachers {
		for _, day := range state.evaluator.Days() {
			occupancy := newExpression()
			for _, time := range state.evaluator.DayTimes(day) {
				occupancy.AddSum(state.space.occupancy(teacher, time), -1)
			}
			if len(occupancy.Terms()) == 0 {
				continue
			}

			expr := newExpression().AddTerm(dayCounterKey(teacher), 1)
			for _, term := range occupancy.Terms() {
				expr.AddTerm(term.variable, term.coefficient)
			}
			rows = appendRow(rows, rowKey(WorkingDaysRow, teacher, day, none), expr, lp.GreaterEqual, 0)
		}
	}
	return rows
}

// Σ_t d(e, t) + shortfall(p, c) >= doubleLessons(e), the shortfall counter is left out by the hard form
func doubleFloorConstraints(state constraintState) []pendingRow {
	rows := make([]pendingRow, 0)
	for event, value := range state.input.Events {
		if value.DoubleLessons == 0 {
			continue
		}

		expr := newExpression()
		for _, pair := range doublePairs(state, event) {
			expr.AddTerm(doubleKey(event, pair[0]), 1)
		}
		if state.options.DoubleFloor == ShortfallFloor {
			expr.AddTerm(shortfallKey(value.Teacher, value.Class), 1)
		}
		rows = appendRow(rows, rowKey(DoubleFloorRow, event, none, none), expr, lp.GreaterEqual, float64(value.DoubleLessons))
	}
	return rows
}
