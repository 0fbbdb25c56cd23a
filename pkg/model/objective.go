package model

// Penalties of the soft families
const (
	workingDayWeight = 9
	idleWeight       = 3
	shortfallWeight  = 1
)

func objectiveWeight(role VariableRole) float64 {
	switch role {
	case DayCounterVariable:
		return workingDayWeight
	case IdleVariable:
		return idleWeight
	case ShortfallVariable:
		return shortfallWeight
	}
	return 0
}

// Builds the minimization expression from the penalized variables the rows mention, each variable taken once
func buildObjective(rows []pendingRow) []pendingTerm {
	objective := make([]pendingTerm, 0)
	seen := make(map[VariableKey]bool)

	for _, row := range rows {
		for _, term := range row.terms {
			weight := objectiveWeight(term.variable.Role)
			if weight == 0 || seen[term.variable] {
				continue
			}
			seen[term.variable] = true
			objective = append(objective, pendingTerm{coefficient: weight, variable: term.variable})
		}
	}

	return objective
}
