package model

type permutationGeneratorImplementation struct {
	domains []int
}

func (generator permutationGeneratorImplementation) ConstrainedPermutations(constraints []func(permutation []int) bool) [][]int {
	permutations := make([][]int, 0)
	if len(generator.domains) == 0 {
		return permutations
	}

	permutation := make([]int, len(generator.domains))
	for i := range permutation {
		permutation[i] = none
	}

	generator.constrainedPermutations(constraints, 0, permutation, &permutations)
	return permutations
}

func (generator permutationGeneratorImplementation) constrainedPermutations(
	constraints []func(permutation []int) bool,
	currentDomain int,
	permutation []int,
	permutations *[][]int) {

	if currentDomain >= len(generator.domains) {
		permutationCopy := make([]int, len(permutation))
		copy(permutationCopy, permutation)
		*permutations = append(*permutations, permutationCopy)
		return
	}

	for i, n := 0, generator.domains[currentDomain]; i < n; i++ {
		permutation[currentDomain] = i
		constraintViolated := false
		for _, constraint := range constraints {
			if !constraint(permutation) {
				constraintViolated = true
				break
			}
		}

		if constraintViolated {
			continue
		}

		generator.constrainedPermutations(constraints, currentDomain+1, permutation, permutations)
	}

	permutation[currentDomain] = none
}
