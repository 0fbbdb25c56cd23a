package model

type permutationGenerator interface {
	// Attributes' order in the permutation parameter is the following: Event, Time, RoomSlot.
	// All the constraints must take into account that if the value of permutation[i] (for all feasible i's) is none then the permutation is not ready to be evaluated if this evaluation involves permutation[i]
	//
	// Example:
	//
	//	generator := newPermutationGenerator(events, times, roomSlots)
	//
	//	permutations := generator.ConstrainedPermutations([]func(permutation []int) bool{
	//				func(permutation []int) bool {
	//	       		// Verify "permutation[2] == none", since the predicate "permutation[2] == 0" relies in this index
	//					return permutation[2] == none || permutation[2] == 0
	//				},
	//			})
	ConstrainedPermutations(constraints []func(permutation []int) bool) [][]int
}

func newPermutationGenerator(domains ...int) permutationGenerator {
	return &permutationGeneratorImplementation{domains: domains}
}
