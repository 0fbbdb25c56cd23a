package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstrainedPermutations(t *testing.T) {
	t.Run("Unconstrained", func(t *testing.T) {
		generator := newPermutationGenerator(2, 3, 1)

		permutations := generator.ConstrainedPermutations(nil)

		assert.Len(t, permutations, 6)
		assert.Equal(t, []int{0, 0, 0}, permutations[0])
		assert.Equal(t, []int{1, 2, 0}, permutations[5])
	})

	t.Run("Constrained", func(t *testing.T) {
		generator := newPermutationGenerator(3, 4)
		evaluated := make([][]int, 0)

		permutations := generator.ConstrainedPermutations([]func(permutation []int) bool{
			func(permutation []int) bool {
				evaluated = append(evaluated, append([]int{}, permutation...))
				return permutation[0] == none || permutation[0] != 1
			},
			func(permutation []int) bool {
				return permutation[0] == none || permutation[1] == none || (permutation[0]+permutation[1])%2 == 0
			},
		})

		assert.Equal(t, [][]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}}, permutations)
		// Sub-trees of rejected prefixes are never explored
		for _, permutation := range evaluated {
			assert.False(t, permutation[0] == 1 && permutation[1] != none)
		}
	})

	t.Run("Empty domain", func(t *testing.T) {
		assert.Empty(t, newPermutationGenerator(3, 0).ConstrainedPermutations(nil))
		assert.Empty(t, newPermutationGenerator().ConstrainedPermutations(nil))
	})
}
