package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/example/casegen/casegen/domain"
)

// enumerateLimit is the largest product that is materialized before
// sampling. Larger products are sampled index by index.
const enumerateLimit = 1 << 20

// GenerateCombinations returns the combinations to turn into test cases and
// the size of the full Cartesian product (saturated at math.MaxInt).
//
// When the product holds at most maxCases combinations it is returned in
// full, in product order: the first variable varies slowest. Otherwise
// exactly maxCases distinct combinations are drawn uniformly without
// replacement from rng, in draw order.
func GenerateCombinations(set *domain.RepresentativeSet, maxCases int, rng *rand.Rand) ([]domain.Combination, int, error) {
	if maxCases <= 0 {
		return nil, 0, &domain.SamplingError{MaxCases: maxCases, Reason: "must be positive"}
	}
	if maxCases > domain.MaxIdentifierSpace {
		return nil, 0, &domain.SamplingError{
			MaxCases: maxCases,
			Reason:   fmt.Sprintf("exceeds identifier space of %d", domain.MaxIdentifierSpace),
		}
	}
	if set.Len() == 0 {
		return nil, 0, domain.ErrNoVariables
	}

	size, exact := set.ProductSize(math.MaxInt)
	if exact && size == 0 {
		return nil, 0, fmt.Errorf("%w: variable without representatives", domain.ErrMalformedClass)
	}
	if exact && size <= maxCases {
		return cartesianProduct(set), size, nil
	}
	if rng == nil {
		return nil, size, &domain.SamplingError{MaxCases: maxCases, Reason: "sampling requires a random source"}
	}
	if exact && size <= enumerateLimit {
		return sampleCombinations(rng, cartesianProduct(set), maxCases), size, nil
	}
	return sampleByIndex(rng, set, maxCases), size, nil
}

// cartesianProduct enumerates every combination with the last variable
// varying fastest.
func cartesianProduct(set *domain.RepresentativeSet) []domain.Combination {
	radices := set.Radices()
	size, _ := set.ProductSize(math.MaxInt)
	result := make([]domain.Combination, 0, size)

	indices := make([]int, len(radices))
	for {
		result = append(result, combinationAt(set, indices))

		// Advance the odometer
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < radices[pos] {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return result
		}
	}
}

// sampleCombinations draws k combinations without replacement using a
// partial Fisher-Yates shuffle. all is reordered in place.
func sampleCombinations(rng *rand.Rand, all []domain.Combination, k int) []domain.Combination {
	n := len(all)
	if k >= n {
		return all
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:k]
}

// sampleByIndex draws k distinct combinations by choosing one position per
// variable uniformly and rejecting repeats. Every index tuple is equally
// likely, so the sample is uniform without replacement over the product.
func sampleByIndex(rng *rand.Rand, set *domain.RepresentativeSet, k int) []domain.Combination {
	radices := set.Radices()
	selected := make(map[string]struct{}, k)
	result := make([]domain.Combination, 0, k)

	indices := make([]int, len(radices))
	var key strings.Builder
	for len(result) < k {
		key.Reset()
		for i, r := range radices {
			indices[i] = rng.Intn(r)
			key.WriteString(strconv.Itoa(indices[i]))
			key.WriteByte(',')
		}
		if _, exists := selected[key.String()]; exists {
			continue
		}
		selected[key.String()] = struct{}{}
		result = append(result, combinationAt(set, indices))
	}
	return result
}

func combinationAt(set *domain.RepresentativeSet, indices []int) domain.Combination {
	combo := make(domain.Combination, len(indices))
	for i, idx := range indices {
		combo[i] = set.At(i)[idx]
	}
	return combo
}
