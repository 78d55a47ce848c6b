package predictor

import (
	"math"
	"math/rand"
	"sort"
)

// Bootstrap parameters: fixed draws and seed keep the interval
// deterministic for a given request, and the perturbation scale reflects
// typical week-to-week noise on standardized differentials.
const (
	bootstrapDraws = 1000
	bootstrapSigma = 0.02
	bootstrapSeed  = 42

	lowerQuantile = 0.025
	upperQuantile = 0.975
)

// bootstrapInterval perturbs the standardized vector with Gaussian noise
// and reads the 95% band off the resulting probability distribution.
func (p *Predictor) bootstrapInterval(standardized []float64) Interval {
	rng := rand.New(rand.NewSource(bootstrapSeed))
	samples := make([]float64, bootstrapDraws)
	perturbed := make([]float64, len(standardized))

	for i := range samples {
		for j, v := range standardized {
			perturbed[j] = v + rng.NormFloat64()*bootstrapSigma
		}
		samples[i] = p.model.PredictProba(perturbed)
	}
	sort.Float64s(samples)

	return Interval{
		Lower: quantile(samples, lowerQuantile),
		Upper: quantile(samples, upperQuantile),
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Round(q * float64(len(sorted)-1)))
	return sorted[idx]
}
