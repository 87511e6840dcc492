package operators

import (
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"golang.org/x/exp/rand"
)

// dirichletStep draws a Dirichlet random-walk proposal Dir(x'; 1 + tau*x)
// and returns the proposal together with the forward density q(x'|x) and
// the backward density q(x|x') under the proposal centered at x'. tau
// controls step size: larger tau concentrates the proposal tighter around
// the current point.
func dirichletStep(current []float64, tau float64, rng *rand.Rand) (proposed []float64, q, qBack float64) {
	alphaForward := make([]float64, len(current))
	for i, x := range current {
		alphaForward[i] = 1 + tau*x
	}

	fwd := distmv.NewDirichlet(alphaForward, rng)
	proposed = fwd.Rand(nil)
	q = fwd.Prob(proposed)

	alphaBackward := make([]float64, len(proposed))
	for i, x := range proposed {
		alphaBackward[i] = 1 + tau*x
	}
	back := distmv.NewDirichlet(alphaBackward, rng)
	qBack = back.Prob(current)

	return proposed, q, qBack
}

// dirichletPosteriorDraw draws from the regularized-MLE posterior
// Dir(1 + counts) used by every Gibbs resampling operator. When counts is
// all zero (no attributed observations) the row is a draw from the flat
// Dir(1, ..., 1), not the fixed uniform row.
func dirichletPosteriorDraw(counts []float64, rng *rand.Rand) []float64 {
	alpha := make([]float64, len(counts))
	for i, c := range counts {
		alpha[i] = 1 + c
	}
	return distmv.NewDirichlet(alpha, rng).Rand(nil)
}

// categoricalDraw samples a single index from a (not-necessarily
// normalized) probability vector.
func categoricalDraw(weights []float64, rng *rand.Rand) int {
	return int(distuv.NewCategorical(weights, rng).Rand())
}
