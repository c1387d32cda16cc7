// Package optim tunes run parameters by exhaustive grid search.
package optim
