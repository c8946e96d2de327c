// Package pricing turns a delivery distance into its points cost.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

const (
	BaseCost  = 5
	PerKmCost = 2
)

var ErrNegativeDistance = errors.New("distance must be a non-negative number")

// Cost returns ceil(BaseCost + km*PerKmCost). Fractions always round up.
func Cost(distanceKm float64) (int, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeDistance, distanceKm)
	}
	return int(math.Ceil(BaseCost + distanceKm*PerKmCost)), nil
}
