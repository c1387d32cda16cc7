package integrators

import "fmt"

func checkDuration(dt float64) {
	if debugChecks && !(dt > 0) {
		panic(fmt.Sprintf("integrators: duration must be positive, got %g", dt))
	}
}
