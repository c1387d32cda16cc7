//go:build physdebug

package integrators

const debugChecks = true
