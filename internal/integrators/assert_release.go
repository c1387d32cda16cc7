//go:build !physdebug

package integrators

const debugChecks = false
