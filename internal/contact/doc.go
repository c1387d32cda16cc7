// Package contact represents pairwise contacts and constraints and resolves
// them with an iterative impulse solver.
//
// Contacts are produced fresh every frame by a [Generator] into a
// fixed-capacity buffer owned by the world. The [Resolver] repeatedly picks
// the contact that is closing fastest, fixes its velocity with an impulse
// and its penetration with a direct move, until nothing is left to resolve
// or the iteration budget runs out. The order is a heuristic; with many
// interacting contacts the result is plausible rather than exact.
package contact
