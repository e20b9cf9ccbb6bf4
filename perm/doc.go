// Package perm provides the order crossover variant used to breed
// permutation route genomes.
//
// OrderXVariant takes 3 integer slices: the "pA" and "pB" parent slices
// provide the genetic material filled into the "child" slice. This requires
// the child slice be allocated by the caller.
package perm
