// Package csg defines the constructive solid geometry tree used to describe
// parts. A tree is an immutable value of primitives, boolean combinators and
// transforms; kernels and serializers consume it but never modify it.
package csg
