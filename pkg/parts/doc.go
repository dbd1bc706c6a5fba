// Package parts contains the part builders. Each builder is a pure function
// of an immutable Config and returns named CSG trees with their declared
// bounding boxes. Builders never touch the filesystem or any kernel; the
// trees they return are lowered and exported elsewhere.
package parts
