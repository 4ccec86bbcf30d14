// Package ptrs provides tiny helpers returning a pointer to a primitive value,
// mostly for optional schema bounds.
package ptrs

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
