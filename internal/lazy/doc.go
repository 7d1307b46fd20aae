// Package lazy provides the process-wide, load-once holder shared by the root
// path, environment and configuration singletons. A Cell runs its loader
// exactly once, even under concurrent first access, and serialises all later
// reads through a single mutex so no caller ever observes a half-built value.
package lazy
