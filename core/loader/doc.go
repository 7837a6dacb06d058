// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order; LoadAll skips disabled
// ones and stops at the first load error. The start command registers the
// inspect feature (always) and the journal feature (when the database is
// reachable).
package loader
