// ABOUTME: Store driver selection from configuration
// ABOUTME: Maps a driver name and path to a ProjectStore backend

package store

import "fmt"

// Store driver names accepted by Open
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Drivers lists the accepted driver names
var Drivers = []string{DriverMemory, DriverSQLite, DriverBolt}

// Open builds the store for driver. path is ignored by the memory driver.
func Open(driver, path string) (ProjectStore, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore()
	case DriverSQLite:
		if path == "" {
			return nil, fmt.Errorf("store driver %s requires a path", driver)
		}
		return NewSQLiteStore(path)
	case DriverBolt:
		if path == "" {
			return nil, fmt.Errorf("store driver %s requires a path", driver)
		}
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
