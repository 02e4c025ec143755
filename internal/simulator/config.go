package simulator

import "fmt"

// Config configures a simulation run. A Seed of zero selects a wall-clock
// seed; any other value makes results exactly reproducible for a fixed
// worker count.
type Config struct {
	Iterations int
	Workers    int
	Seed       int64
}

// DefaultConfig returns the standard production configuration
func DefaultConfig() Config {
	return Config{
		Iterations: 10000,
		Workers:    1,
	}
}

// Validate validates simulation parameters
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Workers > c.Iterations {
		return fmt.Errorf("workers cannot exceed iterations")
	}
	return nil
}
