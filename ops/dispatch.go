package ops

import (
	"os"
	"sync"
)

// Level identifies which PixelOps implementation Select picked.
type Level int

const (
	// LevelReference is the portable implementation.
	LevelReference Level = iota

	// LevelOptimized uses the unit-stride fast paths.
	LevelOptimized
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelReference:
		return "reference"
	case LevelOptimized:
		return "optimized"
	default:
		return "unknown"
	}
}

// NoOptEnv is the environment variable that forces the Reference
// implementation when set to a non-empty value.
const NoOptEnv = "RAWTILE_NO_OPT"

var (
	selectOnce sync.Once
	selected   PixelOps
	level      Level
)

// Select returns the PixelOps implementation for this CPU.
func Select() PixelOps {
	selectOnce.Do(func() {
		level = LevelReference
		if os.Getenv(NoOptEnv) == "" && hasWideVectors() {
			level = LevelOptimized
		}
		if level == LevelOptimized {
			selected = Optimized{}
		} else {
			selected = Reference{}
		}
	})
	return selected
}

// CurrentLevel reports the level chosen by Select.
func CurrentLevel() Level {
	Select()
	return level
}
