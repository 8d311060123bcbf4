//go:build arm64

package ops

import "golang.org/x/sys/cpu"

func hasWideVectors() bool {
	return cpu.ARM64.HasASIMD
}
