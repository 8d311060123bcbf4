//go:build amd64

package ops

import "golang.org/x/sys/cpu"

func hasWideVectors() bool {
	return cpu.X86.HasAVX2
}
