//go:build !amd64 && !arm64

package ops

func hasWideVectors() bool {
	return false
}
