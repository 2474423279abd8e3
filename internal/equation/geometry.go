package equation

import (
	"math"
	"math/bits"
)

// maxVertices caps the vertex set so the cache stays bounded even at
// the highest supported dimension (2^20 vertices at dimension 20).
const maxVertices = 1 << 20

// vertexCount returns min(2^dim, maxVertices).
func vertexCount(dim int) int {
	if dim >= 20 {
		return maxVertices
	}
	n := 1 << dim
	if n > maxVertices {
		return maxVertices
	}
	return n
}

// buildVertices enumerates the corners of the unit hypercube in dim
// axes. Bit i of the vertex index selects +0.5 over -0.5 on axis i, so
// vertex 0 is the all-negative corner used as the interaction reference.
func buildVertices(dim int) [][]float64 {
	n := vertexCount(dim)
	verts := make([][]float64, n)
	for i := 0; i < n; i++ {
		v := make([]float64, dim)
		for axis := 0; axis < dim; axis++ {
			if i&(1<<axis) != 0 {
				v[axis] = 0.5
			} else {
				v[axis] = -0.5
			}
		}
		verts[i] = v
	}
	return verts
}

// vertexDistance is the Euclidean distance between vertex idx and the
// reference vertex 0. Corners differ by exactly 1.0 on each axis whose
// bit is set, so the norm reduces to sqrt(popcount).
func vertexDistance(idx int) float64 {
	return math.Sqrt(float64(bits.OnesCount(uint(idx))))
}
