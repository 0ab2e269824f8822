package hull

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestReadScene(t *testing.T) {
	const doc = `{"primitives": [
		{"shape": "box", "halfExtent": 2},
		{"shape": "ellipsoid", "position": [5, 0, 0], "scale": [1, 3, 1]},
		{"shape": "cylinder", "radius": 0.5, "position": [0, 0, 5], "axis": [1, 0, 0], "degrees": 90}
	]}`
	m, err := ReadScene(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	f := m.Field()
	assert.InDelta(t, 0, f[0].Evaluate(r3.Vec{X: 2}), 1e-12)
	assert.InDelta(t, 0, f[1].Evaluate(r3.Vec{X: 5, Y: 3}), 1e-12)
	// The rotated cylinder runs along Z with the default half height.
	assert.InDelta(t, 0, f[2].Evaluate(r3.Vec{Z: 5 + DefaultCylinderHalfHeight}), 1e-9)
	assert.InDelta(t, 0, f[2].Evaluate(r3.Vec{X: 0.5, Z: 5}), 1e-9)
}

func TestReadSceneErrors(t *testing.T) {
	for _, test := range []struct {
		doc     string
		unknown bool
	}{
		{doc: `{"primitives": [{"shape": "torus"}]}`, unknown: true},
		{doc: `{"primitives": [{"shape": "box", "halfExtent": -1}]}`},
		{doc: `{"primitives": [{"shape": "box", "color": "red"}]}`},
		{doc: `{"primitives": [{"shape": "box", "degrees": 30}]}`},
		{doc: `{"primitives": [`},
	} {
		_, err := ReadScene(strings.NewReader(test.doc))
		require.Error(t, err, test.doc)
		assert.Equal(t, test.unknown, errors.Is(err, ErrUnknownShape), test.doc)
	}
}
