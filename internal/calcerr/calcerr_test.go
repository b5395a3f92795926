package calcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain",
			err:  Geometryf("profile has %d points", 2),
			want: "geometry error: profile has 2 points",
		},
		{
			name: "station",
			err:  AtStation(Geometryf("negative area"), 1.25),
			want: "geometry error at station 1.250 m: negative area",
		},
		{
			name: "station and heel",
			err:  AtHeel(AtStation(Configurationf("waterline above hull"), 0.5), 30),
			want: "configuration error at station 0.500 m, heel 30.0°: waterline above hull",
		},
		{
			name: "with cause",
			err:  Wrap(Convergence, errors.New("no bracket"), "equilibrium waterline"),
			want: "convergence error: equilibrium waterline: no bracket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := Configurationf("num_sections must be at least 2")
	wrapped := fmt.Errorf("volume: %w", AtHeel(base, 10))

	assert.True(t, Is(wrapped, Configuration))
	assert.False(t, Is(wrapped, Geometry))

	heel, ok := HeelOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, 10.0, heel)

	_, ok = StationOf(wrapped)
	assert.False(t, ok)
}

func TestAnnotationDoesNotMutateOriginal(t *testing.T) {
	base := Geometryf("twisted section")
	_ = AtStation(base, 2)

	assert.Nil(t, base.Station)
}

func TestAnnotationKeepsFirstLocation(t *testing.T) {
	err := AtStation(AtStation(Geometryf("x"), 1), 2)

	station, ok := StationOf(err)
	require.True(t, ok)
	assert.Equal(t, 1.0, station)
}

func TestForeignErrorBecomesGeometry(t *testing.T) {
	cause := errors.New("boom")
	err := AtStation(cause, 3)

	assert.Equal(t, Geometry, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, AtHeel(nil, 5))
}

func TestAnnotationKeepsOuterContext(t *testing.T) {
	wrapped := fmt.Errorf("profile 3: %w", Geometryf("negative area"))
	err := AtHeel(AtStation(wrapped, 2), 15)

	assert.Equal(t, "geometry error at station 2.000 m, heel 15.0°: profile 3: geometry error: negative area", err.Error())
	assert.Equal(t, Geometry, KindOf(err))
	assert.ErrorIs(t, err, wrapped)

	station, ok := StationOf(err)
	require.True(t, ok)
	assert.Equal(t, 2.0, station)
	heel, ok := HeelOf(err)
	require.True(t, ok)
	assert.Equal(t, 15.0, heel)
}

func TestAnnotationOfWrappedErrorKeepsInnerLocation(t *testing.T) {
	wrapped := fmt.Errorf("volume: %w", AtStation(Configurationf("waterline above hull"), 1))
	err := AtStation(wrapped, 4)

	station, ok := StationOf(err)
	require.True(t, ok)
	assert.Equal(t, 1.0, station)
	assert.True(t, Is(err, Configuration))
}
