package collisions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RegionAt(t *testing.T) {
	m := NewDefaultMap()

	tests := []struct {
		name       string
		x, y       float64
		wantRegion types.Region
		wantOK     bool
	}{
		{name: "cafeteria centre", x: 640, y: 360, wantRegion: "Cafeteria", wantOK: true},
		{name: "electrical", x: 300, y: 360, wantRegion: "Electrical", wantOK: true},
		{name: "medbay", x: 900, y: 360, wantRegion: "MedBay", wantOK: true},
		{name: "navigation", x: 640, y: 100, wantRegion: "Navigation", wantOK: true},
		{name: "storage", x: 640, y: 600, wantRegion: "Storage", wantOK: true},
		{name: "west hallway", x: 475, y: 360, wantRegion: types.RegionNone, wantOK: false},
		{name: "void", x: 50, y: 50, wantRegion: types.RegionNone, wantOK: false},
		{name: "off the map", x: -10, y: 360, wantRegion: types.RegionNone, wantOK: false},
		{name: "cafeteria top-left corner", x: 515, y: 270, wantRegion: "Cafeteria", wantOK: true},
		{name: "cafeteria right edge is outside", x: 765, y: 300, wantRegion: types.RegionNone, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, ok := m.RegionAt(tt.x, tt.y)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRegion, region)
		})
	}
}

func TestMap_IsWalkable(t *testing.T) {
	m := NewDefaultMap()

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{name: "room", x: 640, y: 360, want: true},
		{name: "west hallway", x: 475, y: 360, want: true},
		{name: "north hallway", x: 640, y: 230, want: true},
		{name: "hallway far edge", x: 515, y: 380, want: true},
		{name: "beside the hallway", x: 475, y: 330, want: false},
		{name: "void", x: 1200, y: 700, want: false},
		{name: "off the map", x: 2000, y: 2000, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsWalkable(tt.x, tt.y))
		})
	}
}

func TestMap_SpawnPoint(t *testing.T) {
	m := NewDefaultMap()
	assert.Equal(t, kinematic.Vector{X: 640, Y: 360}, m.SpawnPoint())

	centre, ok := m.RoomCentre("Storage")
	require.True(t, ok)
	region, ok := m.RegionAt(centre.X, centre.Y)
	assert.True(t, ok)
	assert.Equal(t, types.Region("Storage"), region)

	_, ok = m.RoomCentre("Reactor")
	assert.False(t, ok)
}

func TestMap_HallwaysJoinRooms(t *testing.T) {
	m := NewDefaultMap()
	// walking west from the cafeteria centre reaches electrical without leaving walkable ground
	for x := 640.0; x >= 300; x -= 3 {
		assert.True(t, m.IsWalkable(x, 360), "x=%v", x)
	}
}

const testLayout = `
width: 400
height: 200
cell_size: 20
spawn_room: Bridge
rooms:
  - name: Bridge
    x: 0
    y: 0
    width: 100
    height: 100
    connections: [Engine]
  - name: Engine
    x: 200
    y: 0
    width: 100
    height: 100
    connections: [Bridge]
hallways:
  - from: Bridge
    to: Engine
    x: 100
    y: 40
    width: 100
    height: 20
`

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testLayout), 0o600))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Len(t, layout.Rooms, 2)
	assert.Len(t, layout.Hallways, 1)

	m, err := NewMap(layout)
	require.NoError(t, err)
	assert.Equal(t, kinematic.Vector{X: 50, Y: 50}, m.SpawnPoint())
	assert.True(t, m.IsWalkable(150, 50))
	assert.False(t, m.IsWalkable(150, 90))

	region, ok := m.RegionAt(250, 50)
	assert.True(t, ok)
	assert.Equal(t, types.Region("Engine"), region)
}

func TestParseLayout_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "rooms: ["},
		{name: "no size", yaml: "rooms: []"},
		{name: "missing spawn room", yaml: "width: 100\nheight: 100\nspawn_room: Bridge\n"},
		{
			name: "room off the map",
			yaml: "width: 100\nheight: 100\nspawn_room: A\nrooms:\n  - {name: A, x: 50, y: 50, width: 100, height: 10}\n",
		},
		{
			name: "unknown connection",
			yaml: "width: 100\nheight: 100\nspawn_room: A\nrooms:\n  - {name: A, x: 0, y: 0, width: 10, height: 10, connections: [B]}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadLayout_Bundled(t *testing.T) {
	layout, err := LoadLayout("../../maps/twin.yaml")
	require.NoError(t, err)

	m, err := NewMap(layout)
	require.NoError(t, err)
	assert.Equal(t, kinematic.Vector{X: 200, Y: 200}, m.SpawnPoint())

	region, ok := m.RegionAt(600, 200)
	assert.True(t, ok)
	assert.Equal(t, types.Region("Engine"), region)
	assert.True(t, m.IsWalkable(400, 200), "hallway")
	assert.False(t, m.IsWalkable(400, 100))
}
