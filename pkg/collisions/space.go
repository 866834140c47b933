package collisions

import (
	"fmt"
	"sync"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagRoom    string = "room"
	CollisionSpaceTagHallway string = "hallway"
	CollisionSpaceTagProbe   string = "probe"
)

// shape is attached to every area object so that broadphase hits can be
// checked exactly and resolved in layout order.
type shape struct {
	index   int
	room    *Room
	hallway *Hallway
}

func (s *shape) contains(x, y float64) bool {
	if s.room != nil {
		return s.room.contains(x, y)
	}
	return s.hallway.contains(x, y)
}

// Map is a walkable map backed by a resolv.Space.
// It implements types.LocationOracle and is safe for concurrent use.
type Map struct {
	layout *Layout
	space  *resolv.Space

	// the probe is moved around the space to find candidate areas for a point
	mu    sync.Mutex
	probe *resolv.Object
}

var _ types.LocationOracle = (*Map)(nil)

func NewMap(layout *Layout) (*Map, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %v", err)
	}

	space := resolv.NewSpace(int(layout.Width), int(layout.Height), layout.CellSize, layout.CellSize)
	index := 0
	for i := range layout.Rooms {
		room := &layout.Rooms[i]
		obj := resolv.NewObject(room.X, room.Y, room.Width, room.Height, CollisionSpaceTagRoom)
		obj.Data = &shape{index: index, room: room}
		space.Add(obj)
		index++
	}
	for i := range layout.Hallways {
		hallway := &layout.Hallways[i]
		obj := resolv.NewObject(hallway.X, hallway.Y, hallway.Width, hallway.Height, CollisionSpaceTagHallway)
		obj.Data = &shape{index: index, hallway: hallway}
		space.Add(obj)
		index++
	}

	probe := resolv.NewObject(0, 0, 1, 1, CollisionSpaceTagProbe)
	space.Add(probe)

	return &Map{
		layout: layout,
		space:  space,
		probe:  probe,
	}, nil
}

// NewDefaultMap returns the map built from DefaultLayout.
func NewDefaultMap() *Map {
	m, err := NewMap(DefaultLayout())
	if err != nil {
		panic(fmt.Sprintf("default layout is invalid: %v", err))
	}
	return m
}

func (m *Map) Layout() *Layout {
	return m.layout
}

// SpawnPoint returns the centre of the spawn room.
func (m *Map) SpawnPoint() kinematic.Vector {
	room, _ := m.Room(m.layout.SpawnRoom)
	x, y := room.centre()
	return kinematic.Vector{X: x, Y: y}
}

func (m *Map) Room(name string) (Room, bool) {
	for _, room := range m.layout.Rooms {
		if room.Name == name {
			return room, true
		}
	}
	return Room{}, false
}

// RoomCentre returns the centre point of a named room.
func (m *Map) RoomCentre(name string) (kinematic.Vector, bool) {
	room, ok := m.Room(name)
	if !ok {
		return kinematic.Vector{}, false
	}
	x, y := room.centre()
	return kinematic.Vector{X: x, Y: y}, true
}

// RegionAt returns the first room, in layout order, that contains the point.
func (m *Map) RegionAt(x, y float64) (types.Region, bool) {
	hit := m.first(x, y, CollisionSpaceTagRoom)
	if hit == nil {
		return types.RegionNone, false
	}
	return types.Region(hit.room.Name), true
}

// IsWalkable reports whether the point is inside a room or a hallway.
func (m *Map) IsWalkable(x, y float64) bool {
	return m.first(x, y, CollisionSpaceTagRoom, CollisionSpaceTagHallway) != nil
}

func (m *Map) first(x, y float64, tags ...string) *shape {
	if x < 0 || y < 0 || x > m.layout.Width || y > m.layout.Height {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.probe.Position.X = x
	m.probe.Position.Y = y
	m.probe.Update()

	collision := m.probe.Check(0, 0, tags...)
	if collision == nil {
		return nil
	}

	var best *shape
	for _, obj := range collision.Objects {
		s, ok := obj.Data.(*shape)
		if !ok || !s.contains(x, y) {
			continue
		}
		if best == nil || s.index < best.index {
			best = s
		}
	}
	return best
}
