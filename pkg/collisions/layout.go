package collisions

import (
	"fmt"
	"os"

	"github.com/cbodonnell/sus/pkg/game/constants"
	"gopkg.in/yaml.v3"
)

// Area is an axis-aligned rectangle of the map.
type Area struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Room is a named region. Points on the right and bottom edges are outside the room.
type Room struct {
	Area        `yaml:",inline"`
	Connections []string `yaml:"connections"`
}

// Hallway joins two rooms. Hallways are walkable on all edges but belong to no region.
type Hallway struct {
	Area `yaml:",inline"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Layout describes a map as a set of rooms and hallways on a plane.
type Layout struct {
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	CellSize  int       `yaml:"cell_size"`
	SpawnRoom string    `yaml:"spawn_room"`
	Rooms     []Room    `yaml:"rooms"`
	Hallways  []Hallway `yaml:"hallways"`
}

func (a Area) centre() (float64, float64) {
	return a.X + a.Width/2, a.Y + a.Height/2
}

func (r Room) contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (h Hallway) contains(x, y float64) bool {
	return x >= h.X && x <= h.X+h.Width && y >= h.Y && y <= h.Y+h.Height
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %v", path, err)
	}
	return ParseLayout(b)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(b []byte) (*Layout, error) {
	layout := &Layout{}
	if err := yaml.Unmarshal(b, layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %v", err)
	}
	if layout.CellSize == 0 {
		layout.CellSize = constants.MapCellSize
	}
	if layout.SpawnRoom == "" {
		layout.SpawnRoom = constants.SpawnRoom
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// Validate checks that the layout fits its plane and references known rooms.
func (l *Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid layout size %vx%v", l.Width, l.Height)
	}
	if l.CellSize <= 0 {
		return fmt.Errorf("invalid cell size %d", l.CellSize)
	}
	names := make(map[string]bool, len(l.Rooms))
	for _, room := range l.Rooms {
		if room.Name == "" {
			return fmt.Errorf("room without a name")
		}
		if names[room.Name] {
			return fmt.Errorf("duplicate room %s", room.Name)
		}
		names[room.Name] = true
		if err := l.checkArea(room.Area); err != nil {
			return fmt.Errorf("room %s: %v", room.Name, err)
		}
	}
	if !names[l.SpawnRoom] {
		return fmt.Errorf("spawn room %s is not defined", l.SpawnRoom)
	}
	for _, room := range l.Rooms {
		for _, c := range room.Connections {
			if !names[c] {
				return fmt.Errorf("room %s connects to unknown room %s", room.Name, c)
			}
		}
	}
	for _, hallway := range l.Hallways {
		if !names[hallway.From] || !names[hallway.To] {
			return fmt.Errorf("hallway %s-%s references an unknown room", hallway.From, hallway.To)
		}
		if err := l.checkArea(hallway.Area); err != nil {
			return fmt.Errorf("hallway %s-%s: %v", hallway.From, hallway.To, err)
		}
	}
	return nil
}

func (l *Layout) checkArea(a Area) error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("invalid size %vx%v", a.Width, a.Height)
	}
	if a.X < 0 || a.Y < 0 || a.X+a.Width > l.Width || a.Y+a.Height > l.Height {
		return fmt.Errorf("area (%v,%v %vx%v) is outside the map", a.X, a.Y, a.Width, a.Height)
	}
	return nil
}

// DefaultLayout returns the five-room test map: a central Cafeteria
// with Electrical, MedBay, Navigation and Storage joined by hallways.
func DefaultLayout() *Layout {
	cx := constants.MapWidth / 2
	cy := constants.MapHeight / 2
	sw, sh := constants.SpawnRoomWidth, constants.SpawnRoomHeight
	rw, rh := constants.RoomWidth, constants.RoomHeight
	gap, hw := constants.HallwayLength, constants.HallwayWidth

	cafeteria := Room{
		Area:        Area{Name: constants.SpawnRoom, X: cx - sw/2, Y: cy - sh/2, Width: sw, Height: sh},
		Connections: []string{"Electrical", "MedBay", "Navigation", "Storage"},
	}
	electrical := Room{
		Area:        Area{Name: "Electrical", X: cx - sw/2 - rw - gap, Y: cy - rh/2, Width: rw, Height: rh},
		Connections: []string{constants.SpawnRoom},
	}
	medbay := Room{
		Area:        Area{Name: "MedBay", X: cx + sw/2 + gap, Y: cy - rh/2, Width: rw, Height: rh},
		Connections: []string{constants.SpawnRoom},
	}
	navigation := Room{
		Area:        Area{Name: "Navigation", X: cx - rw/2, Y: cy - sh/2 - rh - gap, Width: rw, Height: rh},
		Connections: []string{constants.SpawnRoom},
	}
	storage := Room{
		Area:        Area{Name: "Storage", X: cx - rw/2, Y: cy + sh/2 + gap, Width: rw, Height: rh},
		Connections: []string{constants.SpawnRoom},
	}

	return &Layout{
		Width:     constants.MapWidth,
		Height:    constants.MapHeight,
		CellSize:  constants.MapCellSize,
		SpawnRoom: constants.SpawnRoom,
		Rooms:     []Room{cafeteria, electrical, medbay, navigation, storage},
		Hallways: []Hallway{
			{
				Area: Area{X: electrical.X + electrical.Width, Y: cy - hw/2, Width: cafeteria.X - (electrical.X + electrical.Width), Height: hw},
				From: cafeteria.Name, To: electrical.Name,
			},
			{
				Area: Area{X: cafeteria.X + cafeteria.Width, Y: cy - hw/2, Width: medbay.X - (cafeteria.X + cafeteria.Width), Height: hw},
				From: cafeteria.Name, To: medbay.Name,
			},
			{
				Area: Area{X: cx - hw/2, Y: navigation.Y + navigation.Height, Width: hw, Height: cafeteria.Y - (navigation.Y + navigation.Height)},
				From: cafeteria.Name, To: navigation.Name,
			},
			{
				Area: Area{X: cx - hw/2, Y: cafeteria.Y + cafeteria.Height, Width: hw, Height: storage.Y - (cafeteria.Y + cafeteria.Height)},
				From: cafeteria.Name, To: storage.Name,
			},
		},
	}
}
