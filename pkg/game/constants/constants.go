package constants

const (
	// MapWidth is the width of the map plane
	MapWidth float64 = 1280.0
	// MapHeight is the height of the map plane
	MapHeight float64 = 720.0
	// MapCellSize is the broadphase cell size of the map collision space
	MapCellSize int = 16

	// RoomWidth is the default width of a side room
	RoomWidth float64 = 200.0
	// RoomHeight is the default height of a side room
	RoomHeight float64 = 150.0
	// HallwayWidth is the width of the corridors between rooms
	HallwayWidth float64 = 40.0
	// HallwayLength is the gap between the spawn room and a side room
	HallwayLength float64 = 80.0
	// SpawnRoomWidth is the width of the spawn room
	SpawnRoomWidth float64 = 250.0
	// SpawnRoomHeight is the height of the spawn room
	SpawnRoomHeight float64 = 180.0
	// SpawnRoom is the name of the room actors start in
	SpawnRoom string = "Cafeteria"
	// InTransitLabel is shown for actors that are not inside any room
	InTransitLabel string = "Hallway"

	// PlayerSpeed is the distance an actor moves per step
	PlayerSpeed float64 = 3.0
	// PlayerRadius is the body radius used for pairwise collision rejection
	PlayerRadius float64 = 15.0
	// SpawnSpread is the row and column spacing of the spawn grid
	SpawnSpread float64 = 40.0
	// SpawnColumns is the maximum number of columns of the spawn grid
	SpawnColumns int = 4
	// DefaultProvider is the provider tag given to actors without one
	DefaultProvider string = "Bot"

	// VisionRadiusCrew is how far crew can see
	VisionRadiusCrew float64 = 150.0
	// VisionRadiusImpostor is how far impostors can see
	VisionRadiusImpostor float64 = 180.0

	// KillRange is the maximum distance between an impostor and its target
	KillRange float64 = 50.0

	// MinPlayers is the minimum roster size to start a game
	MinPlayers int = 4
	// MaxPlayers is the largest roster a host spawns, one per palette colour
	MaxPlayers int = 10
	// SmallRosterMaxPlayers is the largest roster that gets a single impostor by default
	SmallRosterMaxPlayers int = 6
	// SmallRosterImpostors is the default impostor count for small rosters
	SmallRosterImpostors int = 1
	// LargeRosterImpostors is the default impostor count for large rosters
	LargeRosterImpostors int = 2
	// ImpostorRatio caps an explicit impostor count at roster size / ImpostorRatio
	ImpostorRatio int = 3

	// SkipVote is the reserved vote target meaning "skip"
	SkipVote uint32 = 0
)

// Color is an RGB actor colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// PlayerColors is the palette handed out to actors in roster order.
var PlayerColors = []Color{
	{R: 255, G: 0, B: 0},     // red
	{R: 0, G: 0, B: 255},     // blue
	{R: 0, G: 255, B: 0},     // green
	{R: 255, G: 255, B: 0},   // yellow
	{R: 255, G: 165, B: 0},   // orange
	{R: 128, G: 0, B: 128},   // purple
	{R: 0, G: 255, B: 255},   // cyan
	{R: 255, G: 192, B: 203}, // pink
	{R: 255, G: 255, B: 255}, // white
	{R: 139, G: 69, B: 19},   // brown
}
