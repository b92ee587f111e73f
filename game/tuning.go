package game

const (
	MapWidth  = 5000.0
	MapHeight = 5000.0

	// Edge spawn band and the interior margin for resource nodes.
	EdgeInset      = 50.0
	InteriorMargin = 100.0

	PlayerAggroRadius   = 500.0
	BuildingAggroRadius = 300.0

	DefaultHealth  = 100
	DefaultStamina = 100
	StartingGold   = 50
	StartingWeapon = Pistol

	ZombieBase = 5 // zombies per wave = ZombieBase + 2*wave

	WaveDurationSeconds = 300
	ShopDurationSeconds = 30

	ResourceNodeCount  = 20
	ResourceNodeAmount = 10
)

// Center is where players join and respawn.
var Center = Vec{X: MapWidth / 2, Y: MapHeight / 2}
