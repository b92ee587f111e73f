package protocol

type PlayerID struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
	TickHz   int    `json:"tickHz"`
}

// State is the full snapshot a player gets on join.
type State struct {
	Wave      int            `json:"wave"`
	Countdown int            `json:"timeUntilNextWave"`
	ShopOpen  bool           `json:"isShopOpen"`
	Phase     string         `json:"phase"`
	Players   []PlayerView   `json:"players"`
	Zombies   []ZombieView   `json:"zombies"`
	Buildings []BuildingView `json:"buildings"`
	Resources []ResourceView `json:"resources"`
}

type PlayerView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Position      Vec            `json:"position"`
	Rotation      float64        `json:"rotation"`
	Health        int            `json:"health"`
	MaxHealth     int            `json:"maxHealth"`
	Stamina       int            `json:"stamina"`
	MaxStamina    int            `json:"maxStamina"`
	Armor         int            `json:"armor"`
	Weapons       []string       `json:"weapons"`
	CurrentWeapon string         `json:"currentWeapon"`
	Resources     map[string]int `json:"resources"`
	Gold          int            `json:"gold"`
	Removed       bool           `json:"removed,omitempty"`
}

type ZombieView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"type"`
	Position  Vec     `json:"position"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Speed     float64 `json:"speed"`
	Damage    int     `json:"damage"`
	Target    string  `json:"target,omitempty"`
	Removed   bool    `json:"removed,omitempty"`
}

type BuildingView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"type"`
	Position  Vec     `json:"position"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Owner     string  `json:"owner"`
	Range     float64 `json:"range"`
	Damage    int     `json:"damage"`
	Removed   bool    `json:"removed,omitempty"`
}

type ResourceView struct {
	ID        string `json:"id"`
	Kind      string `json:"type"`
	Position  Vec    `json:"position"`
	Amount    int    `json:"amount"`
	Collector string `json:"collector,omitempty"`
	Removed   bool   `json:"removed,omitempty"`
}

type Wave struct {
	Number int `json:"number"`
}

type Countdown struct {
	Wave    int  `json:"wave"`
	Seconds int  `json:"seconds"`
	Shop    bool `json:"shop"`
}

type ShopOpen struct {
	Seconds int           `json:"seconds"`
	Items   []CatalogItem `json:"items"`
}

// CatalogItem is one shop entry as clients render it. Weapon and Resource
// are set according to Item.
type CatalogItem struct {
	Name     string `json:"name"`
	Item     string `json:"item"`
	Weapon   string `json:"weapon,omitempty"`
	Resource string `json:"resource,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Cost     int    `json:"cost"`
}

type Roster struct {
	Names []string `json:"names"`
}

type Start struct {
	RoomID string `json:"roomId"`
}

type Gold struct {
	Gold int `json:"gold"`
}

// FireRelay is a shot forwarded to everyone else in the room.
type FireRelay struct {
	PlayerID  string `json:"playerId"`
	Position  Vec    `json:"position"`
	Direction Vec    `json:"direction"`
	Weapon    string `json:"weapon"`
}
