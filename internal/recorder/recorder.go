package recorder

// SaleEvent records cargo sold for credits.
type SaleEvent struct {
	PlayerID   int64
	Resource   string
	Quantity   float64
	Earned     float64
	MoneyAfter float64
}

// PurchaseEvent records credits spent on an upgrade or a shuttle.
type PurchaseEvent struct {
	PlayerID   int64
	Item       string // "cargo", "celestial_database", "shuttle"
	Level      int    // level reached, or fleet size for shuttles
	Paid       float64
	MoneyAfter float64
}

// DiscoveryEvent records a resolved planet search.
type DiscoveryEvent struct {
	PlayerID int64
	Deposit  string
	Resource string
	Amount   float64
	Stored   bool
}

// LevelEvent records a level-up.
type LevelEvent struct {
	PlayerID    int64
	Level       int
	RequiredExp int
}

// Recorder persists game history for analysis.
type Recorder interface {
	RecordSale(evt *SaleEvent) error
	RecordPurchase(evt *PurchaseEvent) error
	RecordDiscovery(evt *DiscoveryEvent) error
	RecordLevel(evt *LevelEvent) error
	Close() error
}
