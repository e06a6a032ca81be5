package repository

// Slot names the four persisted units of application state. The values are
// part of the on-disk format; renaming one orphans previously saved state.
type Slot string

const (
	SlotTasks    Slot = "plannerTasks"
	SlotGoals    Slot = "plannerGoals"
	SlotAPIKey   Slot = "aiApiKey"
	SlotDarkMode Slot = "darkMode"
)

// Slots lists every known slot, in load order.
var Slots = []Slot{SlotTasks, SlotGoals, SlotAPIKey, SlotDarkMode}

// SlotStore is the persistence port for the state store: a best-effort local
// mirror, not a durability guarantee. Load reports absence via the boolean so
// absent slots leave in-memory defaults untouched.
type SlotStore interface {
	Load(slot Slot) (value []byte, found bool, err error)
	Save(slot Slot, value []byte) error
}
