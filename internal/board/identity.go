package board

import "fmt"

// Identity is the USB vendor/product pair a board reports.
type Identity struct {
	VendorID  uint16
	ProductID uint16
}

func (id Identity) String() string {
	return fmt.Sprintf("%04X:%04X", id.VendorID, id.ProductID)
}

// KnownBoard names a supported identity.
type KnownBoard struct {
	Identity
	Name string
}

var knownBoards = [...]KnownBoard{
	{Identity{0x0D28, 0x0204}, "BBC micro:bit"},
	{Identity{0x239A, 0x800B}, "Adafruit Feather M0 CDC only"},
	{Identity{0x239A, 0x8016}, "Adafruit Feather M0 (CDC + MSC)"},
	{Identity{0x239A, 0x8014}, "Adafruit Metro M0"},
	{Identity{0x239A, 0x8019}, "Adafruit Circuit Playground M0"},
	{Identity{0x239A, 0x801B}, "Adafruit Feather M0 Express"},
}

// KnownBoards returns a copy of the supported board table.
func KnownBoards() []KnownBoard {
	out := make([]KnownBoard, len(knownBoards))
	copy(out[:], knownBoards[:])
	return out
}

// Lookup returns the known board with exactly this identity.
func Lookup(id Identity) (KnownBoard, bool) {
	for _, b := range knownBoards {
		if b.Identity == id {
			return b, true
		}
	}
	return KnownBoard{}, false
}

// IsKnown reports whether id matches a supported board exactly.
func IsKnown(id Identity) bool {
	_, ok := Lookup(id)
	return ok
}
