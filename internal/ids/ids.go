// Package ids mints the session and save-slot correlation identifiers via
// google/uuid. A save slot can be shared across runs and machines, so it
// needs a durable correlation id in a way a plain emulator cartridge run
// never does.
package ids

import "github.com/google/uuid"

// NewSessionID mints a fresh session correlation id, logged alongside
// every structured log entry so a support bundle can be grouped by run.
func NewSessionID() string { return uuid.NewString() }

// NewSaveDescription mints a "save-<uuid>" save-slot description string.
// `savegame` takes only a slot number, and the save layout has no
// description field to store it in.
func NewSaveDescription() string { return "save-" + uuid.NewString() }
