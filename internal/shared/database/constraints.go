package database

import (
	"fmt"

	"gorm.io/gorm"
)

// constraint is a named table constraint that is dropped and re-added on
// every start so its definition tracks the code.
type constraint struct {
	table      string
	name       string
	definition string
}

var constraints = []constraint{
	// A seat's owner reference must agree with its status.
	{"seats", "seats_owner_matches_status", `CHECK (
		(status = 'AVAILABLE' AND hold_id IS NULL AND booking_id IS NULL) OR
		(status = 'HELD' AND hold_id IS NOT NULL AND booking_id IS NULL) OR
		(status = 'BOOKED' AND booking_id IS NOT NULL AND hold_id IS NULL))`},
	{"seats", "seats_single_parent", `CHECK (num_nonnulls(section_id, table_id) = 1)`},
	{"seats", "fk_seats_venue_map", `FOREIGN KEY (venue_map_id) REFERENCES venue_maps(id) ON DELETE CASCADE`},
	{"seats", "fk_seats_section", `FOREIGN KEY (section_id) REFERENCES venue_sections(id) ON DELETE CASCADE`},
	{"seats", "fk_seats_table", `FOREIGN KEY (table_id) REFERENCES venue_tables(id) ON DELETE CASCADE`},
	// Holds and bookings must release their seats before they go.
	{"seats", "fk_seats_hold", `FOREIGN KEY (hold_id) REFERENCES holds(id) ON DELETE RESTRICT`},
	{"seats", "fk_seats_booking", `FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE RESTRICT`},
	{"venue_maps", "fk_venue_maps_event", `FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE`},
	{"venue_sections", "fk_venue_sections_map", `FOREIGN KEY (venue_map_id) REFERENCES venue_maps(id) ON DELETE CASCADE`},
	{"venue_tables", "fk_venue_tables_map", `FOREIGN KEY (venue_map_id) REFERENCES venue_maps(id) ON DELETE CASCADE`},
	{"holds", "fk_holds_event", `FOREIGN KEY (event_id) REFERENCES events(id)`},
	{"bookings", "fk_bookings_event", `FOREIGN KEY (event_id) REFERENCES events(id)`},
	{"promos", "fk_promos_event", `FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE`},
}

func (c constraint) statements() []string {
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", c.table, c.name),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s", c.table, c.name, c.definition),
	}
}

// MigrateConstraints installs the seat ownership checks and foreign keys in
// one transaction.
func MigrateConstraints(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range constraints {
			for _, stmt := range c.statements() {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("constraint %s: %w", c.name, err)
				}
			}
		}
		return nil
	})
}
