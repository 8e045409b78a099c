package main

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// initSuppressedLocations loads the list of locations hidden from patrons.
// The list is computed once at startup and handed into every status run;
// without a configured database nothing is suppressed.
func (svc *ServiceContext) initSuppressedLocations(cfg *DBConfig) {
	if cfg.Host == "" {
		log.Printf("No database configured; no locations will be suppressed")
		return
	}

	log.Printf("Initializing suppressed locations from %s...", cfg.Host)
	connStr := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Pass)
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Printf("ERROR: unable to connect to suppressed locations DB: %s", err.Error())
		return
	}
	defer db.Close()

	var locations []string
	err = db.Select(&locations, "select name from suppressed_locations order by name asc")
	if err != nil {
		log.Printf("ERROR: unable to read suppressed locations: %s", err.Error())
		return
	}

	svc.SuppressedLocations = locations
	log.Printf("Suppressed locations initialization COMPLETE; %d locations hidden", len(locations))
}
