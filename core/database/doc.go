// Package database opens the MySQL connection used by the transfer journal.
//
// It wraps GORM with the MySQL driver, encodes credentials into the DSN,
// applies connect/read/write timeouts and verifies the connection with a
// ping before handing it out.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    // journal disabled, keep going
//	}
package database
