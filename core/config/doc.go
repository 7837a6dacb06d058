// Package config loads the application configuration.
//
// Values come from environment variables (optionally seeded from a .env
// file via godotenv) and fall back to the `default` struct tags of each
// section. Nested keys map to upper-case, underscore separated variables:
// client.max_retries is read from CLIENT_MAX_RETRIES.
//
// # Configuration Structure
//
//   - Client: storage client endpoint, retry budget and interval, buffer size, transport
//   - Storage: S3/MinIO credentials and bucket for the object transport
//   - Log: logging level and format
//   - Database: MySQL connection for the transfer journal
//   - Server: HTTP port and API key
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Client.MaxRetries)
package config
