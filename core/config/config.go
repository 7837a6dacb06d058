package config

import (
	"reflect"
	"strings"

	"ddn-storage/core/database"
	"ddn-storage/core/logger"
	"ddn-storage/core/objectstore"
	"ddn-storage/core/server"
	"ddn-storage/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Client holds configuration for the storage client.
	Client storage.Config `mapstructure:"client"`
	// Storage holds configuration for the object store backing the object transport.
	Storage objectstore.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the transfer journal database.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP control surface.
	Server server.Config `mapstructure:"server"`
}

// LoadConfig loads configuration from environment variables and the .env
// file in path, falling back to the `default` struct tags.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	// CLIENT_MAX_RETRIES -> client.max_retries
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key with its
// `default` tag value so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
