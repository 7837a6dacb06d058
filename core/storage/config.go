package storage

import "time"

const (
	// DefaultMaxRetries is the connection attempt budget.
	DefaultMaxRetries = 3
	// DefaultRetryInterval is the wait between connection attempts.
	DefaultRetryInterval = 2 * time.Second
)

// Transport names accepted in Config.Transport.
const (
	TransportMemory = "memory"
	TransportObject = "object"
)

// Config holds configuration for the storage client.
type Config struct {
	// Endpoint identifies the storage target.
	Endpoint string `mapstructure:"endpoint" default:"mem://local"`
	// MaxRetries is the maximum number of connection attempts.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryIntervalSeconds is the fixed wait between connection attempts.
	RetryIntervalSeconds int `mapstructure:"retry_interval_seconds" default:"2"`
	// BufferSize is the capacity of the transfer buffer in bytes.
	BufferSize int `mapstructure:"buffer_size" default:"1048576"`
	// Transport selects the backend (memory, object).
	Transport string `mapstructure:"transport" default:"memory"`
	// ObjectKey is the object used by the object transport. Generated when empty.
	ObjectKey string `mapstructure:"object_key" default:""`
}

// IsValidTransport checks if the configured transport is supported.
func (c Config) IsValidTransport() bool {
	switch c.Transport {
	case TransportMemory, TransportObject:
		return true
	default:
		return false
	}
}

// Options converts the configuration into client options.
func (c Config) Options() []Option {
	return []Option{
		WithMaxRetries(c.MaxRetries),
		WithRetryInterval(time.Duration(c.RetryIntervalSeconds) * time.Second),
		WithBufferCapacity(c.BufferSize),
	}
}
