package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddn-storage/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// roundTripResult is the outcome of one round trip.
type roundTripResult struct {
	Endpoint  string         `json:"endpoint"`
	Connected bool           `json:"connected"`
	Written   int            `json:"written"`
	Read      int            `json:"read"`
	Match     bool           `json:"match"`
	Elapsed   string         `json:"elapsed"`
	Status    storage.Status `json:"status"`
}

var errRoundTripMismatch = errors.New("read back data does not match written payload")

// roundTripCmd represents the roundtrip command
var roundTripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Write a payload to the endpoint and read it back",
	Long: `Connects with retries, initializes the client, writes the payload, reads
the same number of bytes back and compares them. Ctrl-C aborts the retry wait.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, _ := cmd.Flags().GetString("payload")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, logg, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logg.Sync()

		client, err := newStorageClient(cfg, logg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := runRoundTrip(ctx, client, []byte(payload))
		if err != nil && result == nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
		} else {
			logg.Info("Round trip finished",
				zap.String("endpoint", result.Endpoint),
				zap.Int("written", result.Written),
				zap.Int("read", result.Read),
				zap.Bool("match", result.Match),
				zap.String("elapsed", result.Elapsed))
		}
		return err
	},
}

// runRoundTrip performs the round trip on client and always cleans it up.
// A nil result means the client never got far enough to report anything.
func runRoundTrip(ctx context.Context, client *storage.Client, payload []byte) (*roundTripResult, error) {
	start := time.Now()
	defer client.Cleanup()

	if !client.Connect(ctx) {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("connect to %s cancelled after %d attempt(s): %w",
				client.Endpoint(), client.ConnectAttempts(), context.Cause(ctx))
		}
		return nil, fmt.Errorf("endpoint %s unreachable after %d attempt(s)", client.Endpoint(), client.ConnectAttempts())
	}
	if err := client.Initialize(ctx); err != nil {
		return nil, err
	}

	result := &roundTripResult{Endpoint: client.Endpoint(), Connected: client.IsConnected()}
	if err := client.Write(ctx, payload); err != nil {
		return nil, err
	}
	result.Written = len(payload)

	buf, err := client.Read(ctx, len(payload))
	if err != nil {
		return nil, err
	}
	got := buf.Copy()
	result.Read = len(got)
	result.Match = bytes.Equal(got, payload)
	result.Status = client.Status()
	result.Elapsed = time.Since(start).String()

	if !result.Match {
		return result, errRoundTripMismatch
	}
	return result, nil
}

func init() {
	roundTripCmd.Flags().String("payload", "ddn-storage round trip", "Payload to write and read back")
	roundTripCmd.Flags().Bool("json", false, "Print the result as JSON")
	RootCmd.AddCommand(roundTripCmd)
}
