package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/apina/internal/id"
	"github.com/getmockd/apina/pkg/cli/internal/output"
	"github.com/getmockd/apina/pkg/config"
	"github.com/getmockd/apina/pkg/message"
	"github.com/getmockd/apina/pkg/value"
)

type callFlags struct {
	storageFlags
	id string
}

func newCallCmd(rf *rootFlags) *cobra.Command {
	var f callFlags

	cmd := &cobra.Command{
		Use:   "call VERB PATH [JSON]",
		Short: "Send one request to the storage and print the response",
		Long: `Send a single request straight to the configured storage, without a
running server, and print the response message as JSON.

The command exits with an error when the response code is 400 or above.`,
		Example: `  apina call PUT /resource/gallery '{"folder": {"source": "meta:folder", "type": "string", "key": true}}'
  apina call POST /gallery '{"folder": "summer"}'
  apina call GET /gallery/summer
  apina call DELETE / --storage sqlite --storage-path apina.db`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			verb := strings.ToUpper(strings.TrimSpace(args[0]))
			if verb == "" || strings.ContainsAny(verb, " \t/") {
				return fmt.Errorf("%w: %q", ErrInvalidVerb, args[0])
			}

			data := value.NewObject()
			if len(args) == 3 && strings.TrimSpace(args[2]) != "" {
				obj, err := value.ParseObject([]byte(args[2]))
				if err != nil {
					return fmt.Errorf("invalid JSON payload: %w", err)
				}
				data = obj
			}

			cfg, err := loadConfig(cmd, rf, func(cfg *config.Config) {
				f.apply(cmd, cfg)
			})
			if err != nil {
				return err
			}

			a, err := newApp(cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			req := message.NewRequest(verb, args[1], data)
			req.ID = f.id
			if req.ID == "" {
				req.ID = id.Short()
			}
			resp, err := a.dispatcher.Dispatch(req)
			if err != nil {
				return err
			}

			if err := output.JSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if resp.Code >= 400 {
				return fmt.Errorf("request failed with code %d", resp.Code)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.id, "id", "", "Request id (default: random)")
	return cmd
}
