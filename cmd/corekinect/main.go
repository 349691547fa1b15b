package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/corekinect/corekinect-go/client"
	"github.com/corekinect/corekinect-go/internal/config"
)

var (
	cfg     *config.Config
	baseURL string
	token   string
	debug   bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corekinect",
		Short: "CoreKinect CLI for managing devices, endpoints and locations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			cfg.Init()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				os.Setenv("COREKINECT_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			}
			if baseURL == "" {
				baseURL = cfg.BaseURL
			}
			if token == "" {
				token = cfg.Token
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the CoreKinect API (default from COREKINECT_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (default from COREKINECT_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newAddDevicesCmd())
	rootCmd.AddCommand(newCreateEndpointCmd())
	rootCmd.AddCommand(newCreateOAuthEndpointCmd())
	rootCmd.AddCommand(newAssignDevicesCmd())
	rootCmd.AddCommand(newRemoveDevicesCmd())
	rootCmd.AddCommand(newDeleteEndpointsCmd())
	rootCmd.AddCommand(newListEndpointsCmd())
	rootCmd.AddCommand(newListDevicesCmd())
	rootCmd.AddCommand(newDevicesByLocationCmd())
	rootCmd.AddCommand(newListLocationsCmd())
	rootCmd.AddCommand(newLocationReportsCmd())

	return rootCmd
}

func newClient() *client.Client {
	return client.New(baseURL, client.WithTimeout(cfg.Timeout))
}

func callCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 15*time.Second)
}

func requireToken() error {
	if token == "" {
		return fmt.Errorf("a bearer token is required: pass --token or set COREKINECT_TOKEN (see the token command)")
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callCtx(cmd)
			defer cancel()
			v, err := newClient().GetVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var clientID, clientSecret string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Request a bearer token with client credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" {
				clientID = cfg.ClientID
			}
			if clientSecret == "" {
				clientSecret = cfg.ClientSecret
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			tok, err := newClient().RequestToken(ctx, clientID, clientSecret)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id (default from COREKINECT_CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (default from COREKINECT_CLIENT_SECRET)")
	return cmd
}

func newAddDevicesCmd() *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "add-devices",
		Short: "Register devices from id:activation-code pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			if len(pairs) == 0 {
				return fmt.Errorf("--device is required at least once")
			}
			devices := make([]client.DeviceActivation, 0, len(pairs))
			for _, p := range pairs {
				id, code, ok := strings.Cut(p, ":")
				if !ok {
					return fmt.Errorf("malformed --device %q, want id:activation-code", p)
				}
				devices = append(devices, client.DeviceActivation{DeviceID: id, ActivationCode: code})
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			accepted, err := newClient().AddDevices(ctx, token, devices)
			if err != nil {
				return err
			}
			log.Info().Strs("accepted", accepted).Msg("devices added")
			return printJSON(accepted)
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "device", nil, "Device as id:activation-code (repeatable)")
	return cmd
}

func newCreateEndpointCmd() *cobra.Command {
	var targetURL string

	cmd := &cobra.Command{
		Use:   "create-endpoint",
		Short: "Create a delivery endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			if targetURL == "" {
				return fmt.Errorf("--url is required")
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			ep, err := newClient().CreateEndpoint(ctx, token, targetURL)
			if err != nil {
				return err
			}
			return printJSON(ep)
		},
	}
	cmd.Flags().StringVar(&targetURL, "url", "", "Destination URL devices report to")
	return cmd
}

func newCreateOAuthEndpointCmd() *cobra.Command {
	var req client.CreateOAuthEndpointRequest

	cmd := &cobra.Command{
		Use:   "create-oauth-endpoint",
		Short: "Create a delivery endpoint guarded by a client-credentials exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			if req.URL == "" || req.AuthURL == "" {
				return fmt.Errorf("--url and --auth-url are required")
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			ep, err := newClient().CreateOAuthEndpoint(ctx, token, req)
			if err != nil {
				return err
			}
			return printJSON(ep)
		},
	}
	cmd.Flags().StringVar(&req.URL, "url", "", "Destination URL devices report to")
	cmd.Flags().StringVar(&req.AuthURL, "auth-url", "", "Token endpoint of the destination")
	cmd.Flags().StringVar(&req.AuthTokenType, "auth-token-type", "", `Token type (default "Bearer")`)
	cmd.Flags().StringVar(&req.AuthTokenKey, "auth-token-key", "", `Token response key (default "access_token")`)
	return cmd
}

func newAssignDevicesCmd() *cobra.Command {
	var endpointID string
	var deviceIDs []string

	cmd := &cobra.Command{
		Use:   "assign-devices",
		Short: "Assign devices to an endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			passed, err := newClient().AssignDevicesToEndpoint(ctx, token, endpointID, deviceIDs)
			if err != nil {
				return err
			}
			return printJSON(passed)
		},
	}
	cmd.Flags().StringVar(&endpointID, "endpoint-id", "", "Endpoint to assign to")
	cmd.Flags().StringArrayVar(&deviceIDs, "device-id", nil, "Device id (repeatable)")
	return cmd
}

func newRemoveDevicesCmd() *cobra.Command {
	var endpointID string
	var deviceIDs []string

	cmd := &cobra.Command{
		Use:   "remove-devices",
		Short: "Remove devices from an endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			passed, err := newClient().DeleteDevicesFromEndpoint(ctx, token, endpointID, deviceIDs)
			if err != nil {
				return err
			}
			return printJSON(passed)
		},
	}
	cmd.Flags().StringVar(&endpointID, "endpoint-id", "", "Endpoint to remove from")
	cmd.Flags().StringArrayVar(&deviceIDs, "device-id", nil, "Device id (repeatable)")
	return cmd
}

func newDeleteEndpointsCmd() *cobra.Command {
	var endpointIDs []string

	cmd := &cobra.Command{
		Use:   "delete-endpoints",
		Short: "Delete endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			deleted, err := newClient().DeleteEndpoints(ctx, token, endpointIDs)
			if err != nil {
				return err
			}
			return printJSON(deleted)
		},
	}
	cmd.Flags().StringArrayVar(&endpointIDs, "endpoint-id", nil, "Endpoint id (repeatable)")
	return cmd
}

func newListEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			eps, err := newClient().GetEndpoints(ctx, token)
			if err != nil {
				return err
			}
			return printJSON(eps)
		},
	}
}

func newListDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			devices, err := newClient().GetDevices(ctx, token)
			if err != nil {
				return err
			}
			return printJSON(devices)
		},
	}
}

func newDevicesByLocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices-by-location",
		Short: "List devices grouped by location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			groups, err := newClient().GetDevicesByLocation(ctx, token)
			if err != nil {
				return err
			}
			return printJSON(groups)
		},
	}
}

func newListLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			locations, err := newClient().GetLocations(ctx, token)
			if err != nil {
				return err
			}
			return printJSON(locations)
		},
	}
}

func newLocationReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location-reports",
		Short: "List generated per-location reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			reports, err := newClient().GetLocationReports(ctx, token)
			if err != nil {
				return err
			}
			return printJSON(reports)
		},
	}
}
