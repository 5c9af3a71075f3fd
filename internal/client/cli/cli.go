package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/client/iocli"
	"github.com/olyox/partner-cli/internal/client/login"
	"github.com/olyox/partner-cli/internal/client/registration"
	"github.com/olyox/partner-cli/internal/client/session"
)

// Cli wires the user-facing commands to the flow services. All dependencies
// are injected; nothing here holds global state.
type Cli struct {
	io           iocli.IO
	apiClient    *api.Client
	session      *session.Manager
	registration *registration.Service
	login        *login.Service
	logger       *slog.Logger
}

func New(
	io iocli.IO,
	apiClient *api.Client,
	sess *session.Manager,
	reg *registration.Service,
	log *login.Service,
	logger *slog.Logger,
) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		io:           io,
		apiClient:    apiClient,
		session:      sess,
		registration: reg,
		login:        log,
		logger:       logger,
	}
}

// Run dispatches a command. args are the arguments after the command name.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "verify-bh":
		return c.runVerifyBh(ctx, args)
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "profile":
		return c.runProfile(ctx)
	case "update":
		return c.runUpdate(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func PrintUsage(io iocli.IO) {
	io.Println("Olyox Partner Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  partner [OPTIONS] COMMAND")
	io.Println()
	io.Println("Options:")
	io.Println("  --version            Show version information")
	io.Println("  --web-api URL        Web API base URL")
	io.Println("  --app-api URL        App API base URL")
	io.Println("  --db PATH            Path to local database (default: partner-client.db)")
	io.Println("  --key PATH           Path to device key file (default: partner-device.key)")
	io.Println()
	io.Println("Commands:")
	io.Println("  verify-bh [BH_ID]    Check a referral BH ID")
	io.Println("  register [BH_ID]     Register as a new partner (optional referral)")
	io.Println("  login [BH_ID]        Login with your BH ID and an OTP")
	io.Println("  logout               Delete the local session")
	io.Println("  status               Show authentication status")
	io.Println("  profile              Show the hydrated partner profile")
	io.Println("  update               Edit partner profile fields")
	io.Println("  refresh              Re-fetch the profile from the server")
	io.Println()
	io.Println("Examples:")
	io.Println("  partner verify-bh BH960114")
	io.Println("  partner register BH960114")
	io.Println("  partner login BH436459")
	io.Println("  partner status")
}
