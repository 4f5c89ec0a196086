package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"face-animation/pkg/config"
	"face-animation/pkg/logger"
	"face-animation/pkg/studio"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	backendMemory = "memory"
	backendRemote = "remote"
)

// cli carries the resolved settings of one invocation. Flags win over
// STUDIO_* environment variables, which win over pkg/config defaults.
type cli struct {
	v   *viper.Viper
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: logger.New()}

	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{StudioBaseURL: "http://localhost:5000", RequestTimeout: studio.DefaultTimeout}
	}

	root := &cobra.Command{
		Use:   "studioctl",
		Short: "Drive the face animation studio from the terminal",
		Long: `studioctl runs the studio pages (login, signup, dashboards, guest gallery)
against either the local memory backend or a studio API.

Examples:
  studioctl login --role "Admin Login"
  studioctl shell --backend remote --base-url http://localhost:5000
  STUDIO_BACKEND=remote studioctl shell --role "Subscribers / Paid User Login"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.validate()
		},
	}

	flags := root.PersistentFlags()
	flags.String("backend", backendMemory, "backend to use (memory, remote)")
	flags.String("base-url", defaults.StudioBaseURL, "studio API base URL for the remote backend")
	flags.Duration("timeout", defaults.RequestTimeout, "timeout of each backend call")

	c.v.SetEnvPrefix("STUDIO")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	c.v.BindPFlags(flags)

	root.AddCommand(
		c.newLoginCmd(),
		c.newSignupCmd(),
		c.newGuestCmd(),
		c.newShellCmd(),
		c.newWatchCmd(),
	)
	return root
}

func (c *cli) validate() error {
	switch c.v.GetString("backend") {
	case backendMemory, backendRemote:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.v.GetString("backend"), backendMemory, backendRemote)
	}
	if c.timeout() <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (c *cli) timeout() time.Duration {
	return c.v.GetDuration("timeout")
}

// newBackend builds the configured backend. The memory backend starts with the
// profile of the test account behind loginRole.
func (c *cli) newBackend(loginRole string) (studio.Backend, error) {
	if c.v.GetString("backend") == backendRemote {
		return studio.NewRemoteBackend(&studio.RemoteOptions{
			BaseURL: c.v.GetString("base-url"),
			Timeout: c.timeout(),
		})
	}

	profile := studio.Profile{Fullname: "Test User", SubscriptionStatus: "none"}
	for _, r := range studio.LoginRoles() {
		if r.Key == loginRole && r.Credentials != nil {
			profile.Email = r.Credentials.Email
			profile.Role = pageName(r.Credentials.Redirect)
		}
	}
	return studio.NewMemoryBackend(profile), nil
}

// newDocument returns a page document that echoes every alert to out.
func newDocument(out io.Writer) *studio.Document {
	doc := studio.NewDocument()
	doc.OnAlert = func(message string) {
		fmt.Fprintf(out, "! %s\n", message)
	}
	return doc
}

// pageName turns a login redirect ("subscriber.html") into a page name.
func pageName(redirect string) string {
	return strings.TrimSuffix(strings.TrimPrefix(redirect, "/"), ".html")
}

func outcomeErr(action string, outcome studio.Outcome) error {
	if outcome == studio.OutcomeDone {
		return nil
	}
	return fmt.Errorf("%s: %s", action, outcome)
}
