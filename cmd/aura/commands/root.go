package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"aura/internal/app"
	"aura/internal/domain"
	"aura/internal/services/router"
	"aura/internal/services/session"
)

var (
	home         string
	passphrase   string
	apiURL       string
	logLevel     string
	pollInterval time.Duration
	appCtx       *app.Wire
)

// Values of the "role" annotation.
const (
	roleAnnotation = "role"

	areaPatient = "patient"
	areaDoctor  = "doctor"
	areaAuth    = "auth" // signed-out flow: login
	areaAny     = "any"  // any signed-in user
)

// Execute runs the CLI and prints a user-facing message for any error.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), userMessage(err))
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aura",
		Short:         "Patient and doctor companion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, false)
			w, err := app.NewWire(cfg, &printNavigator{w: cmd.OutOrStdout()}, log)
			if err != nil {
				return err
			}
			appCtx = w

			// Nothing role-gated may run until the stored session is loaded.
			appCtx.Session.Initialize(cmd.Context())
			st, err := appCtx.Session.Wait(cmd.Context())
			if err != nil {
				return err
			}
			return guard(cmd, st)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "data dir (default $AURA_HOME or ~/.aura)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the stored session (default: device key)")
	pf.StringVar(&apiURL, "api", "", "backend base URL (e.g. http://127.0.0.1:8000)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.DurationVar(&pollInterval, "poll-interval", 0, "how often doctors refresh a session")

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		accountCmd(),
		vaultCmd(),
		finderCmd(),
		medicineCmd(),
		detectCmd(),
	)
	return root
}

// resolveConfig applies flags over app.LoadConfig.
func resolveConfig(cmd *cobra.Command) (app.Config, error) {
	h := home
	if h == "" {
		var err error
		if h, err = app.DefaultHome(); err != nil {
			return app.Config{}, err
		}
	}
	cfg, err := app.LoadConfig(h)
	if err != nil {
		return app.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("passphrase") {
		cfg.Passphrase = passphrase
	}
	if flags.Changed("api") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = pollInterval
	}
	return cfg, cfg.Validate()
}

// withRole marks cmd as belonging to area.
func withRole(cmd *cobra.Command, area string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[roleAnnotation] = area
	return cmd
}

// redirectError stops a command the current session may not run.
type redirectError struct {
	area string
	to   domain.Route
	role domain.Role // signed-in role, if any
}

func (e *redirectError) Error() string {
	return fmt.Sprintf("%s area not available; redirect to %s", e.area, e.to)
}

func guard(cmd *cobra.Command, st session.State) error {
	area := cmd.Annotations[roleAnnotation]

	var d router.Decision
	switch area {
	case areaPatient:
		d = router.Guard(st, domain.RolePatient)
	case areaDoctor:
		d = router.Guard(st, domain.RoleDoctor)
	case areaAuth:
		d = router.GuardAuthFlow(st)
	case areaAny:
		d = router.Decision{Kind: router.Render}
		if _, ok := st.Role(); !ok {
			d = router.Decision{Kind: router.Redirect, To: domain.RouteWelcome}
		}
	default:
		return nil
	}

	switch d.Kind {
	case router.Render:
		return nil
	case router.Redirect:
		role, _ := st.Role()
		return &redirectError{area: area, to: d.To, role: role}
	default:
		return errors.New("session is still loading")
	}
}

// printNavigator shows navigation as a line of output.
type printNavigator struct{ w io.Writer }

func (n *printNavigator) Replace(route domain.Route) {
	fmt.Fprintf(n.w, "-> %s\n", routeTitle(route))
}

func routeTitle(r domain.Route) string {
	switch r {
	case domain.RouteWelcome:
		return "Welcome"
	case domain.RouteRoleSelection:
		return "Choose your role"
	case domain.RoutePatientDashboard:
		return "Patient dashboard"
	case domain.RouteDoctorDashboard:
		return "Doctor dashboard"
	}
	return string(r)
}
