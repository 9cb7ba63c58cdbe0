package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/config"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/routes/users"
	"rentals-dashboard/app/session"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	backendURL    string
	token         string
	adminEmail    string
	adminPassword string
	form          users.UserForm
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "add_user",
		Short:         "Create an account through the rentals backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.backendURL == "" {
				opts.backendURL = cfg.Backend.URL
			}
			if opts.adminPassword == "" {
				opts.adminPassword = os.Getenv("ADMIN_PASSWORD")
			}
			if opts.token == "" && opts.adminEmail == "" {
				return errors.New("either --token or --admin-email is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), out, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.backendURL, "backend", "", "backend base URL (defaults to BACKEND_URL)")
	f.StringVar(&opts.token, "token", "", "admin bearer token for the backend")
	f.StringVar(&opts.adminEmail, "admin-email", "", "admin e-mail used to sign in when no token is given")
	f.StringVar(&opts.adminPassword, "admin-password", "", "admin password (defaults to ADMIN_PASSWORD)")
	f.StringVar(&opts.form.Nom, "nom", "", "last name")
	f.StringVar(&opts.form.Prenom, "prenom", "", "first name")
	f.StringVar(&opts.form.Email, "email", "", "e-mail address")
	f.StringVar(&opts.form.Password, "password", "", "password")
	f.StringVar(&opts.form.Telephone, "telephone", "", "phone number")
	f.StringVar(&opts.form.Revenu, "revenu", "", "monthly income in euros")
	for _, name := range []string{"nom", "prenom", "email", "password", "telephone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	api := backend.New(opts.backendURL)

	token := opts.token
	if token == "" {
		res, err := api.Login(ctx, backend.Credentials{Email: opts.adminEmail, Password: opts.adminPassword})
		if err != nil {
			return fmt.Errorf("admin sign-in: %w", err)
		}
		if res.User.Role != models.RoleAdmin {
			return fmt.Errorf("%s is not an administrator", opts.adminEmail)
		}
		token = res.Token
	}
	ctx = session.WithContext(ctx, &session.Session{Role: models.RoleAdmin, Token: token})

	svc := users.NewService(api, cache.NewMemory(0), zap.NewNop())
	state, err := svc.Create(ctx, opts.form)
	if err != nil {
		return err
	}
	if !state.OK() {
		return fmt.Errorf("%s%s", state.Message, formatErrors(state.Errors))
	}

	fmt.Fprintf(out, "User created successfully: %s %s (%s)\n", opts.form.Prenom, opts.form.Nom, opts.form.Email)
	return nil
}

func formatErrors(errs map[string][]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", f, strings.Join(errs[f], " "))
	}
	return b.String()
}
