package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"face-animation/pkg/studio"

	"github.com/spf13/cobra"
)

type loginFlags struct {
	role     string
	email    string
	password string
}

func (f *loginFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.role, "role", "r", "User Login", "login tab: "+roleKeys(studio.LoginRoles()))
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "email (defaults to the role's test account)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (defaults to the role's test account)")
}

func roleKeys(roles []studio.Role) string {
	keys := make([]string, 0, len(roles))
	for _, r := range roles {
		keys = append(keys, fmt.Sprintf("%q", r.Key))
	}
	return strings.Join(keys, ", ")
}

// login submits the login page and returns the redirect it navigated to.
func (c *cli) login(ctx context.Context, out io.Writer, backend studio.Backend, f loginFlags) (string, error) {
	doc := newDocument(out)
	page := studio.NewLoginPage(doc, backend, c.timeout())
	if !page.SelectRole(f.role) {
		return "", fmt.Errorf("unknown role %q (want one of %s)", f.role, roleKeys(studio.LoginRoles()))
	}
	if f.email != "" {
		doc.SetField(studio.EmailField, f.email)
	}
	if f.password != "" {
		doc.SetField(studio.PasswordField, f.password)
	}

	if err := outcomeErr("login", page.Submit(ctx)); err != nil {
		return "", err
	}
	return doc.Location(), nil
}

func (c *cli) newLoginCmd() *cobra.Command {
	var f loginFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a role's test account and print the redirect",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newBackend(f.role)
			if err != nil {
				return err
			}
			location, err := c.login(cmd.Context(), cmd.OutOrStdout(), backend, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Redirect: %s\n", location)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) newSignupCmd() *cobra.Command {
	var role, fullname, email, password, confirm string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account through the signup page",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newBackend("")
			if err != nil {
				return err
			}
			doc := newDocument(cmd.OutOrStdout())
			page := studio.NewSignupPage(doc, backend, c.timeout())
			if !page.SelectRole(role) {
				return fmt.Errorf("unknown role %q (want one of %s)", role, roleKeys(studio.SignupRoles()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Text(studio.FormTitle))

			if confirm == "" {
				confirm = password
			}
			doc.SetField(studio.FullnameField, fullname)
			doc.SetField(studio.EmailField, email)
			doc.SetField(studio.PasswordField, password)
			doc.SetField(studio.ConfirmField, confirm)
			if err := outcomeErr("signup", page.Submit(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Redirect: %s\n", doc.Location())
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "user", "signup tab: "+roleKeys(studio.SignupRoles()))
	cmd.Flags().StringVar(&fullname, "fullname", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	return cmd
}

func (c *cli) newGuestCmd() *cobra.Command {
	var plan string
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Show the guest sample gallery and optionally pick an upgrade plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			doc := newDocument(out)
			page := studio.NewGuestPage(doc)
			printItems(out, page.Samples().Items())
			if plan == "" {
				return nil
			}
			doc.SetField(studio.PlanField, plan)
			return outcomeErr("upgrade", page.Upgrade())
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "", "upgrade plan to select")
	return cmd
}
