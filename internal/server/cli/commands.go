package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/promptx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(app *server.App) error {
				return app.Run(cmd.Context())
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(app *server.App) error {
				if err := app.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s schema is up to date\n", okMark())
				return nil
			})
		},
	}
}

func (c *cli) userAddCmd() *cobra.Command {
	var in services.RegisterInput

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create an operator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Email == "" {
				if in.Email, err = promptx.GetSimpleText(c.reader, "E-mail", c.out); err != nil {
					return err
				}
			}
			if in.Password, err = promptx.GetPassword(c.reader, "Mot de passe", c.out); err != nil {
				return err
			}
			confirm, err := promptx.GetPassword(c.reader, "Confirmer le mot de passe", c.out)
			if err != nil {
				return err
			}
			in.ConfirmPassword = &confirm

			return c.withApp(cmd.Context(), func(app *server.App) error {
				u, err := app.Accounts.Register(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s created operator %s (%s)\n", okMark(), u.Email, u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "operator e-mail")
	cmd.Flags().StringVar(&in.Operator, "operator", "", "operator name")
	cmd.Flags().StringVar(&in.Matricule, "matricule", "", "matricule")
	cmd.Flags().StringVar(&in.Service, "service", "", "service")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var email string
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cahiers of an operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(app *server.App) error {
				sess, err := app.Accounts.SessionFor(cmd.Context(), email)
				if err != nil {
					return err
				}
				list, err := app.Cahiers.List(cmd.Context(), sess, archived)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintf(c.out, "%s no cahier\n", warnMark())
					return nil
				}

				w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEVENEMENT\tMIS A JOUR\tETAT")
				for _, ch := range list {
					state := color.New(color.FgGreen).Sprint("actif")
					if ch.Archived {
						state = color.New(color.FgYellow).Sprint("archivé")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ch.ID, ch.Evenement, timex.FormatHeure(ch.UpdatedAt), state)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "operator e-mail")
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived cahiers")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var email, dir string

	cmd := &cobra.Command{
		Use:   "export <cahier-id>",
		Short: "Write the PDF of a cahier to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cahier id %q", args[0])
			}

			return c.withApp(cmd.Context(), func(app *server.App) error {
				sess, err := app.Accounts.SessionFor(cmd.Context(), email)
				if err != nil {
					return err
				}
				data, name, err := app.Cahiers.Export(cmd.Context(), sess, id)
				if err != nil {
					if errors.Is(err, common.ErrorNotFound) {
						return fmt.Errorf("cahier %d not found for %s", id, email)
					}
					return err
				}

				path := filepath.Join(dir, name)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s wrote %s\n", okMark(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "owner e-mail")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
