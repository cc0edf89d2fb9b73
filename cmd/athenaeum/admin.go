package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/repository/postgres"
	"github.com/emzola/athenaeum/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAdminCmd(configPath *string) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage staff accounts",
	}
	adminCmd.AddCommand(newAdminCreateCmd(configPath))
	return adminCmd
}

func newAdminCreateCmd(configPath *string) *cobra.Command {
	var input dto.CreateAdminRequestBody
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an activated staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if input.Password == "" {
				input.Password, err = readPassword(fmt.Sprintf("Password for %s: ", input.Email))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			db, err := postgres.OpenDBConn(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// Account creation never touches images, so no asset store is wired.
			var wg sync.WaitGroup
			svc := service.New(cfg, &wg, logger, repository.New(db), nil)
			admin, err := svc.CreateAdmin(cmd.Context(), input)
			if err != nil {
				var validationErr *service.ValidationError
				if errors.As(err, &validationErr) {
					for field, msg := range validationErr.Errors {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
					}
				}
				return err
			}
			wg.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", admin.Role, admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "login e-mail address")
	cmd.Flags().StringVar(&input.Role, "role", data.RoleLibrarian, "admin or librarian")
	cmd.Flags().StringVar(&input.Password, "password", "", "password; prompted for when omitted")
	cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword reads a password from the terminal without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
