package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/soumetsu/soumetsu/internal/cli/output"
	"github.com/soumetsu/soumetsu/internal/cli/prompt"
	"github.com/soumetsu/soumetsu/internal/crypto"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/config"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long: `Manage user accounts directly against the database.

These commands operate on the same store the API serves from and are
meant for bootstrapping the first accounts and for emergency moderation
when the API is down.`,
}

var userAddAdmin bool

var userAddCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Create a user account (prompts for password)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAdd(cmd.Context(), args[0], args[1])
	},
}

var userListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List user accounts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return userList(cmd.Context(), query)
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Change a user's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userPasswd(cmd.Context(), args[0])
	},
}

var userBanCmd = &cobra.Command{
	Use:   "ban <username>",
	Short: "Ban a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSetPrivileges(cmd.Context(), args[0], "ban", func(p privileges.Privileges) privileges.Privileges {
			return p.Ban()
		})
	},
}

var userUnbanCmd = &cobra.Command{
	Use:   "unban <username>",
	Short: "Lift a ban or restriction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSetPrivileges(cmd.Context(), args[0], "unban", func(p privileges.Privileges) privileges.Privileges {
			return p.Unrestrict()
		})
	},
}

func init() {
	userAddCmd.Flags().BoolVar(&userAddAdmin, "admin", false, "Grant the full admin privilege set")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userBanCmd)
	userCmd.AddCommand(userUnbanCmd)
}

// openStore loads the config and opens the database for a one-shot command.
// The caller must Close the returned store.
func openStore() (store.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := store.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// adminPrivileges is the full staff set granted by "user add --admin".
const adminPrivileges = privileges.UserPublic | privileges.UserNormal |
	privileges.AdminAccessPanel | privileges.AdminManageUsers |
	privileges.AdminBanUsers | privileges.AdminSilenceUsers |
	privileges.AdminManageBeatmaps | privileges.AdminManageBadges |
	privileges.AdminViewLogs | privileges.AdminManagePrivileges |
	privileges.AdminManageReports | privileges.AdminSendAlerts |
	privileges.AdminChatMod

func userAdd(ctx context.Context, username, email string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	password, err := prompt.NewPassword()
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Accounts created from the CLI skip email verification.
	privs := privileges.UserPublic | privileges.UserNormal
	if userAddAdmin {
		privs = adminPrivileges
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Country:      "XX",
		Privileges:   privs,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := db.EnsureUserStats(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to initialize stats: %w", err)
	}

	fmt.Printf("User %q created (ID: %d)\n", username, user.ID)
	return nil
}

func userList(ctx context.Context, query string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := db.SearchUsers(ctx, query, 1, 100)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	table := output.NewTable("ID", "USERNAME", "COUNTRY", "PRIVILEGES", "REGISTERED")
	for _, u := range users {
		table.AddRow(
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Country,
			strconv.FormatInt(int64(u.Privileges), 10),
			u.RegisteredAt.Format("2006-01-02"),
		)
	}
	table.Render(os.Stdout)
	return nil
}

func userPasswd(ctx context.Context, username string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := db.GetUserByName(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	password, err := prompt.NewPassword()
	if err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Printf("Password changed for user %q\n", username)
	return nil
}

func userSetPrivileges(ctx context.Context, username, action string, apply func(privileges.Privileges) privileges.Privileges) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := db.GetUserByName(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	ok, err := prompt.Confirm(fmt.Sprintf("Apply %q to user %q", action, username), false)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled")
		return nil
	}

	if err := db.UpdateUserPrivileges(ctx, user.ID, apply(user.Privileges)); err != nil {
		return fmt.Errorf("failed to update privileges: %w", err)
	}

	// Moderation from the CLI is audited like API moderation. ActorID 0
	// marks operator actions.
	log := &models.AuditLog{
		TargetID:  user.ID,
		Action:    action,
		Message:   "applied via CLI",
		CreatedAt: time.Now(),
	}
	if err := db.CreateAuditLog(ctx, log); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log write failed: %v\n", err)
	}

	fmt.Printf("Applied %q to user %q\n", action, username)
	return nil
}
