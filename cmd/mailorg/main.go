package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"mailorg/internal/app"
	"mailorg/internal/config"
	"mailorg/internal/encryption"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a MailApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Ingest", "ListThreads").
func newApp(ctx context.Context, operation string) (*app.MailApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewMailApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, string, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, "", fmt.Errorf("getting default paths: %w", err)
	}

	cfg, err := config.ReadFromFile(paths.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, paths.ConfigPath, nil
}

// readPassphrase prompts on stderr and reads a passphrase without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// unlock asks for the passphrase when stored content is encrypted.
func unlock(a *app.MailApp) error {
	if !a.NeedsUnlock() {
		return nil
	}
	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	return a.Unlock(passphrase)
}

var rootCmd = &cobra.Command{
	Use:          "mailorg",
	Short:        "Email ingestion and organization",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")

		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get default paths: %w", err)
		}

		cfg := config.NewConfig(account, paths.BaseDir)

		if err := config.Init(paths.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigPath)
		fmt.Printf("Account:  %s\n", account)
		fmt.Printf("Base Dir: %s\n", paths.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Account:       %s\n", cfg.Account)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Store:         %s\n", cfg.Store.Type)
		fmt.Printf("Database:      %s\n", cfg.Database.Type)
		fmt.Printf("Encryption:    %s\n", cfg.Encryption.Type)
		fmt.Printf("Notify:        %s\n", cfg.Notify.Type)
		fmt.Printf("Thread Window: %d days\n", cfg.Ingest.ThreadWindowDays)
		return nil
	},
}

var configEncryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Manage content encryption",
}

var configEncryptionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}
		if enc == nil {
			return fmt.Errorf("encryption is disabled; set encryption.type = \"age\" first")
		}

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Printf("Keys written to %s and %s\n", cfg.Encryption.PublicKeyPath, cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest PATH...",
	Short: "Ingest message files or directories of them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		account, _ := cmd.Flags().GetString("account")
		ctx := cmd.Context()

		a, err := newApp(ctx, "Ingest")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Ingest(ctx, args, account, recursive)
		if report != nil {
			fmt.Printf("Processed %d, created %d, duplicates %d, failed %d\n",
				report.Processed, report.Created, report.Duplicates, report.Failed)
			for source, reason := range report.Failures {
				fmt.Printf("  %s: %s\n", source, reason)
			}
		}
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		return nil
	},
}

// thread command
var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Manage threads",
}

var threadResolveCmd = &cobra.Command{
	Use:   "resolve SUBJECT",
	Short: "Find or create the thread for a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		atFlag, _ := cmd.Flags().GetString("at")
		ctx := cmd.Context()

		at := time.Now().UTC()
		if atFlag != "" {
			parsed, err := time.Parse(time.RFC3339, atFlag)
			if err != nil {
				return fmt.Errorf("parsing --at: %w", err)
			}
			at = parsed
		}

		a, err := newApp(ctx, "ResolveThread")
		if err != nil {
			return err
		}
		defer a.Close()

		thread, err := a.ResolveThread(ctx, args[0], at)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s  %s\n", thread.ID, thread.LastDate.Format("2006-01-02 15:04:05"), thread.Subject)
		return nil
	},
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List threads, most recently active first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		a, err := newApp(ctx, "ListThreads")
		if err != nil {
			return err
		}
		defer a.Close()

		threads, err := a.ListThreads(ctx, limit)
		if err != nil {
			return err
		}
		if len(threads) == 0 {
			fmt.Println("No threads.")
			return nil
		}
		for _, t := range threads {
			fmt.Printf("%s  %s  %s  %s\n",
				t.ID,
				t.DateStarted.Format("2006-01-02 15:04"),
				t.LastDate.Format("2006-01-02 15:04"),
				t.Subject,
			)
		}
		return nil
	},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List contacts by message count",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		a, err := newApp(ctx, "ListContacts")
		if err != nil {
			return err
		}
		defer a.Close()

		contacts, err := a.ListContacts(ctx, limit)
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			fmt.Println("No contacts.")
			return nil
		}
		for _, c := range contacts {
			name := strings.TrimSpace(c.FirstName + " " + c.LastName)
			fmt.Printf("%6d sent  %6d received  %s  %s\n", c.SentCount, c.ReceivedCount, c.Email, name)
		}
		return nil
	},
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List domains by message count",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		a, err := newApp(ctx, "ListDomains")
		if err != nil {
			return err
		}
		defer a.Close()

		domains, err := a.ListDomains(ctx, limit)
		if err != nil {
			return err
		}
		if len(domains) == 0 {
			fmt.Println("No domains.")
			return nil
		}
		for _, d := range domains {
			fmt.Printf("%6d sent  %6d received  %s\n", d.SentCount, d.ReceivedCount, d.Name)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show MESSAGE",
	Short: "Show a message by internal id or Message-ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withBody, _ := cmd.Flags().GetBool("body")
		ctx := cmd.Context()

		a, err := newApp(ctx, "GetMessage")
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.GetMessage(ctx, args[0])
		if err != nil {
			return err
		}

		m := view.Message
		fmt.Printf("ID:         %s\n", m.ID)
		fmt.Printf("Message-ID: %s\n", m.MessageID)
		fmt.Printf("Account:    %s\n", m.AccountID)
		fmt.Printf("From:       %s\n", m.Sender)
		fmt.Printf("To:         %s\n", m.Recipients)
		if m.Cc != "" {
			fmt.Printf("Cc:         %s\n", m.Cc)
		}
		fmt.Printf("Subject:    %s\n", m.Subject)
		fmt.Printf("Date:       %s\n", m.DateSent.Format(time.RFC1123Z))
		fmt.Printf("Thread:     %s\n", m.ThreadID)
		fmt.Printf("Body:       %s %s (%d bytes)\n", view.Body.Format, view.Body.ID, view.Body.Size)
		if m.HasForwarded {
			fmt.Println("Forwarded:  yes")
		}
		for _, att := range view.Attachments {
			fmt.Printf("Attachment: %s  %s  %d  %s\n", att.ID[:12], att.ContentType, att.Size, att.Filename)
		}
		for _, obj := range view.Objects {
			fmt.Printf("Object:     %s  %s  %d\n", obj.ID, obj.ContentType, obj.Size)
		}
		for _, d := range view.Disclaimers {
			fmt.Printf("Disclaimer: %s\n", d.ID[:12])
		}

		if !withBody {
			return nil
		}
		if err := unlock(a); err != nil {
			return err
		}
		fmt.Println()
		return a.LoadContent(ctx, "body-"+view.Body.Format, view.Body.ID, os.Stdout)
	},
}

var contentCmd = &cobra.Command{
	Use:   "content KIND ID",
	Short: "Write stored content to stdout (kinds: body-text, body-html, attachment, object, disclaimer)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, "LoadContent")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := unlock(a); err != nil {
			return err
		}
		return a.LoadContent(ctx, args[0], args[1], os.Stdout)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View ingest run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		a, err := newApp(ctx, "GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.GetHistory(ctx, limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No ingest runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt.Valid {
				d := run.FinishedAt.Time.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-15s  %s  %-8s  %d/%d/%d/%d  %s\n",
				run.ID,
				run.Operation,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Status,
				run.Processed, run.Created, run.Duplicates, run.Failed,
				duration,
			)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("account", "default", "Account reference used when ingest is not given one")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEncryptionCmd)
	configEncryptionCmd.AddCommand(configEncryptionInitCmd)

	// thread subcommands
	threadCmd.AddCommand(threadResolveCmd)
	threadResolveCmd.Flags().String("at", "", "Message time (RFC 3339), defaults to now")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	ingestCmd.Flags().String("account", "", "Account reference (defaults to the configured account)")
	rootCmd.AddCommand(threadCmd)
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.Flags().IntP("limit", "n", 50, "Maximum number of threads to show")
	rootCmd.AddCommand(contactsCmd)
	contactsCmd.Flags().IntP("limit", "n", 50, "Maximum number of contacts to show")
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.Flags().IntP("limit", "n", 50, "Maximum number of domains to show")
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("body", false, "Also print the sanitized body")
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
}
