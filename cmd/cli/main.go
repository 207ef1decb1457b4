package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
	token   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trustbook-cli",
		Short:         "Trustbook CLI tool",
		Long:          `A command line interface for interacting with the Trustbook API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Trustbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("TRUSTBOOK_USER"), "Caller ID sent as X-User-ID when no token is given")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRUSTBOOK_TOKEN"), "Bearer token")

	rootCmd.AddCommand(accountsCmd(), entriesCmd(), statementCmd(), dashboardCmd(), verifyCmd(), rebuildCmd(), tokenCmd())

	return rootCmd
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "accounts", Short: "Account operations"}

	var (
		req    dto.CreateAccountRequest
		linked string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if linked != "" {
				req.LinkedUserID = &linked
			}
			var resp dto.AccountResponse
			if err := call(http.MethodPost, "/api/v1/accounts/", req, &resp); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "Party name")
	create.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	create.Flags().StringVar(&req.Email, "email", "", "Email address")
	create.Flags().StringVar(&req.Description, "description", "", "Description")
	create.Flags().StringVar(&linked, "link", "", "User ID allowed to view the account")
	_ = create.MarkFlagRequired("name")

	shared := false
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/"
			if shared {
				path = "/api/v1/accounts/shared"
			}
			var resp dto.ListAccountsResponse
			if err := call(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			printAccounts(resp.Accounts)
			return nil
		},
	}
	list.Flags().BoolVar(&shared, "shared", false, "List accounts shared with you")

	get := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			if err := call(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}

	cmd.AddCommand(create, list, get)
	return cmd
}

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "entries", Short: "Entry operations"}

	var (
		req    dto.CreateEntryRequest
		amount string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Post a credit or debit",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			req.Amount = parsed
			var resp dto.EntryResponse
			if err := call(http.MethodPost, "/api/v1/entries/", req, &resp); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
	add.Flags().StringVar(&req.AccountID, "account", "", "Account ID")
	add.Flags().StringVar(&req.BusinessDate, "date", "", "Business date (YYYY-MM-DD, default today)")
	add.Flags().StringVar(&req.Direction, "direction", "", "CREDIT or DEBIT")
	add.Flags().StringVar(&amount, "amount", "", "Positive amount")
	add.Flags().StringVar(&req.Narration, "narration", "", "Narration")
	for _, f := range []string{"account", "direction", "amount", "narration"} {
		_ = add.MarkFlagRequired(f)
	}

	del := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.DeleteEntryResponse
			if err := call(http.MethodDelete, "/api/v1/entries/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list [account-id]",
		Short: "List entries of an account, or your recent entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/entries/"
			if len(args) == 1 {
				path = "/api/v1/accounts/" + url.PathEscape(args[0]) + "/entries"
			}
			path += fmt.Sprintf("?page=%d&page_size=%d", page, pageSize)

			var resp dto.EntryPageResponse
			if err := call(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			printEntries(resp.Entries)
			fmt.Printf("page %d of %d (%d entries)\n", resp.Page, resp.TotalPages, resp.Total)
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "Page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "Entries per page")

	cmd.AddCommand(add, del, list)
	return cmd
}

func statementCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "statement <account-id> [year month]",
		Short: "Show a monthly or custom-range statement",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <account-id> or <account-id> <year> <month>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statement"
			if len(args) == 3 {
				path += "/" + url.PathEscape(args[1]) + "/" + url.PathEscape(args[2])
			} else {
				if from == "" || to == "" {
					return fmt.Errorf("--from and --to are required without year and month")
				}
				path += "?" + url.Values{"from": {from}, "to": {to}}.Encode()
			}

			var resp dto.StatementResponse
			if err := call(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			fmt.Printf("%s  %s .. %s\n", resp.AccountName, resp.From, resp.To)
			fmt.Printf("opening %s\n", resp.OpeningBalance)
			printEntries(resp.Entries)
			fmt.Printf("credits %s  debits %s  closing %s\n", resp.TotalCredits, resp.TotalDebits, resp.ClosingBalance)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.DashboardResponse
			if err := call(http.MethodGet, "/api/v1/dashboard", nil, &resp); err != nil {
				return err
			}
			printJSON(resp)
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <account-id>",
		Short: "Check an account's running balances and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationResponse
			if err := call(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/verify", nil, &resp); err != nil {
				return err
			}
			printReconciliation(resp)
			if !resp.IsReconciled {
				return fmt.Errorf("account %s is not reconciled", resp.AccountID)
			}
			return nil
		},
	}
}

func rebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <account-id>",
		Short: "Recompute every running balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationResponse
			if err := call(http.MethodPost, "/api/v1/accounts/"+url.PathEscape(args[0])+"/rebuild", nil, &resp); err != nil {
				return err
			}
			printReconciliation(resp)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		email    string
		validFor time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token signed with the server secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			signed, err := auth.NewJWTManager(secret, validFor).Generate(args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&validFor, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// call sends body as JSON and decodes a 2xx response into out.
func call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printAccounts(accounts []*dto.AccountResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tBALANCE\tENTRIES")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, truncate(a.Name, 30), a.Role, a.Balance, a.EntryCount)
	}
	_ = w.Flush()
}

func printEntries(entries []*dto.EntryResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tID\tDIRECTION\tAMOUNT\tBALANCE\tNARRATION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.BusinessDate, e.ID, e.Direction, e.Amount, e.RunningBalance, truncate(e.Narration, 40))
	}
	_ = w.Flush()
}

func printReconciliation(r dto.ReconciliationResponse) {
	status := "RECONCILED"
	if !r.IsReconciled {
		status = "NOT RECONCILED"
	}
	fmt.Printf("%s: %s\n", r.AccountID, status)
	fmt.Printf("cached balance %s, rescanned %s\n", r.Cached.Balance, r.Rescanned.Balance)
	for _, b := range r.ChainBreaks {
		fmt.Printf("  %s stored %s expected %s\n", b.EntryID, b.Stored, b.Expected)
	}
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}
