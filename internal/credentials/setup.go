package credentials

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Swapped in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// Remediation explains how to configure credentials.
const Remediation = "  keyring: run  rainsentinel --setup-email\n" +
	"  other:   set SMTP_USER and SMTP_PASS environment variables (SMTP_HOST, SMTP_PORT, SMTP_FROM optional)"

// Setup interactively prompts for SMTP settings and writes all five fields to store.
// Username and password are required.
func Setup(in io.Reader, out io.Writer, store Store) error {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "=== NOAA Rainfall Tracker - Email Setup ===")
	fmt.Fprintln(out, "Credentials will be stored in your platform keyring")
	fmt.Fprintf(out, "(service: %q)\n\n", Service)

	host := prompt(r, out, fmt.Sprintf("SMTP host [%s]: ", DefaultHost), DefaultHost)
	port := prompt(r, out, fmt.Sprintf("SMTP port [%d]: ", DefaultPort), fmt.Sprint(DefaultPort))
	user := prompt(r, out, "SMTP username (email): ", "")
	if user == "" {
		return fmt.Errorf("username is required")
	}
	pass, err := promptSecret(r, in, out, "SMTP password (Gmail: use an App Password): ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if pass == "" {
		return fmt.Errorf("password is required")
	}
	from := prompt(r, out, fmt.Sprintf("From address [%s]: ", user), user)

	fields := []struct{ account, value string }{
		{AccountHost, host},
		{AccountPort, port},
		{AccountUser, user},
		{AccountPassword, pass},
		{AccountFrom, from},
	}
	for _, f := range fields {
		if err := store.Store(f.account, f.value); err != nil {
			return fmt.Errorf("error storing %s: %w", f.account, err)
		}
	}

	fmt.Fprintf(out, "\nCredentials saved to keyring (service: %q).\n", Service)
	fmt.Fprintf(out, "You can now run:  rainsentinel --email %s\n", user)
	return nil
}

func prompt(r *bufio.Reader, out io.Writer, label, def string) string {
	fmt.Fprint(out, label)
	line, _ := r.ReadString('\n')
	if v := strings.TrimSpace(line); v != "" {
		return v
	}
	return def
}

// promptSecret reads without echo when in is a terminal, and falls back to a plain
// line read for pipes and files.
func promptSecret(r *bufio.Reader, in io.Reader, out io.Writer, label string) (string, error) {
	f, ok := in.(interface{ Fd() uintptr })
	if !ok || !isTerminal(int(f.Fd())) {
		return prompt(r, out, label, ""), nil
	}
	fmt.Fprint(out, label)
	b, err := readPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
