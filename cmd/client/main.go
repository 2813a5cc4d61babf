// Command client is a small interactive shell for the multi-account flow:
// it keeps the local roster, signs in, and switches between accounts using
// the stored session tokens.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasmnd/toile/backend/internal/client/accounts"
	"github.com/lucasmnd/toile/backend/internal/client/api"
)

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "backend base URL")
	rosterPath := flag.String("accounts", defaultRosterPath(), "path of the local accounts file")
	flag.Parse()

	store := accounts.NewStore(*rosterPath)
	if err := store.Load(); err != nil {
		fmt.Println("failed to load accounts:", err)
		os.Exit(1)
	}

	client := api.New(*baseURL)
	switcher := accounts.NewSwitcher(store, client)

	repl(store, switcher, client)
}

func defaultRosterPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "accounts.json"
	}
	return filepath.Join(dir, "toile", "accounts.json")
}

// repl runs the interactive shell loop.
func repl(store *accounts.Store, switcher *accounts.Switcher, client *api.Client) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("toile> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, accounts, login <email>, switch <username>, logout [username], exit")
		case "accounts":
			printRoster(store, switcher)
		case "login":
			if len(args) < 2 {
				fmt.Println("Usage: login <email>")
				continue
			}
			login(ctx, store, switcher, client, args[1], scanner)
		case "switch":
			if len(args) < 2 {
				fmt.Println("Usage: switch <username>")
				continue
			}
			doSwitch(ctx, switcher, args[1])
		case "logout":
			username := switcher.Active()
			if len(args) > 1 {
				username = args[1]
			}
			if username == "" {
				fmt.Println("Nobody is signed in")
				continue
			}
			res, err := switcher.RemoveAccount(ctx, username)
			if err != nil {
				fmt.Println("logout failed:", err)
				continue
			}
			report(res, switcher)
		case "exit":
			return
		default:
			fmt.Println("Unknown command; try help")
		}
	}
}

func printRoster(store *accounts.Store, switcher *accounts.Switcher) {
	roster := store.List()
	if len(roster) == 0 {
		fmt.Println("No accounts on this device")
		return
	}
	for _, acc := range roster {
		marker := "  "
		if acc.Username == switcher.Active() {
			marker = "* "
		}
		fmt.Printf("%s%s <%s>\n", marker, acc.Username, acc.Email)
	}
}

// beginAdd reserves the add-account slot when email is not already on the
// roster. It reports false on a full roster; the returned func releases the
// slot and must be called once the flow ends.
func beginAdd(store *accounts.Store, email string) (func(), bool) {
	if usernameForEmail(store, email) != "" {
		return func() {}, true
	}
	if !store.StartAdd() {
		return nil, false
	}
	return store.FinishAdd, true
}

func login(ctx context.Context, store *accounts.Store, switcher *accounts.Switcher, client *api.Client, email string, scanner *bufio.Scanner) {
	done, ok := beginAdd(store, email)
	if !ok {
		fmt.Printf("This device already has %d accounts; log one out first\n", accounts.MaxAccounts)
		return
	}
	defer done()

	fmt.Print("Password: ")
	if !scanner.Scan() {
		return
	}
	password := scanner.Text()

	resp, err := client.SignIn(ctx, email, password)
	if err != nil {
		fmt.Println("login failed:", err)
		return
	}

	acc := accounts.Account{
		Username: resp.User.Username,
		Name:     resp.User.Name,
		Email:    resp.User.Email,
		Image:    resp.User.Image,
	}
	if err := store.AddOrUpdate(acc, resp.Token); err != nil {
		fmt.Println("could not store account:", err)
		return
	}
	switcher.SetActive(acc.Username)
	fmt.Printf("Signed in as %s\n", acc.Username)
}

func usernameForEmail(store *accounts.Store, email string) string {
	for _, acc := range store.List() {
		if acc.Email == email {
			return acc.Username
		}
	}
	return ""
}

func doSwitch(ctx context.Context, switcher *accounts.Switcher, username string) {
	res, err := switcher.Switch(ctx, username)
	if err != nil {
		fmt.Println("switch failed:", err)
		return
	}
	report(res, switcher)
}

func report(res accounts.SwitchResult, switcher *accounts.Switcher) {
	switch res.State {
	case accounts.StateActive:
		fmt.Printf("Now signed in as %s\n", switcher.Active())
	case accounts.StateRedirectToLogin:
		if res.RedirectEmail != "" {
			fmt.Printf("Session expired; please log in again as %s\n", res.RedirectEmail)
		} else {
			fmt.Println("Signed out; please log in")
		}
	case accounts.StateIdle:
		fmt.Println("Nothing to do")
	}
}
