package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	roble "github.com/augustosalazar/roble-go"
	"github.com/augustosalazar/roble-go/client/auth"
	"github.com/augustosalazar/roble-go/internal/conv"
	"github.com/augustosalazar/roble-go/schema"
)

const defaultSeedCount = 30

// Shell drives the interactive menu over a Roble session.
type Shell struct {
	session *roble.Session
	options *roble.Options
	in      *bufio.Reader
	out     io.Writer
}

// New creates a shell reading choices from in and writing to out.
func New(session *roble.Session, options *roble.Options, in io.Reader, out io.Writer) *Shell {
	return &Shell{session: session, options: options, in: bufio.NewReader(in), out: out}
}

// Loop renders the menu until the user exits. Remote failures are reported
// and the loop continues.
func (s *Shell) Loop(ctx context.Context) error {
	for {
		s.printMenu()
		choice := s.prompt("Select an option: ")
		if choice == "12" {
			fmt.Fprintln(s.out, "Bye.")
			return nil
		}
		if err := s.dispatch(ctx, choice); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "\n=== Roble Client ===")
	fmt.Fprintln(s.out, " 1. Login")
	fmt.Fprintln(s.out, " 2. Logout")
	fmt.Fprintln(s.out, " 3. Sign up")
	fmt.Fprintln(s.out, " 4. Show tokens")
	fmt.Fprintln(s.out, " 5. Refresh token")
	fmt.Fprintln(s.out, " 6. List records")
	fmt.Fprintln(s.out, " 7. Add record")
	fmt.Fprintln(s.out, " 8. Update record")
	fmt.Fprintln(s.out, " 9. Delete record")
	fmt.Fprintln(s.out, "10. Delete all records")
	fmt.Fprintf(s.out, "11. Add %v random records\n", defaultSeedCount)
	fmt.Fprintln(s.out, "12. Exit")
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.login(ctx)
	case "2":
		if err := s.session.Auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out.")
	case "3":
		email := s.prompt("New user email: ")
		password := s.prompt("New user password: ")
		name := s.prompt("New user name: ")
		if err := s.session.Auth.Signup(ctx, email, password, name); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "User created.")
	case "4":
		s.showTokens()
	case "5":
		if err := s.session.Auth.Refresh(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Token renewed.")
	case "6":
		records, err := s.session.Data.List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Found %v records.\n", len(records))
		for _, record := range records {
			fmt.Fprintf(s.out, "  %v\n", record)
		}
	case "7":
		return s.addRecord(ctx)
	case "8":
		return s.updateRecord(ctx)
	case "9":
		id := s.prompt("Record id to delete: ")
		if err := s.session.Data.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Record %v deleted.\n", id)
	case "10":
		if s.prompt("This deletes ALL records, continue? (y/n): ") != "y" {
			return nil
		}
		deleted, err := s.session.Data.DeleteAll(ctx)
		fmt.Fprintf(s.out, "%v records deleted.\n", deleted)
		return err
	case "11":
		names, err := s.session.Data.SeedRandom(ctx, defaultSeedCount)
		fmt.Fprintf(s.out, "%v random records added.\n", len(names))
		return err
	default:
		fmt.Fprintln(s.out, "Invalid option.")
	}
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	email, password := "", ""
	if credentials, err := s.options.Credentials(ctx); err != nil {
		return err
	} else if credentials != nil {
		email, password = credentials.Username, credentials.Password
	}
	if email == "" {
		email = s.prompt("Email: ")
		password = s.prompt("Password: ")
	}
	if err := s.session.Auth.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Login succeeded.")
	return nil
}

func (s *Shell) showTokens() {
	token, ok := s.session.Auth.Token()
	if !ok {
		fmt.Fprintln(s.out, "No session tokens held.")
		return
	}
	fmt.Fprintf(s.out, "Access token:  %v\n", token.AccessToken)
	fmt.Fprintf(s.out, "Refresh token: %v\n", token.RefreshToken)
	if info, err := auth.ParseTokenInfo(token.AccessToken); err == nil && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(s.out, "Access token expires at %v\n", info.ExpiresAt)
	}
}

func (s *Shell) addRecord(ctx context.Context) error {
	name := s.prompt("Name: ")
	description := s.prompt("Description: ")
	quantity, err := conv.AsInt(s.prompt("Quantity: "))
	if err != nil {
		return err
	}
	record := schema.Record{"name": name, "description": description, "quantity": quantity}
	if err = s.session.Data.Insert(ctx, record); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Record %q added.\n", name)
	return nil
}

func (s *Shell) updateRecord(ctx context.Context) error {
	id := s.prompt("Record id to update: ")
	field := s.prompt("Field to update (name/description/quantity): ")
	value := s.prompt("New value: ")
	updates := map[string]interface{}{field: value}
	if field == "quantity" {
		quantity, err := conv.AsInt(value)
		if err != nil {
			return err
		}
		updates[field] = quantity
	}
	if err := s.session.Data.Update(ctx, id, updates); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Record %v updated.\n", id)
	return nil
}

func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}
