// Package admin implements the account bootstrap command: it creates a user
// directly in the database from a terminal session.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/krabbypatty1031-blip/JustAsk/internal/cryptox"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/repomanager"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/services"
	"golang.org/x/crypto/bcrypt"
)

// openRepos is a test seam for connecting to PostgreSQL.
var openRepos = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	db, err := dbx.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// Run parses args (-d dsn, -u username, -p phone), prompts for whatever is
// missing plus the password twice, and registers the user.
func Run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(out)
	dsn := fs.String("d", "", "PostgreSQL DSN")
	userName := fs.String("u", "", "username")
	phone := fs.String("p", "", "phone number (8 digits)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" {
		return errors.New("database DSN is required (-d)")
	}

	reader := bufio.NewReader(in)
	var err error
	if *userName == "" {
		if *userName, err = GetSimpleText(reader, "Username", out); err != nil {
			return err
		}
	}
	if *phone == "" {
		if *phone, err = GetSimpleText(reader, "Phone number", out); err != nil {
			return err
		}
	}

	password, err := GetPassword("Enter password: ", out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat password: ", out)
	if err != nil {
		return err
	}

	reg := services.Registration{UserName: *userName, Phone: *phone, Password: password}
	if err := services.ValidateRegistration(reg); err != nil {
		return err
	}
	if err := services.CheckConfirmation(password, confirm); err != nil {
		return err
	}

	repos, err := openRepos(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repos.Close()

	svc := services.NewUserService(repos, nil, nil, cryptox.NewHasher(bcrypt.DefaultCost))
	user, err := svc.Register(ctx, reg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "created user %s (%s)\n", user.UserName, user.ID)
	return err
}
