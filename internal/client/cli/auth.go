package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/realestate/internal/client/services"
	"github.com/dmitrijs2005/realestate/internal/client/session"
	"github.com/dmitrijs2005/realestate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readPasswordString reads a password and wipes the raw bytes.
func (a *App) readPasswordString() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) greet(st session.State, verb string) {
	fmt.Fprintf(a.out, "%s as %s <%s>\n", verb, st.Account.Name, st.Account.Email)
}

// Signup prompts for a name, an email and a password and creates the
// account. The new session is persisted on success.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString()
	if err != nil {
		return err
	}

	st, err := a.auth.Signup(ctx, name, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.greet(st, "Signed up")
	return nil
}

// Signin prompts for credentials and authenticates.
func (a *App) Signin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString()
	if err != nil {
		return err
	}

	st, err := a.auth.Signin(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.greet(st, "Signed in")
	return nil
}

// Google runs the identity-provider step interactively and signs in with
// the asserted identity, creating the account on first use.
func (a *App) Google(ctx context.Context) error {
	st, err := a.auth.OAuthSignin(ctx, &promptIdentity{reader: a.reader, out: a.out})
	if err != nil {
		return a.fail(err)
	}
	a.greet(st, "Signed in with Google")
	return nil
}

// SignOut ends the session locally and on the server.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Delete removes the account after confirmation and signs out.
func (a *App) Delete(ctx context.Context) error {
	ok, err := GetYesNo(a.reader, "Delete your account and all of its listings?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.auth.DeleteAccount(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

// promptIdentity stands in for the provider's consent popup: the user types
// the identity the provider would assert.
type promptIdentity struct {
	reader *bufio.Reader
	out    io.Writer
}

var _ services.IdentityProvider = (*promptIdentity)(nil)

func (p *promptIdentity) Assert(ctx context.Context) (*services.Assertion, error) {
	var as services.Assertion
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Google account name", &as.Name},
		{"Google account email", &as.Email},
		{"Photo URL (optional)", &as.ProfilePic},
	}
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := getSimpleText(p.reader, f.prompt, p.out)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if as.Email == "" {
		return nil, fmt.Errorf("popup closed without an email")
	}
	return &as, nil
}
