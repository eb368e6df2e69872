package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/client/services"
)

// Profile prints the signed-in account.
func (a *App) Profile(ctx context.Context) error {
	acc := a.auth.State().Account
	fmt.Fprintf(a.out, "ID:      %s\n", acc.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", acc.Name)
	fmt.Fprintf(a.out, "Email:   %s\n", acc.Email)
	if acc.ProfilePic != "" {
		fmt.Fprintf(a.out, "Picture: %s\n", acc.ProfilePic)
	}
	if a.sessions != nil {
		if since, err := a.sessions.SavedAt(ctx); err == nil {
			fmt.Fprintf(a.out, "Session: since %s, valid until %s\n",
				since.Local().Format(time.DateTime), since.Add(a.config.SessionValidity).Local().Format(time.DateTime))
		}
	}
	return nil
}

// Update asks for the fields to change; empty answers keep the current value.
func (a *App) Update(ctx context.Context) error {
	var u models.ProfileUpdate

	name, err := getSimpleText(a.reader, "New user name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		u.Name = &name
	}

	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if email != "" {
		u.Email = &email
	}

	change, err := GetYesNo(a.reader, "Change password?", a.out)
	if err != nil {
		return err
	}
	if change {
		pw, err := a.readPasswordString()
		if err != nil {
			return err
		}
		u.Password = &pw
	}

	if u.Name == nil && u.Email == nil && u.Password == nil {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	if _, err := a.auth.UpdateProfile(ctx, u); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Picture uploads a local image and makes it the profile picture.
func (a *App) Picture(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to image", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return a.fail(errors.New("no file given"))
	}

	var url string
	for ev := range a.uploads.Upload(ctx, 0, path) {
		a.progress(ev)
		if ev.Done {
			if ev.Err != nil {
				return a.fail(ev.Err)
			}
			url = ev.URL
		}
	}

	if _, err := a.auth.UpdateProfilePic(ctx, url); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Profile picture updated")
	return nil
}

func (a *App) progress(ev services.UploadEvent) {
	name := filepath.Base(ev.Path)
	switch {
	case !ev.Done:
		fmt.Fprintf(a.out, "  [%d] %s %3d%%\n", ev.Index+1, name, ev.Percent())
	case ev.Err != nil:
		fmt.Fprintf(a.out, "  [%d] %s failed\n", ev.Index+1, name)
	default:
		fmt.Fprintf(a.out, "  [%d] %s done\n", ev.Index+1, name)
	}
}
