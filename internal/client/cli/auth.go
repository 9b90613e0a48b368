package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/waterbot/internal/client/auth"
	"github.com/dmitrijs2005/waterbot/internal/client/views"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// authForm switches to the auth view. Signed-in users are refused.
func (a *App) authForm() error {
	if _, err := a.router.Navigate(views.Auth); err != nil {
		a.toast("Error", sentence(err.Error()))
		return err
	}
	return nil
}

// Login prompts for credentials and signs in. On success the control view
// opens.
func (a *App) Login(ctx context.Context) error {
	if err := a.authForm(); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.auth.Login(ctx, email, password); err != nil {
		return a.fail(err)
	}

	a.toast("Welcome back!", "Login successful")
	return a.show(ctx, views.Control)
}

// Signup prompts for a new account and signs in with it.
func (a *App) Signup(ctx context.Context) error {
	if err := a.authForm(); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.auth.Signup(ctx, email, password, confirm); err != nil {
		return a.fail(err)
	}

	a.toast("Welcome!", "Account created successfully")
	return a.show(ctx, views.Control)
}

// Reset prompts for an email and a new password. In hosted mode the new
// password may be left empty to request a recovery email instead.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	prompt := "Enter new password"
	if a.hosted != nil {
		prompt += " (empty to receive a reset email)"
	}
	password, err := getPassword(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}

	outcome, err := a.auth.ResetPassword(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}

	switch outcome {
	case auth.ResetEmailSent:
		a.toast("Success", "Password reset email sent")
	default:
		a.toast("Success", "Password updated successfully")
	}
	return nil
}

// Recover finishes a hosted password reset with the emailed recovery code
// and signs in. On success the control view opens.
func (a *App) Recover(ctx context.Context) error {
	if err := a.authForm(); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Enter recovery code", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter new password", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.auth.CompleteRecovery(ctx, email, code, password); err != nil {
		return a.fail(err)
	}

	a.toast("Success", "Password updated successfully")
	return a.show(ctx, views.Control)
}

// Logout ends the session, stops the camera and returns home.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.toast("Error", "Not signed in")
		return nil
	}
	a.auth.Logout(ctx)
	a.camera.Stop()
	a.toast("Logged out", "You have been signed out")
	return a.show(ctx, views.Home)
}

func (a *App) Whoami(ctx context.Context) error {
	id, ok := a.auth.Current()
	if !ok {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn("Signed in as", id.Email)
	return nil
}
