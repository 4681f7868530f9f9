package parkingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

// Login authenticates and returns the user profile with the admin flag.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	const failMsg = "Unable to login"
	var out models.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login/", body, &out, failMsg); err != nil {
		return models.LoginResult{}, err
	}
	if !out.User.HasID() {
		return models.LoginResult{}, apperrors.NewRemoteError(failMsg, "response carried no user", 0)
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context, userID models.UserID) error {
	body := map[string]interface{}{"id": userID}
	return c.call(ctx, "logout", http.MethodPost, "/auth/logout/", body, nil, "Unable to logout")
}

// SignUp registers a new account. The server may or may not echo the user back.
func (c *Client) SignUp(ctx context.Context, form models.SignUpForm) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.call(ctx, "signup", http.MethodPost, "/auth/register/", form, &out, "Unable to create your account"); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// ForgotPassword asks the server to email a reset code and returns the code it reports.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	const failMsg = "Unable to send an email, please try again..."
	var out map[string]json.RawMessage
	body := map[string]string{"email": email}
	if err := c.call(ctx, "forgot_password", http.MethodPost, "/auth/forgot-password/", body, &out, failMsg); err != nil {
		return "", err
	}
	raw, ok := out["code"]
	if !ok {
		return "", apperrors.NewRemoteError(failMsg, "response carried no code", 0)
	}
	return strings.Trim(string(raw), `"`), nil
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "new_password": newPassword}
	return c.call(ctx, "reset_password", http.MethodPost, "/auth/reset-password/", body, nil,
		"Unable to reset your password. Please try again later.")
}

func (c *Client) DeleteAccount(ctx context.Context, userID models.UserID) error {
	return c.call(ctx, "delete_account", http.MethodDelete, fmt.Sprintf("/auth/delete-account/%d/", userID), nil, nil,
		"Unable to delete your account. Please try again later.")
}
