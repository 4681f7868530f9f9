package cli

import (
	"fmt"
	"strings"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

func (c *CLI) handleLogin(args []string) error {
	var email, password string
	var err error

	switch len(args) {
	case 0:
		email, err = c.promptForInput("Email: ")
		if err != nil {
			return err
		}
		password, err = c.promptForPassword("Password: ")
		if err != nil {
			return err
		}
	case 1:
		email = args[0]
		password, err = c.promptForPassword("Password: ")
		if err != nil {
			return err
		}
	case 2:
		email, password = args[0], args[1]
	default:
		return fmt.Errorf("usage: login [<email> [password]]")
	}

	if c.session.State().IsAuthenticated {
		return apperrors.NewValidationError("You are already logged in. Log out first.", "")
	}
	if err := c.validator.ValidateLogin(email, password).Err(); err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.session.LogIn(result.User, result.IsAdmin)
	role := ""
	if result.IsAdmin {
		role = " (admin)"
	}
	c.printf("Welcome, %s%s\n", result.User.FullName(), role)
	return nil
}

func (c *CLI) handleLogout(args []string) error {
	user := c.session.User()
	if !c.session.State().IsAuthenticated {
		return apperrors.NewNotAuthenticatedError()
	}

	ctx, cancel := c.context()
	defer cancel()
	if err := c.api.Logout(ctx, user.ID); err != nil {
		// local logout still goes ahead
		c.logger.Warn("remote logout failed", map[string]interface{}{"userId": user.ID, "error": err.Error()})
	}

	c.session.LogOut()
	c.selection = nil
	c.printf("Logged out.\n")
	return nil
}

func (c *CLI) handleSignUp(args []string) error {
	if len(args) < 5 || len(args) > 6 {
		return fmt.Errorf("usage: signup <first name> <last name> <email> <phone> <license plate> [password]")
	}

	form := models.SignUpForm{
		FirstName:     args[0],
		LastName:      args[1],
		Email:         args[2],
		PhoneNumber:   args[3],
		LicenseNumber: args[4],
	}
	if len(args) == 6 {
		form.Password = args[5]
	} else {
		password, err := c.promptForPassword("Choose a password: ")
		if err != nil {
			return err
		}
		form.Password = password
	}

	if err := c.validator.ValidateSignUp(form).Err(); err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	if _, err := c.api.SignUp(ctx, form); err != nil {
		return err
	}
	c.printf("Account created for %s. You can log in now.\n", form.Email)
	return nil
}

// handleForgot requests a reset code. The code is kept until reset is run.
func (c *CLI) handleForgot(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: forgot <email>")
	}
	email := args[0]
	if err := c.validator.ValidateEmail(email).Err(); err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	code, err := c.api.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	c.resetCode = code
	c.resetFor = email
	c.printf("A verification code was sent to %s.\n", email)
	return nil
}

func (c *CLI) handleReset(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: reset <email> <code> [new password]")
	}
	email, code := args[0], args[1]
	if c.resetCode == "" || !strings.EqualFold(email, c.resetFor) {
		return apperrors.NewValidationError("Request a verification code first.", "run forgot <email>")
	}
	if code != c.resetCode {
		return apperrors.NewValidationError("The verification code is incorrect.", "")
	}

	var password string
	if len(args) == 3 {
		password = args[2]
	} else {
		var err error
		password, err = c.promptForPassword("New password: ")
		if err != nil {
			return err
		}
	}
	if err := c.validator.ValidateReset(email, password).Err(); err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	if err := c.api.ResetPassword(ctx, email, password); err != nil {
		return err
	}
	c.resetCode, c.resetFor = "", ""
	c.printf("Password updated. You can log in now.\n")
	return nil
}

func (c *CLI) handleDeleteAccount(args []string) error {
	user, err := c.requireUser()
	if err != nil {
		return err
	}
	if c.session.State().IsParked {
		return apperrors.NewValidationError("Stop your parking session before deleting your account.", "")
	}

	ok, err := c.confirm("This permanently deletes your account. Continue?")
	if err != nil {
		return err
	}
	if !ok {
		c.printf("Cancelled.\n")
		return nil
	}

	ctx, cancel := c.context()
	defer cancel()
	if err := c.api.DeleteAccount(ctx, user.ID); err != nil {
		return err
	}
	c.session.LogOut()
	c.selection = nil
	c.printf("Your account has been deleted.\n")
	return nil
}

func (c *CLI) handleWhoAmI(args []string) error {
	user, err := c.requireUser()
	if err != nil {
		return err
	}
	st := c.session.State()
	c.printf("%s <%s>\n", user.FullName(), user.Email)
	if user.LicenseNumber != "" {
		c.printf("License plate: %s\n", user.LicenseNumber)
	}
	if st.IsAdmin {
		c.printf("Role: admin\n")
	}
	if spot := st.ActiveSpot(); spot != 0 {
		c.printf("Active parking: %d\n", spot)
	}
	return nil
}

func (c *CLI) requireUser() (models.User, error) {
	if !c.session.State().IsAuthenticated {
		return models.User{}, apperrors.NewNotAuthenticatedError()
	}
	return c.session.User(), nil
}

func (c *CLI) requireAdmin() (models.User, error) {
	user, err := c.requireUser()
	if err != nil {
		return user, err
	}
	if !c.session.State().IsAdmin {
		return user, apperrors.NewValidationError("This command is only available to parking lot owners.", "")
	}
	return user, nil
}
