// Package cli is the terminal front-end. It plays the host UI for the session
// screen: it delivers focus events and user actions and renders alerts,
// navigation and the elapsed display.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/common/validation"
	"parkvision-client/internal/livefeed"
	"parkvision-client/internal/models"
	sessiontimer "parkvision-client/internal/screens/session-timer"
	"parkvision-client/internal/session"
	"parkvision-client/internal/timer"
)

// ErrExit is returned by ExecuteCommand when the user asked to quit.
var ErrExit = fmt.Errorf("exit requested: %w", io.EOF)

// API is the part of the Parking Service client the terminal uses.
type API interface {
	Login(ctx context.Context, email, password string) (models.LoginResult, error)
	Logout(ctx context.Context, userID models.UserID) error
	SignUp(ctx context.Context, form models.SignUpForm) (models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	DeleteAccount(ctx context.Context, userID models.UserID) error
	FetchParking(ctx context.Context, lotID models.LotID) (models.ParkingList, error)
	RefreshParking(ctx context.Context, lotID models.LotID) (models.ParkingList, error)
	FetchAllParkingLots(ctx context.Context) ([]models.ParkingLot, error)
	IsOccupied(ctx context.Context, spotID models.SpotID) (bool, error)
	GetUserHistory(ctx context.Context, userID models.UserID) ([]models.HistoryEntry, error)
	FetchOwnerParkingLots(ctx context.Context, ownerID models.UserID) ([]models.ParkingLot, error)
	FetchParkingLotUsers(ctx context.Context, lotID models.LotID) (models.ParkingList, error)
	GetParkingLotHistory(ctx context.Context, lotID models.LotID) ([]models.HistoryEntry, error)
	GetParkingStats(ctx context.Context, adminID models.UserID, req models.StatsRequest) (models.StatsResult, error)
}

// Screen is the session screen controller. Calls go through Deps.Do so they
// run on the controller's event loop.
type Screen interface {
	OnEnter(params *sessiontimer.BookingParams)
	OnExit()
	Start()
	Stop()
	Snapshot() sessiontimer.Snapshot
}

// FeedDialer opens the live camera feed.
type FeedDialer func(ctx context.Context) (*livefeed.Feed, error)

type Deps struct {
	API       API
	Session   *session.Context
	Screen    Screen
	Do        func(func()) bool
	Validator *validation.FormValidator
	DialFeed  FeedDialer
	Clock     timer.Clock
	Logger    logger.Logger
	Out       io.Writer
	Timeout   time.Duration
}

type CLI struct {
	RL *readline.Instance

	api       API
	session   *session.Context
	screen    Screen
	do        func(func()) bool
	validator *validation.FormValidator
	dialFeed  FeedDialer
	clock     timer.Clock
	logger    logger.Logger
	out       io.Writer
	timeout   time.Duration

	readLine     func() (string, error)
	readPassword func(prompt string) (string, error)

	onScreen  atomic.Bool
	selection *selection
	resetCode string
	resetFor  string
}

type selection struct {
	lot  models.LotID
	spot models.SpotID
}

func NewCLI(rl *readline.Instance, deps Deps) *CLI {
	c := &CLI{
		RL:        rl,
		api:       deps.API,
		session:   deps.Session,
		screen:    deps.Screen,
		do:        deps.Do,
		validator: deps.Validator,
		dialFeed:  deps.DialFeed,
		clock:     deps.Clock,
		logger:    deps.Logger,
		out:       deps.Out,
		timeout:   deps.Timeout,
	}
	if c.do == nil {
		c.do = func(fn func()) bool { fn(); return true }
	}
	if c.clock == nil {
		c.clock = timer.SystemClock{}
	}
	if c.logger == nil {
		c.logger = logger.NewNoOpLogger()
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.out == nil {
		if rl != nil {
			c.out = rl.Stdout()
		} else {
			c.out = os.Stdout
		}
	}
	if rl != nil {
		c.readLine = rl.Readline
		c.readPassword = func(prompt string) (string, error) {
			b, err := rl.ReadPassword(prompt)
			return string(b), err
		}
	}
	return c
}

// Run reads and executes one line.
func (c *CLI) Run() error {
	line, err := c.readLine()
	if err == readline.ErrInterrupt {
		return err
	} else if err == io.EOF {
		return err
	} else if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	args := c.ParseArgs(line)
	return c.ExecuteCommand(args)
}

// ParseArgs splits on spaces; double quotes group words.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 {
					args = append(args, currentArg.String())
					currentArg.Reset()
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 {
		args = append(args, currentArg.String())
	}

	return args
}

func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "login":
		return c.handleLogin(args[1:])
	case "logout":
		return c.handleLogout(args[1:])
	case "signup":
		return c.handleSignUp(args[1:])
	case "forgot":
		return c.handleForgot(args[1:])
	case "reset":
		return c.handleReset(args[1:])
	case "delete-account":
		return c.handleDeleteAccount(args[1:])
	case "whoami":
		return c.handleWhoAmI(args[1:])
	case "lots":
		return c.handleLots(args[1:])
	case "spots":
		return c.handleSpots(args[1:])
	case "select":
		return c.handleSelect(args[1:])
	case "book":
		return c.handleBook(args[1:])
	case "enter":
		return c.handleEnter(args[1:])
	case "leave":
		return c.handleLeave(args[1:])
	case "start":
		return c.handleStart(args[1:])
	case "stop":
		return c.handleStop(args[1:])
	case "status":
		return c.handleStatus(args[1:])
	case "occupied":
		return c.handleOccupied(args[1:])
	case "history":
		return c.handleHistory(args[1:])
	case "mylots":
		return c.handleMyLots(args[1:])
	case "lotusers":
		return c.handleLotUsers(args[1:])
	case "lothistory":
		return c.handleLotHistory(args[1:])
	case "stats":
		return c.handleStats(args[1:])
	case "live":
		return c.handleLive(args[1:])
	case "help":
		return c.handleHelp(args[1:])
	case "exit", "quit":
		fmt.Fprintln(c.out, "Exiting...")
		if c.RL != nil {
			if err := c.RL.Close(); err != nil {
				fmt.Fprintf(c.out, "Error closing readline: %v\n", err)
			}
		}
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// FormatError renders err the way the user should see it.
func FormatError(err error) string {
	stdErr := apperrors.AsStandard(err, err.Error())
	if stdErr.Code == apperrors.ErrCodeValidationFailed && stdErr.Details != "" && stdErr.Details != stdErr.Message {
		return fmt.Sprintf("%s (%s)", stdErr.Message, stdErr.Details)
	}
	return stdErr.Message
}

func (c *CLI) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *CLI) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *CLI) promptForInput(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	input, err := c.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (c *CLI) promptForPassword(prompt string) (string, error) {
	if c.readPassword == nil {
		return c.promptForInput(prompt)
	}
	return c.readPassword(prompt)
}

func (c *CLI) confirm(prompt string) (bool, error) {
	answer, err := c.promptForInput(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
