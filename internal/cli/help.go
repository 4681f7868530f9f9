package cli

import (
	"sort"
)

func (c *CLI) handleHelp(args []string) error {
	if len(args) == 0 {
		c.printHelp("")
		return nil
	}
	c.printHelp(args[0])
	return nil
}

func (c *CLI) printHelp(command string) {
	if command == "" {
		c.printf("Available commands:\n")
		names := make([]string, 0, len(commandHelp))
		for cmd := range commandHelp {
			names = append(names, cmd)
		}
		sort.Strings(names)
		for _, cmd := range names {
			c.printf("  %s\n", cmd)
		}
		c.printf("\nUse 'help <command>' for more information about a specific command.\n")
	} else if help, ok := commandHelp[command]; ok {
		c.printf("%s\n", help)
	} else {
		c.printf("Unknown command: %s\n", command)
	}
}

// commandHelp contains help text for each command.
var commandHelp = map[string]string{
	"login": `Syntax: login [<email> [password]]
Description: Logs in. Missing values are prompted for; the password is not echoed.
Example: login dana@example.com`,

	"logout": `Syntax: logout
Description: Logs out. Any local parking state is cleared.`,

	"signup": `Syntax: signup <first name> <last name> <email> <phone> <license plate> [password]
Description: Creates an account. The phone number has 10 digits starting with 0; the plate has 7 or 8 digits.
Example: signup Dana Levi dana@example.com 0521234567 1234567`,

	"forgot": `Syntax: forgot <email>
Description: Sends a verification code for a password reset.`,

	"reset": `Syntax: reset <email> <code> [new password]
Description: Sets a new password using the code sent by 'forgot'.`,

	"delete-account": `Syntax: delete-account
Description: Permanently deletes the logged in account after confirmation.`,

	"whoami": `Syntax: whoami
Description: Shows the logged in user and any active parking.`,

	"lots": `Syntax: lots
Description: Lists all parking lots. Leaves the session screen.`,

	"spots": `Syntax: spots <lot id>
Description: Lists the spots of a lot with their status. Leaves the session screen.`,

	"select": `Syntax: select <lot id> <spot id>
Description: Picks a spot to book. Occupied and saved spots are refused.
Example: select 2 14`,

	"book": `Syntax: book <immediate|half|hour>
Description: Books the selected spot and opens the session screen. 'half' and 'hour' hold the spot
until the estimated arrival time; the reservation is released automatically if the timer is not started by then.
Example: book half`,

	"enter": `Syntax: enter
Description: Opens the session screen without booking. Without an active parking you are sent back to the lots.`,

	"leave": `Syntax: leave
Description: Closes the session screen. An active parking keeps running.`,

	"start": `Syntax: start
Description: Starts the parking timer for the booked spot.`,

	"stop": `Syntax: stop
Description: Ends the parking session and releases the spot.`,

	"status": `Syntax: status
Description: Shows the session state, elapsed time and arrival deadline.`,

	"occupied": `Syntax: occupied <spot id>
Description: Asks the server whether a spot is occupied right now.`,

	"history": `Syntax: history
Description: Lists your past parking sessions.`,

	"mylots": `Syntax: mylots
Description: Lists the lots you own. Owners only.`,

	"lotusers": `Syntax: lotusers <lot id>
Description: Lists spots with the drivers parked in them. Owners only.`,

	"lothistory": `Syntax: lothistory <lot id>
Description: Lists parking sessions in a lot. Owners only.`,

	"stats": `Syntax: stats <lot id> <month> <year>
Description: Emails the monthly occupancy report for a lot. Owners only.
Example: stats 2 4 2024`,

	"live": `Syntax: live [seconds]
Description: Reads the lot camera feed for a number of seconds (default 10). Owners only.`,

	"help": `Syntax: help [command]
Description: Shows the command list or help for one command.`,

	"exit": `Syntax: exit
Description: Exits the program.`,
}
