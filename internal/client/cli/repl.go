package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"
)

type command struct {
	usage string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":  {usage: "register", run: a.Register},
		"login":     {usage: "login", run: a.Login},
		"logout":    {usage: "logout", auth: true, run: a.Logout},
		"dashboard": {usage: "dashboard", auth: true, run: a.Dashboard},
		"list":      {usage: "list [archived]", auth: true, run: a.List},
		"new":       {usage: "new", auth: true, run: a.New},
		"open":      {usage: "open <id>", auth: true, run: a.Open},
		"event":     {usage: "event", auth: true, run: a.EditEvent},
		"show":      {usage: "show", auth: true, run: a.Show},
		"add":       {usage: "add", auth: true, run: a.AddRow},
		"set":       {usage: "set <row> <appele|appelant|heure|communication> <value>", auth: true, run: a.Set},
		"del":       {usage: "del <row>", auth: true, run: a.DeleteRow},
		"sort":      {usage: "sort <column>", auth: true, run: a.Sort},
		"save":      {usage: "save", auth: true, run: a.Save},
		"archive":   {usage: "archive", auth: true, run: a.Archive},
		"callsign":  {usage: "callsign [add|rm <label>]", auth: true, run: a.CallSign},
		"export":    {usage: "export [dir]", auth: true, run: a.Export},
	}
}

func (a *App) status() string {
	s := string(a.Mode())
	if a.user != nil {
		s = a.user.Email + " " + s
	}
	if id := a.editor.ID(); id != 0 {
		s += " #" + itoa(id)
	}
	return "(" + s + ")"
}

// runREPL reads one command per line and dispatches it. Handler errors are
// printed and the loop goes on. It returns on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a *App) {
	cmds := a.commands()

	for {
		a.printf("cahier %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		cmd, args := splitCommand(line)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			a.help(cmds)
			continue
		case "exit", "quit":
			a.printf("Bye!\n")
			return
		}

		c, ok := cmds[cmd]
		if !ok {
			a.printf("Unknown command: %s\n", cmd)
			continue
		}
		if c.auth && !a.isLoggedIn() {
			a.printf("Please login first\n")
			continue
		}
		if err := c.run(ctx, args); err != nil {
			a.printf("%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
		}
	}
}

func (a *App) help(cmds map[string]command) {
	var names []string
	for _, name := range []string{"register", "login", "dashboard", "list", "new", "open", "event", "show",
		"add", "set", "del", "sort", "save", "archive", "callsign", "export", "logout"} {
		if cmds[name].auth == a.isLoggedIn() {
			names = append(names, cmds[name].usage)
		}
	}
	names = append(names, "exit")
	a.printf("Available commands:\n  %s\n", strings.Join(names, "\n  "))
}

// splitCommand returns the first word and the rest. "set" keeps its value
// argument whole so communications may contain spaces.
func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	if fields[0] == "set" && len(fields) > 3 {
		rest := strings.TrimSpace(line)
		for i := 0; i < 3; i++ {
			rest = strings.TrimSpace(rest[len(strings.Fields(rest)[0]):])
		}
		return "set", []string{fields[1], fields[2], rest}
	}
	return fields[0], fields[1:]
}
