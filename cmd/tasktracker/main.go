package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julimigwi/Task-Tracker/internal/client/api"
	"github.com/julimigwi/Task-Tracker/internal/client/guard"
	"github.com/julimigwi/Task-Tracker/internal/client/notify"
	"github.com/julimigwi/Task-Tracker/internal/client/session"
	"github.com/julimigwi/Task-Tracker/internal/client/tasks"
	"github.com/julimigwi/Task-Tracker/internal/config"
	"github.com/julimigwi/Task-Tracker/internal/logger"
	"github.com/julimigwi/Task-Tracker/internal/models"
)

var (
	version   string
	buildDate string
)

// shell holds everything the interactive loop needs.
type shell struct {
	store      *session.Store
	gate       *guard.Guard
	backend    *api.Client
	dispatcher *notify.Dispatcher
	scanner    *bufio.Scanner

	// syncLayer exists only while a session is active; the view owns
	// its collection for its lifetime and is rebuilt on login.
	syncLayer *tasks.Sync
}

func (sh *shell) prompt(label string) string {
	fmt.Print(label)
	if !sh.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(sh.scanner.Text())
}

// tasksView gates access to the task view and returns the sync layer,
// or nil when access was denied.
func (sh *shell) tasksView(ctx context.Context) *tasks.Sync {
	switch sh.gate.Check("tasks") {
	case guard.Pending:
		fmt.Println("Checking session...")
		return nil
	case guard.RedirectToLogin:
		fmt.Println("Please log in first ('login').")
		return nil
	}

	if sh.syncLayer == nil {
		sh.syncLayer = tasks.NewSync(sh.backend, *sh.store.User(), sh.dispatcher)
		if err := sh.syncLayer.List(ctx); err != nil {
			fmt.Println("Failed to load tasks:", err)
			fmt.Println("Run 'list' to retry.")
		}
	}
	return sh.syncLayer
}

func (sh *shell) doRegister(ctx context.Context) {
	name := sh.prompt("Name: ")
	email := sh.prompt("Email: ")
	password := sh.prompt("Password: ")
	if name == "" || email == "" || password == "" {
		fmt.Println("Name, email and password are required.")
		return
	}

	user, err := sh.backend.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Printf("Registered %s. You can log in now.\n", user.Email)
}

func (sh *shell) doLogin(ctx context.Context) {
	email := sh.prompt("Email: ")
	password := sh.prompt("Password: ")

	user, token, err := sh.backend.Login(ctx, email, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	if err := sh.store.Login(user, token); err != nil {
		fmt.Println("Could not persist session:", err)
		return
	}
	fmt.Printf("Welcome, %s\n", user.Name)

	// Return to where the guard bounced the user from.
	if from := sh.gate.ReturnTo(); from == "tasks" {
		if s := sh.tasksView(ctx); s != nil {
			printTasks(tasks.View(s.Tasks(), tasks.TabAll, "", ""))
		}
	}
}

func (sh *shell) doLogout() {
	if sh.syncLayer != nil {
		sh.syncLayer.Invalidate()
		sh.syncLayer = nil
	}
	sh.store.Logout(func() {
		fmt.Println("Logged out.")
	})
}

func (sh *shell) doList(ctx context.Context, args []string) {
	s := sh.tasksView(ctx)
	if s == nil {
		return
	}
	if err := s.List(ctx); err != nil {
		fmt.Println("Failed to load tasks:", err)
		fmt.Println("Run 'list' to retry.")
		return
	}

	tab := tasks.TabAll
	var query string
	var key tasks.SortKey
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "all", "pending", "completed":
			tab = tasks.Tab(arg)
		case "sort":
			if i+1 < len(args) {
				i++
				switch args[i] {
				case "due":
					key = tasks.SortByDueDate
				case "priority":
					key = tasks.SortByPriority
				case "title":
					key = tasks.SortByTitle
				default:
					fmt.Println("Usage: list [all|pending|completed] [sort due|priority|title] [search text]")
					return
				}
			}
		case "search":
			query = strings.Join(args[i+1:], " ")
			i = len(args)
		default:
			fmt.Println("Usage: list [all|pending|completed] [sort due|priority|title] [search text]")
			return
		}
	}

	printTasks(tasks.View(s.Tasks(), tab, query, key))
}

func (sh *shell) doAdd(ctx context.Context) {
	s := sh.tasksView(ctx)
	if s == nil {
		return
	}

	draft := tasks.Draft{
		Title:       sh.prompt("Title: "),
		Description: sh.prompt("Description (optional): "),
	}
	if due := sh.prompt("Due date YYYY-MM-DD (optional): "); due != "" {
		parsed, err := time.Parse("2006-01-02", due)
		if err != nil {
			fmt.Println("Invalid date:", err)
			return
		}
		// Due "today" means end of day, not midnight already past.
		parsed = parsed.Add(24*time.Hour - time.Second)
		draft.DueDate = &parsed
	}
	if p := sh.prompt("Priority low/medium/high (default medium): "); p != "" {
		draft.Priority = models.Priority(p)
	}

	created, err := s.Create(ctx, draft)
	if err != nil {
		fmt.Println("Failed to create task:", err)
		return
	}
	fmt.Printf("Created task %s\n", created.ID)
}

func (sh *shell) doDone(ctx context.Context, id string) {
	s := sh.tasksView(ctx)
	if s == nil {
		return
	}
	for _, t := range s.Tasks() {
		if t.ID == id {
			updated, err := s.ToggleComplete(ctx, t)
			if err != nil {
				fmt.Println("Failed to update task:", err)
				return
			}
			state := "pending"
			if updated.Completed {
				state = "completed"
			}
			fmt.Printf("Task %s is now %s\n", updated.ID, state)
			return
		}
	}
	fmt.Println("Task not found")
}

func (sh *shell) doEdit(ctx context.Context, id string) {
	s := sh.tasksView(ctx)
	if s == nil {
		return
	}

	var patch tasks.Patch
	if title := sh.prompt("New title (blank keeps current): "); title != "" {
		patch.Title = &title
	}
	if desc := sh.prompt("New description (blank keeps current): "); desc != "" {
		patch.Description = &desc
	}
	if p := sh.prompt("New priority (blank keeps current): "); p != "" {
		prio := models.Priority(p)
		patch.Priority = &prio
	}

	updated, err := s.Update(ctx, id, patch)
	if err != nil {
		fmt.Println("Failed to update task:", err)
		return
	}
	fmt.Printf("Updated task %s\n", updated.ID)
}

func (sh *shell) doRemove(ctx context.Context, id string) {
	s := sh.tasksView(ctx)
	if s == nil {
		return
	}

	answer := sh.prompt(fmt.Sprintf("Delete task %s? This cannot be undone. [y/N]: ", id))
	confirmed := answer == "y" || answer == "yes"

	if err := s.Delete(ctx, id, confirmed); err != nil {
		if err == tasks.ErrNotConfirmed {
			fmt.Println("Delete cancelled.")
			return
		}
		fmt.Println("Failed to delete task:", err)
		return
	}
	fmt.Println("Task deleted")
}

func printTasks(list []models.Task) {
	if len(list) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range list {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", mark, t.ID, t.Title)
		if t.Priority != "" {
			line += "  (" + string(t.Priority) + ")"
		}
		if t.DueDate != nil {
			line += "  due " + t.DueDate.Format("2006-01-02")
		}
		fmt.Println(line)
	}
}

// repl runs the interactive loop, accepting commands to manage tasks.
func (sh *shell) repl(ctx context.Context) {
	for {
		fmt.Print("tasktracker> ")
		if !sh.scanner.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(sh.scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, register, login, logout, whoami, list, add, done <id>, edit <id>, rm <id>, exit")
		case "register":
			sh.doRegister(ctx)
		case "login":
			sh.doLogin(ctx)
		case "logout":
			sh.doLogout()
		case "whoami":
			if u := sh.store.User(); u != nil {
				fmt.Printf("%s <%s>\n", u.Name, u.Email)
			} else {
				fmt.Println("Not logged in.")
			}
		case "list":
			sh.doList(ctx, args[1:])
		case "add":
			sh.doAdd(ctx)
		case "done":
			if len(args) < 2 {
				fmt.Println("Usage: done <id>")
				continue
			}
			sh.doDone(ctx, args[1])
		case "edit":
			if len(args) < 2 {
				fmt.Println("Usage: edit <id>")
				continue
			}
			sh.doEdit(ctx, args[1])
		case "rm":
			if len(args) < 2 {
				fmt.Println("Usage: rm <id>")
				continue
			}
			sh.doRemove(ctx, args[1])
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main wires the session store, guard, API clients and dispatcher,
// restores any persisted session and starts the shell.
func main() {
	options := config.Parse()

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Warn"); err != nil {
		fmt.Println("failed to init logger:", err)
		os.Exit(1)
	}

	stateDir := options.StateDir
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		stateDir = filepath.Join(base, "tasktracker")
	}

	store := session.NewStore(stateDir)
	store.Restore()

	backend := api.New(options.APIBaseURL, store.Token)
	relay := api.New(options.NotifyBaseURL, store.Token)

	sh := &shell{
		store:      store,
		gate:       guard.New(store),
		backend:    backend,
		dispatcher: notify.NewDispatcher(relay, log.Log),
		scanner:    bufio.NewScanner(os.Stdin),
	}

	if version != "" {
		fmt.Printf("TaskTracker %s (%s)\n", version, buildDate)
	}
	if store.IsAuthenticated() {
		fmt.Printf("Welcome back, %s\n", store.User().Name)
	}

	sh.repl(context.Background())
}
