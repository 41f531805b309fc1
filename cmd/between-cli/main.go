package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/view"
	"github.com/roiro0607-create/Between/pkg/client"
)

// Terminal front-end for a running Between server. It drives the same view
// router the web client uses; the server URL comes from BETWEEN_SERVER_URL
// and a saved session token from BETWEEN_TOKEN.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	serverURL := os.Getenv("BETWEEN_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	api := client.New(serverURL, logger)
	router := view.NewRouter(api, logger)

	// Query-style side input: "between-cli event=<id>" deep-links into the
	// apply view, mirroring the web client's ?event=<id> parameter.
	query := url.Values{}
	if len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "event=") {
		query.Set("event", strings.TrimPrefix(os.Args[1], "event="))
	}

	ctx := context.Background()
	if err := router.Start(ctx, query, os.Getenv("BETWEEN_TOKEN")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to reach server:", err)
		os.Exit(1)
	}

	fmt.Println("between — type 'help' for commands")
	render(router)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "home":
			report(router.GoHome(ctx))
		case "open":
			if len(args) < 2 {
				fmt.Println("usage: open <event-id>")
				continue
			}
			report(router.OpenEvent(ctx, args[1]))
		case "create":
			// create <max-participants> <title...>
			if len(args) < 3 {
				fmt.Println("usage: create <max-participants> <title>")
				continue
			}
			maxP, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("max-participants must be a number")
				continue
			}
			title := strings.Join(args[2:], " ")
			_, err = router.CreateEvent(ctx, &models.CreateEventRequest{
				Title:           title,
				Description:     title,
				MaxParticipants: maxP,
			})
			report(err)
		case "apply":
			if len(args) < 4 {
				fmt.Println("usage: apply <event-id> <name> <contact>")
				continue
			}
			if err := router.GoApply(ctx, args[1]); err != nil {
				report(err)
				continue
			}
			_, err := router.Apply(ctx, &models.CreateApplicationRequest{
				EventID: args[1],
				Name:    args[2],
				Contact: args[3],
			})
			report(err)
		case "select":
			if len(args) < 2 {
				fmt.Println("usage: select <application-id>")
				continue
			}
			report(router.SelectApplicant(ctx, args[1]))
		case "login":
			if len(args) < 3 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			if err := router.Login(ctx, args[1], args[2]); err != nil {
				report(err)
				continue
			}
			fmt.Println("logged in; export BETWEEN_TOKEN to keep the session:")
			fmt.Println("  " + router.Session().Token)
		case "register":
			if len(args) < 5 {
				fmt.Println("usage: register <email> <password> <name> <age>")
				continue
			}
			age, err := strconv.Atoi(args[4])
			if err != nil {
				fmt.Println("age must be a number")
				continue
			}
			report(router.Register(ctx, args[1], args[2], args[3], age))
		case "profile":
			router.GoProfile()
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; type 'help'")
			continue
		}

		render(router)
	}
}

func render(r *view.Router) {
	switch r.View() {
	case view.ViewHome:
		events := r.Events()
		fmt.Printf("[home] %d events\n", len(events))
		for _, e := range events {
			fmt.Printf("  %s  %-10s %s (%s)\n", e.ID, e.Status, e.Title, capacityLabel(&e))
		}
	case view.ViewEventDetail:
		e := r.CurrentEvent()
		if e == nil {
			return
		}
		fmt.Printf("[event] %s — %s, %d/%s selected\n", e.ID, e.Title, len(e.SelectedApplicants), capacityLabel(e))
		for _, a := range r.Applications() {
			fmt.Printf("  %s  %-8s %s\n", a.ID, a.Status, a.Name)
		}
	case view.ViewApply:
		if e := r.CurrentEvent(); e != nil {
			fmt.Printf("[apply] applying to %s — %s\n", e.ID, e.Title)
		}
	case view.ViewApplicationSuccess:
		fmt.Println("[done] application submitted")
	case view.ViewProfile:
		if u := r.Session().User; u != nil {
			fmt.Printf("[profile] %s <%s>, age %d\n", u.Name, u.Email, u.Age)
		}
	case view.ViewLogin:
		fmt.Println("[login] use: login <email> <password>")
	case view.ViewRegister:
		fmt.Println("[register] use: register <email> <password> <name> <age>")
	}
}

func capacityLabel(e *models.Event) string {
	if e.MaxParticipants == models.UncappedParticipants {
		return "21+"
	}
	return strconv.Itoa(e.MaxParticipants)
}

func report(err error) {
	if err != nil {
		fmt.Println("error:", err)
	}
}

func printHelp() {
	fmt.Println(`commands:
  home                                  show the event list
  open <event-id>                       open an event with its applications
  create <max-participants> <title>     post a new event
  apply <event-id> <name> <contact>     apply to an event
  select <application-id>               select an applicant (event must be open)
  login <email> <password>              log in
  register <email> <password> <name> <age>
  profile                               show the signed-in user
  quit`)
}
