package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calendargpt/calendargpt/internal/chat"
	"github.com/calendargpt/calendargpt/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

func main() {
	serverURL := flag.String("server", "http://localhost:5001", "CalendarGPT server URL")
	userFlag := flag.String("user", "", "user ID (defaults to the stored sign-in)")
	flag.Parse()

	userID := *userFlag
	if userID == "" {
		stored, err := chat.LoadUserID()
		if err != nil {
			fmt.Println(errorStyle.Render("No signed-in user. Pass -user or sign in first."))
			os.Exit(1)
		}
		userID = stored
	} else {
		if err := chat.SaveUserID(userID); err != nil {
			fmt.Println(hintStyle.Render("warning: could not save user id: " + err.Error()))
		}
	}

	backend := chat.NewHTTPBackend(*serverURL)
	auth := chat.NewKeyringAuth(backend)
	controller := chat.NewController(backend, auth, userID, chat.Options{})

	ctx := context.Background()

	fmt.Println(titleStyle.Render("CalendarGPT"))
	fmt.Println(hintStyle.Render("Commands: /file <path> [note], /logout, /quit"))
	fmt.Println()

	if err := controller.Init(ctx); err != nil {
		fmt.Println(errorStyle.Render("init failed: " + err.Error()))
	}
	printNew(controller.Messages(), 0)
	shown := len(controller.Messages())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case line == "/logout":
			controller.Logout(ctx)
			fmt.Println(hintStyle.Render("Signed out."))
			return
		case strings.HasPrefix(line, "/file "):
			args := strings.SplitN(strings.TrimSpace(strings.TrimPrefix(line, "/file ")), " ", 2)
			note := ""
			if len(args) > 1 {
				note = args[1]
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Println(errorStyle.Render("read file: " + err.Error()))
				continue
			}
			if err := controller.SubmitFile(ctx, filepath.Base(args[0]), data, note); err != nil {
				printSubmitError(err)
			}
		case line == "":
			continue
		default:
			if err := controller.SubmitText(ctx, line); err != nil {
				printSubmitError(err)
			}
		}

		printNew(controller.Messages(), shown)
		shown = len(controller.Messages())
	}
}

func printSubmitError(err error) {
	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		fmt.Println(hintStyle.Render("Still working on the previous message."))
	case errors.Is(err, domain.ErrEmptyMessage):
		// nothing to do
	default:
		fmt.Println(errorStyle.Render(err.Error()))
	}
}

func printNew(messages []domain.ChatMessage, from int) {
	for _, m := range messages[from:] {
		label := assistantStyle.Render("CalendarGPT")
		if m.IsFromUser {
			label = userStyle.Render("You")
		}
		fmt.Printf("%s  %s\n", label, hintStyle.Render(m.Timestamp.Format("3:04 PM")))
		fmt.Println(m.Content)
		fmt.Println()
	}
}
