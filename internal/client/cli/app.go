package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	// email of the logged-in user, shown in the prompt.
	email string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewTaskKeeperClientService(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		client: apiClient,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if a.isLoggedIn() && a.email != "" {
		return fmt.Sprintf("(%s) ", a.email)
	}
	return ""
}

// Run checks server reachability and then blocks in the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to taskkeeper CLI (type 'help' for commands)")

	if err := a.client.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s at %s\n", err, a.config.ServerEndpointAddr)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

// report prints a command failure. A rejected session is already forgotten
// by the client, so only the prompt state needs resetting.
func (a *App) report(err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		a.email = ""
		fmt.Fprintln(a.out, "Session expired, please log in again")
	case errors.Is(err, client.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first")
	default:
		fmt.Fprintf(a.out, "Error: %s\n", err)
	}
}
