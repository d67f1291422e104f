package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/app"
)

// appContainer is the wired application, set by main before Execute.
var appContainer *app.Container

// SetApp installs the application container used by the commands.
func SetApp(c *app.Container) {
	appContainer = c
}

// GetApp returns the current container, or nil when initialization failed.
func GetApp() *app.Container {
	return appContainer
}

func requireApp() (*app.Container, error) {
	if appContainer == nil {
		return nil, fmt.Errorf("application not initialized, database connection required")
	}
	return appContainer, nil
}

// currentUserID resolves the acting user from --user or MONKMODE_USER_ID.
func currentUserID() (uuid.UUID, error) {
	value := userFlag
	if value == "" {
		value = os.Getenv("MONKMODE_USER_ID")
	}
	if value == "" {
		return uuid.Nil, fmt.Errorf("no user ID given, pass --user or set MONKMODE_USER_ID")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID %q: %w", value, err)
	}
	return id, nil
}
