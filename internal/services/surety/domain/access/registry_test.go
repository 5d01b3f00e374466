package access

import (
	"testing"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

func TestRegisterCommandsAndEvents(t *testing.T) {
	commands := command.NewRegistry()
	if err := RegisterCommands(commands); err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(commands.Types()) != 3 {
		t.Fatalf("command types = %v", commands.Types())
	}
	events := event.NewRegistry()
	if err := RegisterEvents(events); err != nil {
		t.Fatalf("register events: %v", err)
	}
	if len(events.Types()) != 4 {
		t.Fatalf("event types = %v", events.Types())
	}
	if err := RegisterCommands(nil); err == nil {
		t.Fatal("expected error for nil registry")
	}
}
