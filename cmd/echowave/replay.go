package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/playback"
	"github.com/anaailiesei/EchoWave/internal/revenue"
	"github.com/anaailiesei/EchoWave/internal/session"
)

// Command is one timestamped instruction from the input file.
type Command struct {
	Command   string `json:"command"`
	Username  string `json:"username,omitempty"`
	Timestamp int    `json:"timestamp"`
	Source    string `json:"source,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Price     int    `json:"price,omitempty"`
}

// Result is the outcome of one command, mirroring the input shape so runs
// can be diffed against expectations.
type Result struct {
	Command   string                `json:"command"`
	User      string                `json:"user,omitempty"`
	Timestamp int                   `json:"timestamp"`
	Message   string                `json:"message,omitempty"`
	Status    *playback.Status      `json:"stats,omitempty"`
	Wrapped   *session.Wrapped      `json:"result,omitempty"`
	Report    []revenue.OwnerReport `json:"report,omitempty"`
}

// LoadCommands decodes the JSON command array at path.
func LoadCommands(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands: %w", err)
	}
	var commands []Command
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to parse commands: %w", err)
	}
	return commands, nil
}

// Replay runs the commands in order against the manager, advancing the
// clock once per command. The run is always finalized, either by an
// explicit endProgram command or implicitly after the last command.
func Replay(m *session.Manager, commands []Command, log *logrus.Logger) []Result {
	results := make([]Result, 0, len(commands))
	finalized := false

	for _, cmd := range commands {
		result := Result{Command: cmd.Command, User: cmd.Username, Timestamp: cmd.Timestamp}

		if _, err := m.Advance(cmd.Timestamp); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"command":   cmd.Command,
				"timestamp": cmd.Timestamp,
			}).Error("Rejected command")
			result.Message = err.Error()
			results = append(results, result)
			continue
		}

		switch cmd.Command {
		case "endProgram":
			result.Report = m.EndProgram()
			finalized = true
		default:
			dispatch(m.Session(cmd.Username), cmd, &result)
		}

		log.WithFields(logrus.Fields{
			"command":   cmd.Command,
			"user":      cmd.Username,
			"timestamp": cmd.Timestamp,
			"message":   result.Message,
		}).Debug("Command executed")
		results = append(results, result)
	}

	if !finalized {
		results = append(results, Result{Command: "endProgram", Report: m.EndProgram()})
	}
	return results
}

// dispatch routes a per-listener command to its session operation.
func dispatch(s *session.Session, cmd Command, result *Result) {
	switch cmd.Command {
	case "load":
		result.Message = s.Load(cmd.Source)
	case "playPause":
		result.Message = s.PlayPause()
	case "status":
		status := s.Status()
		result.Status = &status
	case "repeat":
		result.Message = s.CycleRepeat()
	case "shuffle":
		result.Message = s.Shuffle(cmd.Seed)
	case "next":
		result.Message = s.Next()
	case "prev":
		result.Message = s.Prev()
	case "forward":
		result.Message = s.Forward()
	case "backward":
		result.Message = s.Backward()
	case "adBreak":
		result.Message = s.InsertAd(cmd.Price)
	case "buyPremium":
		result.Message = s.Subscribe()
	case "cancelPremium":
		result.Message = s.CancelPremium()
	case "wrapped":
		wrapped, err := s.WrappedReport()
		if err != nil {
			result.Message = fmt.Sprintf("No data to show for user %s.", cmd.Username)
			return
		}
		result.Wrapped = &wrapped
	default:
		result.Message = fmt.Sprintf("Unknown command %s.", cmd.Command)
	}
}
