// Package interrupt lets plugins talk to the user while a command runs.
// Interactions go through the userInterruptions chains one at a time, so
// prompts from concurrent handlers never interleave.
package interrupt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/ui"
)

// Manager serializes user interruptions.
type Manager struct {
	hooks *hook.Manager
	ui    *ui.UI
	in    io.Reader

	mu     sync.Mutex
	reader *bufio.Reader
}

// NewManager creates a Manager that prints through u and reads answers
// from in.
func NewManager(hooks *hook.Manager, u *ui.UI, in io.Reader) *Manager {
	return &Manager{
		hooks:  hooks,
		ui:     u,
		in:     in,
		reader: bufio.NewReader(in),
	}
}

// DisplayMessage shows message on behalf of interruptor.
func (m *Manager) DisplayMessage(ctx context.Context, interruptor, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := catalog.MessageArgs{Interruptor: interruptor, Message: message}
	_, err := hook.RunChain(ctx, m.hooks, catalog.DisplayMessage, args, m.displayMessage)
	return err
}

// RequestInput asks the user for a line of input.
func (m *Manager) RequestInput(ctx context.Context, interruptor, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := catalog.InputArgs{Interruptor: interruptor, Description: description}
	return hook.RunChain(ctx, m.hooks, catalog.RequestInput, args, m.requestInput)
}

// RequestSecretInput asks the user for input that is not echoed when the
// input is a terminal.
func (m *Manager) RequestSecretInput(ctx context.Context, interruptor, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := catalog.InputArgs{Interruptor: interruptor, Description: description}
	return hook.RunChain(ctx, m.hooks, catalog.RequestSecretInput, args, m.requestSecretInput)
}

func (m *Manager) displayMessage(_ context.Context, args catalog.MessageArgs) (struct{}, error) {
	m.ui.StartFrame(args.Interruptor)
	m.ui.Println(args.Message)
	m.ui.EndFrame()
	return struct{}{}, nil
}

func (m *Manager) requestInput(_ context.Context, args catalog.InputArgs) (string, error) {
	m.ui.Prompt(label(args))
	return m.readLine()
}

func (m *Manager) requestSecretInput(_ context.Context, args catalog.InputArgs) (string, error) {
	m.ui.Prompt(label(args))
	if f, ok := m.in.(*os.File); ok && ui.IsTerminal(f) {
		secret, err := term.ReadPassword(f.Fd())
		m.ui.Println("")
		if err != nil {
			return "", fmt.Errorf("reading secret input: %w", err)
		}
		return string(secret), nil
	}
	return m.readLine()
}

func (m *Manager) readLine() (string, error) {
	line, err := m.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func label(args catalog.InputArgs) string {
	if args.Interruptor == "" {
		return args.Description
	}
	return "[" + args.Interruptor + "] " + args.Description
}
