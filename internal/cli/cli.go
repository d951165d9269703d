package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/matheustorresii/tour-of-heroes/internal/heroes"
	"github.com/matheustorresii/tour-of-heroes/internal/heroservice"
	"github.com/matheustorresii/tour-of-heroes/internal/message"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// ErrExit is returned by ExecuteCommand when the user asks to quit.
var ErrExit = errors.New("exit requested")

// Gateway is the slice of the hero service the CLI drives.
type Gateway interface {
	heroes.Lister
	GetHero(ctx context.Context, id int) heroservice.Result[models.Hero]
	AddHero(ctx context.Context, hero models.Hero) heroservice.Result[models.Hero]
	UpdateHero(ctx context.Context, hero models.Hero) heroservice.Result[heroservice.Ack]
	DeleteHero(ctx context.Context, ref heroservice.HeroRef) heroservice.Result[heroservice.Ack]
	SearchHeroes(ctx context.Context, term string) heroservice.Result[[]models.Hero]
}

// WatchFunc streams change events to fn until ctx ends.
type WatchFunc func(ctx context.Context, fn func(models.HeroEvent)) error

type CLI struct {
	RL        *readline.Instance
	svc       Gateway
	presenter *heroes.Presenter
	messages  *message.Service
	watch     WatchFunc

	outMu       sync.Mutex
	out         io.Writer
	stopWatch   context.CancelFunc
	watchDoneCh chan struct{}
}

func NewCLI(svc Gateway, presenter *heroes.Presenter, messages *message.Service, out io.Writer) *CLI {
	return &CLI{
		svc:       svc,
		presenter: presenter,
		messages:  messages,
		out:       out,
	}
}

// SetWatcher enables the watch command.
func (c *CLI) SetWatcher(w WatchFunc) {
	c.watch = w
}

func (c *CLI) Run(ctx context.Context) error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	return c.ExecuteCommand(ctx, c.ParseArgs(line))
}

// ParseArgs splits input on spaces, keeping double-quoted runs together.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 {
					args = append(args, currentArg.String())
					currentArg.Reset()
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}
	if currentArg.Len() > 0 {
		args = append(args, currentArg.String())
	}
	return args
}

func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, rest := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "list", "ls":
		return c.handleList(ctx)
	case "select":
		return c.handleSelect(rest)
	case "show":
		return c.handleShow()
	case "get":
		return c.handleGet(ctx, rest)
	case "add":
		return c.handleAdd(ctx, rest)
	case "rename":
		return c.handleRename(ctx, rest)
	case "delete", "rm":
		return c.handleDelete(ctx, rest)
	case "search":
		return c.handleSearch(ctx, rest)
	case "messages":
		for _, m := range c.messages.Messages() {
			c.printf("%s\n", m)
		}
		return nil
	case "clear":
		c.messages.Clear()
		return nil
	case "watch":
		return c.handleWatch(ctx)
	case "unwatch":
		c.StopWatch()
		return nil
	case "help":
		c.printf("%s", helpText)
		return nil
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", args[0])
	}
}

func (c *CLI) handleList(ctx context.Context) error {
	c.presenter.Activate(ctx)
	list := c.presenter.Heroes()
	if len(list) == 0 {
		c.printf("no heroes\n")
		return nil
	}
	selected, hasSelection := c.presenter.Selected()
	for _, h := range list {
		marker := " "
		if hasSelection && selected.ID == h.ID {
			marker = "*"
		}
		c.printf("%s %3d  %s\n", marker, h.ID, h.Name)
	}
	return nil
}

func (c *CLI) handleSelect(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	for _, h := range c.presenter.Heroes() {
		if h.ID == id {
			c.presenter.Select(h)
			c.printf("selected %d %s\n", h.ID, h.Name)
			return nil
		}
	}
	return fmt.Errorf("hero %d is not in the list (run 'list' first)", id)
}

func (c *CLI) handleShow() error {
	h, ok := c.presenter.Selected()
	if !ok {
		c.printf("no hero selected\n")
		return nil
	}
	c.printf("%s details\nid: %d\nname: %s\n", strings.ToUpper(h.Name), h.ID, h.Name)
	return nil
}

func (c *CLI) handleGet(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	c.printHero(c.svc.GetHero(ctx, id).Value)
	return nil
}

func (c *CLI) handleAdd(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.New("usage: add <name>")
	}
	c.printHero(c.svc.AddHero(ctx, models.Hero{Name: name}).Value)
	return nil
}

func (c *CLI) handleRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: rename <id> <name>")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}
	c.svc.UpdateHero(ctx, models.Hero{ID: id, Name: strings.Join(args[1:], " ")})
	return nil
}

func (c *CLI) handleDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	c.svc.DeleteHero(ctx, heroservice.ByID(id))
	return nil
}

func (c *CLI) handleSearch(ctx context.Context, args []string) error {
	found := c.svc.SearchHeroes(ctx, strings.Join(args, " ")).Value
	for _, h := range found {
		c.printf("  %3d  %s\n", h.ID, h.Name)
	}
	return nil
}

func (c *CLI) handleWatch(ctx context.Context) error {
	if c.watch == nil {
		return errors.New("change feed not configured")
	}
	select {
	case <-c.watchDoneCh:
		// The previous watcher ended on its own; release it.
		c.stopWatch()
		c.stopWatch = nil
		c.watchDoneCh = nil
	default:
	}
	if c.stopWatch != nil {
		c.printf("already watching\n")
		return nil
	}
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.stopWatch = cancel
	c.watchDoneCh = done
	go func() {
		defer close(done)
		err := c.watch(watchCtx, func(evt models.HeroEvent) {
			c.printf("[%s] %d %s\n", evt.Type, evt.Hero.ID, evt.Hero.Name)
		})
		if err != nil {
			c.printf("watch stopped: %v\n", err)
		}
	}()
	c.printf("watching hero changes ('unwatch' to stop)\n")
	return nil
}

// StopWatch ends a running watch and waits for it to finish.
func (c *CLI) StopWatch() {
	if c.stopWatch == nil {
		return
	}
	c.stopWatch()
	<-c.watchDoneCh
	c.stopWatch = nil
	c.watchDoneCh = nil
}

func (c *CLI) printHero(h models.Hero) {
	if !h.Stored() {
		c.printf("(no hero)\n")
		return
	}
	c.printf("  %3d  %s\n", h.ID, h.Name)
}

func (c *CLI) printf(format string, a ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing hero id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid hero id %q", args[0])
	}
	return id, nil
}
