// Package sh provides the interactive shell for inspecting receivers.
package sh

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/serialkit/ringrx/pkg/client"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *client.Config
	Client *client.Client

	current string
}

const (
	shellKey         = "$shell"
	unselectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ReceiversCmd,
		&UseCmd,
		&StatusCmd,
		&DumpCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *client.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unselectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Use selects the current receiver.
func (s *Shell) Use(id string) {
	s.current = id
	if id == "" {
		s.Shell.SetPrompt(unselectedPrompt)
		return
	}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", id))
}

// Receiver resolves the receiver ID for a command: the first argument
// when given, the selected one otherwise.
func (s *Shell) Receiver(c *ishell.Context) (string, error) {
	if len(c.Args) > 0 {
		return c.Args[0], nil
	}
	if s.current == "" {
		return "", fmt.Errorf("no receiver selected, use ID argument or 'use ID'")
	}
	return s.current, nil
}

// SelectReceiver discovers receivers and asks for a choice.
func (s *Shell) SelectReceiver() (*client.ReceiverInfo, error) {
	infoList, err := s.Client.Discover(context.TODO())
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 receivers discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to use?")
	}
	return &infoList[index], nil
}

// FormatInfo prints ReceiverInfo into friendly string for display.
func FormatInfo(info client.ReceiverInfo) string {
	if info.Engine == "" {
		return info.ID
	}
	return info.ID + ": " + info.Engine
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	var err error
	if s.Client, err = s.Config.NewClient(); err != nil {
		log.Fatalf("connect %q failed: %v", s.Config.BrokerURL, err)
	}
	defer s.Client.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is the entry of the shell command.
func Main() {
	flag.Parse()
	New(client.NewConfig()).Run(flag.Args()...)
}
