package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/serialkit/ringrx/pkg/client"
)

var (
	// ReceiversCmd discovers running receivers.
	ReceiversCmd = ishell.Cmd{
		Name:    "receivers",
		Aliases: []string{"list", "ls"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.Client.Discover(context.TODO())
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []client.ReceiverInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No receivers found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// UseCmd selects the current receiver.
	UseCmd = ishell.Cmd{
		Name:    "use",
		Aliases: []string{"u"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Use(c.Args[0])
				return
			}
			info, err := s.SelectReceiver()
			if err != nil {
				c.Err(err)
				return
			}
			if info == nil {
				c.Err(fmt.Errorf("no receiver discovered"))
				return
			}
			s.Use(info.ID)
		},
	}

	// StatusCmd queries receiver status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			id, err := s.Receiver(c)
			if err != nil {
				c.Err(err)
				return
			}
			status, err := s.Client.Status(context.TODO(), id)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(status)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Printf("receiver:    %s (%s)\n", status.Id, status.Engine)
			c.Printf("capacity:    %d\n", status.Capacity)
			c.Printf("write index: %d\n", status.WriteIndex)
			c.Printf("received:    %d\n", status.Received)
			c.Printf("dropped:     %d\n", status.Dropped)
			if status.Fault != "" {
				c.Printf("fault:       %s\n", status.Fault)
			}
		},
	}

	// DumpCmd dumps the ring storage of a receiver.
	DumpCmd = ishell.Cmd{
		Name:    "dump",
		Aliases: []string{"d"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			id, err := s.Receiver(c)
			if err != nil {
				c.Err(err)
				return
			}
			snap, err := s.Client.Snapshot(context.TODO(), id)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(snap)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Printf("write index: %d\n", snap.WriteIndex)
			c.Print(hex.Dump(snap.Storage))
		},
	}
)
