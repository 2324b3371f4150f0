package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/Tyrowin/roomchat/internal/codec"
)

var (
	infoStyle    = color.New(color.FgGray)
	errorStyle   = color.New(color.FgRed)
	messageStyle = color.New(color.FgGreen)
	systemStyle  = color.New(color.FgCyan)
)

var errUsage = errors.New("usage")

// parseLine turns one line of input into a command. A blank line yields no
// command; quit reports /quit.
func parseLine(line string) (cmd codec.Command, quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return codec.MessageCommand{Text: line}, false, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/nick":
		if arg == "" {
			return nil, false, fmt.Errorf("%w: /nick <name>", errUsage)
		}
		return codec.NickNameCommand{Name: arg}, false, nil
	case "/join":
		if arg == "" {
			return nil, false, fmt.Errorf("%w: /join <room>", errUsage)
		}
		return codec.JoinCommand{Room: arg}, false, nil
	case "/list":
		return codec.ListCommand{}, false, nil
	case "/ping":
		return codec.PingCommand{}, false, nil
	case "/quit":
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("unknown command %q", name)
	}
}

func printResponse(w io.Writer, resp codec.Response) {
	switch r := resp.(type) {
	case codec.MessageResponse:
		fmt.Fprintln(w, messageStyle.Render("> ")+r.Text)
	case codec.JoinedResponse:
		fmt.Fprintln(w, systemStyle.Render("joined "+r.Room))
	case codec.SetNickNameResponse:
		fmt.Fprintln(w, systemStyle.Render("nickname set to "+r.Name))
	case codec.PingResponse:
		fmt.Fprintln(w, infoStyle.Render("pong"))
	case codec.RoomsResponse:
		renderRooms(w, r.Rooms)
	default:
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("unexpected response %T", resp)))
	}
}

func renderRooms(w io.Writer, rooms []string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Room"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(rooms, func(room string, i int) []string {
		return []string{strconv.Itoa(i + 1), room}
	}))
	table.Render()
}
