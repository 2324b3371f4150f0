package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"

	"github.com/Tyrowin/roomchat/internal/client"
	"github.com/Tyrowin/roomchat/internal/codec"
)

type config struct {
	Addr      string        `env:"CHAT_SERVER_ADDR,default=127.0.0.1:8080"`
	LogLevel  string        `env:"LOG_LEVEL,default=WARN"`
	Heartbeat time.Duration `env:"CHAT_HEARTBEAT,default=30s"`
}

var (
	addrFlag      string
	logLevelFlag  string
	heartbeatFlag time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "roomchat",
	Short: "Interactive terminal client for the roomchat relay",
	Long: `roomchat connects to a relay over TCP and reads commands from stdin:

  /nick <name>   set your nickname
  /list          list rooms
  /join <room>   move to another room
  /ping          ping the server
  /quit          leave

Any other line is sent as a message to your current room. A Ping is also
sent every --heartbeat so the server does not drop an idle reader.`,
	SilenceUsage: true,
	RunE:         runClient,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	var cfg config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		cfg = config{Addr: "127.0.0.1:8080", LogLevel: "WARN", Heartbeat: defaultHeartbeat}
	}
	rootCmd.Flags().StringVar(&addrFlag, "addr", cfg.Addr, "Relay TCP address (env CHAT_SERVER_ADDR)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", cfg.LogLevel, "Log level: DEBUG, INFO, WARN or ERROR")
	rootCmd.Flags().DurationVar(&heartbeatFlag, "heartbeat", cfg.Heartbeat, "Keepalive ping interval, 0 disables (env CHAT_HEARTBEAT)")
}

func runClient(cmd *cobra.Command, _ []string) error {
	logger := logs.GetLoggerFromString(logLevelFlag)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, addrFlag)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, infoStyle.Render("connected to "+addrFlag+", type /quit to leave"))
	logger.Debug("Connected", "addr", addrFlag)

	var hb heartbeat
	var ticks <-chan time.Time
	if heartbeatFlag > 0 {
		ticker := time.NewTicker(heartbeatFlag)
		defer ticker.Stop()
		ticks = ticker.C
	}

	received := make(chan error, 1)
	go func() {
		for {
			resp, err := c.Receive()
			if err != nil {
				received <- err
				return
			}
			if hb.swallow(resp) {
				continue
			}
			printResponse(out, resp)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			hb.sent()
			if err := c.Send(codec.PingCommand{}); err != nil {
				return err
			}
			logger.Debug("Heartbeat sent")
		case err := <-received:
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, infoStyle.Render("server closed the connection"))
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			command, quit, err := parseLine(line)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
				continue
			}
			if quit {
				return nil
			}
			if command == nil {
				continue
			}
			if err := c.Send(command); err != nil {
				return err
			}
		}
	}
}
