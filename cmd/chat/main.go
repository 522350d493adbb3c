package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"worksearch.app/aggregator/common/id"
	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/core/bootstrap"
	"worksearch.app/aggregator/core/config"
	"worksearch.app/aggregator/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeChat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg, os.Stderr)
	if err := id.Init(2); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize id generator: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(ctx, cfg, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to wire search engine: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	sh := newShell(service.NewServices(app.Engine).Search(), os.Stdout, os.Stderr)

	fmt.Fprintln(os.Stderr, "\nWork search ready. Ask with a hashtag, e.g. \"#atp completed in mattermost this week\".")
	fmt.Fprintln(os.Stderr, "Commands: history, clear, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if sh.handle(ctx, strings.TrimSpace(scanner.Text())) {
			return
		}
	}
}
