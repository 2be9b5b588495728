package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/yaoapp/graphchat/api"
	"github.com/yaoapp/graphchat/chat/openai"
	"github.com/yaoapp/graphchat/config"
	"github.com/yaoapp/graphchat/graph"
	"github.com/yaoapp/graphchat/graph/neo4j"
	"github.com/yaoapp/graphchat/helper"
	"github.com/yaoapp/graphchat/history"
	"github.com/yaoapp/graphchat/store"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/graphchat/workflow"
	"github.com/yaoapp/kun/log"
)

func main() {
	var (
		file     = flag.String("config", "", "Path to the configuration file (yaml, jsonc or json), environment only if empty")
		question = flag.String("q", "", "Answer one question and exit")
		session  = flag.String("session", "", "Session id recorded in the history")
		serve    = flag.Bool("serve", false, "Serve the HTTP API")
		addr     = flag.String("addr", "", "HTTP listen address, overrides the configuration")
		verbose  = flag.Bool("v", false, "Print the search conversation")
		help     = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		printHelp()
		os.Exit(0)
	}

	cfg := config.Default()
	if *file != "" {
		var err error
		cfg, err = config.Load(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid configuration: %v\n", err)
		printHelp()
		os.Exit(1)
	}
	setLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.close()

	if *session == "" {
		*session = history.ID()
	}

	switch {
	case *serve:
		if err := app.serve(ctx, cfg.Server); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case *question != "":
		if err := app.ask(ctx, *question, *session, *verbose); err != nil {
			os.Exit(1)
		}

	default:
		app.repl(ctx, *session, *verbose)
	}
}

// app the wired collaborators
type app struct {
	graph    *neo4j.Store
	cache    store.Store
	history  history.Manager
	workflow *workflow.Workflow
}

func setup(ctx context.Context, cfg *types.Config) (*app, error) {
	graphStore := neo4j.NewStore()
	if err := graphStore.Connect(ctx, cfg.Neo4j); err != nil {
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	cache, err := store.New(cfg.Cache)
	if err != nil {
		graphStore.Close()
		return nil, fmt.Errorf("failed to create the schema cache: %w", err)
	}

	executor := graph.NewExecutor(graphStore, cache, cfg.Neo4j.Database)
	executor.CacheTTL = time.Duration(cfg.Cache.TTL) * time.Second

	client, err := openai.New(openai.OptionsFrom(cfg.LLM))
	if err != nil {
		graphStore.Close()
		return nil, fmt.Errorf("failed to create the chat client: %w", err)
	}

	hist, err := history.New(cfg.History)
	if err != nil {
		graphStore.Close()
		return nil, fmt.Errorf("failed to create the history: %w", err)
	}

	wf, err := workflow.New(workflow.Config{Client: client, Graph: executor, History: hist, Settings: cfg.Workflow})
	if err != nil {
		graphStore.Close()
		hist.Close()
		return nil, err
	}

	log.With(log.F{"llm": client.Setting(), "database": cfg.Neo4j.Database}).Info("graphchat ready")
	return &app{graph: graphStore, cache: cache, history: hist, workflow: wf}, nil
}

func (a *app) close() {
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		closer.Close()
	}
	a.history.Close()
	a.graph.Close()
}

func (a *app) serve(ctx context.Context, cfg types.ServerConfig) error {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	api.New(a.workflow, a.history).Routes(router, "/api")

	errs := make(chan error, 1)
	go func() { errs <- router.Run(cfg.Addr) }()
	color.Green("Serving the API on %s", cfg.Addr)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func (a *app) ask(ctx context.Context, question string, session string, verbose bool) error {
	ans, err := a.workflow.Answer(ctx, question, session)
	if err != nil {
		helper.DumpError(err.Error())
		return err
	}

	if verbose {
		for _, turn := range ans.Run.Turns {
			printTurn(turn)
		}
	}

	color.Cyan("Query:")
	fmt.Println(ans.Query)
	if ans.Error != "" {
		helper.DumpWarn(fmt.Sprintf("%s: %s", ans.ErrorKind, ans.Error))
	} else {
		color.Cyan("Results: %d rows", len(ans.Bindings.Bindings))
	}

	color.Cyan("Answer:")
	fmt.Println(ans.Summary)
	return nil
}

func (a *app) repl(ctx context.Context, session string, verbose bool) {
	helper.DumpInfo(fmt.Sprintf("Session %s, ask a question or type exit", session))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		case "history":
			entries, err := a.history.List(session)
			if err != nil {
				helper.DumpError(err.Error())
				continue
			}
			if len(entries) == 0 {
				helper.DumpInfo("No history yet")
				continue
			}
			helper.Dump(entries)
			continue
		}

		a.ask(ctx, line, session, verbose)
		if ctx.Err() != nil {
			return
		}
	}
}

func printTurn(turn types.ChatTurn) {
	switch turn.Role {
	case types.RoleSystem:
		color.Yellow("[%s] system", turn.Stage)
	case types.RoleAssistant:
		color.Magenta("[%s] assistant", turn.Stage)
	default:
		color.Blue("[%s] %s", turn.Stage, turn.Role)
	}
	fmt.Println(turn.Content)
}

func setLogLevel(level string) {
	switch level {
	case "trace":
		log.SetLevel(log.TraceLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func printHelp() {
	fmt.Println("graphchat - ask questions about a Neo4j graph")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  graphchat [-config graphchat.yml] [-q question] [-session id] [-v]")
	fmt.Println("  graphchat [-config graphchat.yml] -serve [-addr :5099]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Environment (used when no configuration file is given):")
	fmt.Println("  NEO4J_URL, NEO4J_USER, NEO4J_PASS, NEO4J_DATABASE")
	fmt.Println("  OPENAI_KEY, OPENAI_HOST, OPENAI_MODEL")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  graphchat -q \"Which drugs treat migraine?\"")
	fmt.Println("  graphchat -config graphchat.yml -serve")
}
