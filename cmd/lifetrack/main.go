package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gmsas95/lifetrack/internal/app"
	"github.com/gmsas95/lifetrack/internal/cli"
	"github.com/gmsas95/lifetrack/internal/config"
	"github.com/gmsas95/lifetrack/internal/onboarding"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	message    = flag.String("m", "", "Message to record")
	version    = "dev"
)

func main() {
	flag.Parse()
	cli.Version = version

	config.LoadEnvFiles()

	args := flag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "help", "--help", "-h":
		cli.PrintExtendedHelp(os.Stdout)
		return
	case "version", "--version", "-v":
		fmt.Printf("Lifetrack version %s\n", version)
		return
	case "init":
		runOnboarding()
		return
	case "parse":
		// no store needed
		cfg, err := config.Load(*configPath, *dataDir)
		if err != nil {
			fatal(err)
		}
		if err := cli.HandleParseCommand(args, nowIn(cfg), os.Stdout); err != nil {
			fatal(err)
		}
		return
	case "status":
		cfg, err := config.Load(*configPath, *dataDir)
		if err != nil {
			fatal(err)
		}
		path := *configPath
		if path == "" {
			path = onboarding.ConfigPath(cfg.Storage.DataDir)
		}
		cli.HandleStatusCommand(cfg, path, os.Stdout)
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if cmd == "" && *message == "" && interactive && onboarding.CheckFirstRun(*dataDir) && *configPath == "" {
		fmt.Println("📒 Chưa có file cấu hình, chạy 'lifetrack init' để tạo. Dùng cấu hình mặc định.")
		fmt.Println()
	}

	application := initApp()
	defer application.Close()
	defer application.Logger.Sync()

	ctx := context.Background()

	switch {
	case *message != "":
		if err := cli.OneShot(ctx, application, *message, os.Stdout); err != nil {
			fatal(err)
		}
	case cmd == "chat":
		history, err := application.Store.ChatHistory(ctx, 20)
		if err != nil {
			application.Logger.Warn("Failed to load chat history", zap.Error(err))
		}
		if interactive {
			err = cli.RunChat(application, history)
		} else {
			err = cli.Interactive(ctx, application, os.Stdin, os.Stdout)
		}
		if err != nil {
			fatal(err)
		}
	case cmd == "stats":
		if err := cli.HandleStatsCommand(ctx, application.Store, args, application.Assistant.Now(), os.Stdout); err != nil {
			fatal(err)
		}
	case cmd == "import":
		if err := cli.HandleImportCommand(ctx, application, args, os.Stdout); err != nil {
			fatal(err)
		}
	case cmd == "doctor":
		if issues := cli.HandleDoctorCommand(ctx, application.Config, application.Store, application.LLM, os.Stdout); issues > 0 {
			os.Exit(1)
		}
	case cmd == "" || cmd == "server":
		if err := application.RunServer(); err != nil {
			application.Logger.Error("Server stopped", zap.Error(err))
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		cli.PrintExtendedHelp(os.Stdout)
		os.Exit(2)
	}
}

func runOnboarding() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	wizard := onboarding.NewWizard(os.Stdin, os.Stdout, *dataDir, logger)
	if _, err := wizard.Run(); err != nil {
		fmt.Printf("\n❌ Onboarding failed: %v\n", err)
		os.Exit(1)
	}
}

func initApp() *app.App {
	loader, err := config.NewLoader(*configPath, *dataDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(loader.Config().Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting Lifetrack", zap.String("version", version))

	application, err := app.New(loader, logger, version)
	if err != nil {
		logger.Fatal("Failed to initialize app", zap.Error(err))
	}
	return application
}

func nowIn(cfg *config.Config) time.Time {
	return time.Now().In(cfg.TimeLocation())
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}
