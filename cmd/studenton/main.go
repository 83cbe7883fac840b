package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/studenton/studenton/internal/app"
	"github.com/studenton/studenton/internal/config"
	"github.com/studenton/studenton/internal/logging"
	"github.com/studenton/studenton/internal/observability"
	"github.com/studenton/studenton/internal/store"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, sync, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer sync()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	st, err := store.Open(cfg.DataPath, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	a := app.New(cfg, logger, st)

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "list":
		runList(a)
	case "export":
		runExport(a, args[1:])
	case "import":
		runImport(a, args[1:])
	case "serve":
		runServe(cfg, logger, st)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: studenton <command>

  list             print students and teachers
  export [dir]     write StudentOn_Data.xlsx into dir (default: EXPORT_DIR)
  import -yes <f>  replace ALL data from a workbook (destructive)
  serve            run the healthz/metrics endpoint`)
}

func runList(a *app.App) {
	teachers := a.Teachers()
	fmt.Printf("교사 (%d)\n", len(teachers))
	for _, t := range teachers {
		fmt.Printf("  %s  %s %s  %s\n", t.Name, t.AssignedGrade, t.AssignedClass, t.PhoneNumber)
	}
	students := a.Students()
	fmt.Printf("학생 (%d)\n", len(students))
	for _, s := range students {
		fmt.Printf("  %s  %s  담임: %s\n", s.Name, s.Grade, a.TeacherDisplayName(s.CurrentTeacherID))
	}
}

func runExport(a *app.App, args []string) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	path, err := a.ExportWorkbook(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("exported:", path)
}

func runImport(a *app.App, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm replacing all current data")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: studenton import -yes <file.xlsx>")
		os.Exit(2)
	}

	sum, err := a.ImportWorkbook(app.ImportRequest{Path: fs.Arg(0), Confirm: *yes})
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("imported: %d students, %d teachers (history and photos were not restored)\n",
		sum.Students, sum.Teachers)
}

func runServe(cfg *config.Config, logger *zap.Logger, st *store.Store) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.StartHTTP(ctx, cfg.HTTPAddr, st)
	logger.Info("serving", zap.String("addr", cfg.HTTPAddr))
	<-ctx.Done()
	logger.Info("shutting down")
}
