package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/migrations"
	"github.com/jhoicas/bodega-ledger/pkg/config"
	"github.com/jhoicas/bodega-ledger/pkg/logger"
)

// Uso: migrate [up|down|status|redo|version] [args]
func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("cargar configuración")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	connCfg, err := pgx.ParseConfig(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("parse DSN")
	}
	db := stdlib.OpenDB(*connCfg)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{zl: log.Component("goose")})
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("goose dialect")
	}

	command := "up"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	if err := goose.Run(command, db, ".", args...); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}

// gooseLogger adapta zerolog a goose.Logger.
type gooseLogger struct {
	zl zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.zl.Fatal().Msg(fmt.Sprintf(format, v...))
}
