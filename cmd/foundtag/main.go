package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/enhancer"
	"github.com/mdouchement/foundtag/internal/notify"
	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/mdouchement/foundtag/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

const dbname = "foundtag.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "foundtag",
		Short:   "Lost-and-found registry server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

func apikey(konf *koanf.Koanf) string {
	if key := konf.String("enhancer.api_key"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			return database.StormReIndex(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			if konf.String("base_url") == "" {
				return errors.New("base_url not found")
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			qrcodes := konf.String("qrcodes_path")
			if qrcodes == "" {
				qrcodes = filepath.Join("static", "qrcodes")
			}
			encoder, err := qrlink.NewEncoder(qrcodes)
			if err != nil {
				return errors.Wrap(err, "could not setup qrcode storage")
			}

			bus := notify.NewGoChannel()
			defer bus.Close()
			if err = notify.LogEvents(context.Background(), bus); err != nil {
				return errors.Wrap(err, "could not start owner notification consumer")
			}

			timeout, _ := time.ParseDuration(konf.String("enhancer.timeout"))
			engine := server.EchoEngine(server.IOC{
				Version:  version,
				Database: db,
				Enhancer: enhancer.New(enhancer.Config{
					APIKey:   apikey(konf),
					Endpoint: konf.String("enhancer.endpoint"),
					Model:    konf.String("enhancer.model"),
					Timeout:  timeout,
				}),
				Encoder:  encoder,
				Notifier: notify.New(bus),
				BaseURL:  konf.String("base_url"),
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			log.Printf("Server listening on %s\n", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					log.Printf("Removing existing %s\n", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
