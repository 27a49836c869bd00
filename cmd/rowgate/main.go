package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rzpsarthak13/rowgate/internal/database"
	"github.com/rzpsarthak13/rowgate/pkg/rowgate"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s call -config gw.yaml getClient 1
  %[1]s call -config gw.yaml selectTown bigcity=1
  %[1]s call -config gw.yaml query "SELECT * FROM Client WHERE idClient = ?" 1
  %[1]s export -config gw.yaml [-sink memory] Town [col=value ...]
  %[1]s tables -config gw.yaml
  %[1]s create-db -schema ddl.sql -db my.db
`, os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "call":
		err = callCmd(ctx, os.Args[2:], os.Stdout)
	case "export":
		err = exportCmd(ctx, os.Args[2:], os.Stdout)
	case "tables":
		err = tablesCmd(ctx, os.Args[2:], os.Stdout)
	case "create-db":
		err = createDbCmd(ctx, os.Args[2:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openGateway parses the common flags of a command and opens the configured gateway.
func openGateway(ctx context.Context, flags *flag.FlagSet, args []string) (*rowgate.Gateway, error) {
	var configFile string
	var quiet bool
	flags.StringVar(&configFile, "config", "", "Gateway configuration file (.yaml, .yml or .json)")
	flags.BoolVar(&quiet, "quiet", false, "Disable logging")
	flags.Parse(args)

	if configFile == "" {
		return nil, fmt.Errorf("-config is required")
	}
	if quiet {
		log.SetOutput(io.Discard)
	}

	config, err := rowgate.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return rowgate.Open(ctx, config)
}

func callCmd(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("call", flag.ExitOnError)
	gw, err := openGateway(ctx, flags, args)
	if err != nil {
		return err
	}
	defer gw.Close()

	if flags.NArg() == 0 {
		return fmt.Errorf("a call name is required")
	}
	op, err := rowgate.ParseCall(flags.Arg(0), flags.Args()[1:])
	if err != nil {
		return err
	}
	result, err := gw.Execute(ctx, op)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if _, isGet := op.(rowgate.GetByKey); isGet && !result.Found() {
		return enc.Encode(nil)
	}
	for _, obj := range result.Objects {
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

func exportCmd(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	var sinkType string
	flags.StringVar(&sinkType, "sink", "", "Sink type overriding export.sink_type (memory prints the entries)")
	gw, err := openGateway(ctx, flags, args)
	if err != nil {
		return err
	}
	defer gw.Close()

	if flags.NArg() == 0 {
		return fmt.Errorf("a table name is required")
	}
	table := flags.Arg(0)

	filters := make(rowgate.Filters, 0, flags.NArg()-1)
	for _, arg := range flags.Args()[1:] {
		column, value, ok := strings.Cut(arg, "=")
		if !ok || column == "" {
			return fmt.Errorf("%w: expected column=value, got %q", rowgate.ErrInvalidFilter, arg)
		}
		filters = append(filters, rowgate.Condition{Column: column, Value: rowgate.ParseValue(value)})
	}

	if sinkType != "" && sinkType != "memory" {
		return fmt.Errorf("-sink only accepts memory; configure other sinks in export.sink_type")
	}

	var sink rowgate.Sink
	memory := rowgate.NewMemorySink()
	printEntries := false
	if sinkType == "memory" {
		sink, printEntries = memory, true
	} else {
		sink, err = gw.NewSink()
		if errors.Is(err, rowgate.ErrSinkNotConfigured) {
			sink, printEntries = memory, true
		} else if err != nil {
			return err
		}
	}
	defer sink.Close()

	n, err := gw.Export(ctx, sink, table, filters)
	if err != nil {
		return err
	}

	if printEntries {
		for _, entry := range memory.Entries() {
			fmt.Fprintf(out, "%s\t%s\n", entry.Key, entry.Value)
		}
	}
	log.Printf("[EXPORT] %d objects of %s exported", n, table)
	return nil
}

func tablesCmd(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("tables", flag.ExitOnError)
	gw, err := openGateway(ctx, flags, args)
	if err != nil {
		return err
	}
	defer gw.Close()

	for _, name := range gw.Tables() {
		t, err := gw.Table(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", name, t.PrimaryKey(), strings.Join(gw.ForeignKeys(name), ","))
	}
	return nil
}

func createDbCmd(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("create-db", flag.ExitOnError)
	var ddlFile, dbFile string
	flags.StringVar(&ddlFile, "schema", "", "SQL script creating and filling the tables")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.Parse(args)
	if ddlFile == "" || dbFile == "" {
		return fmt.Errorf("-schema and -db are required")
	}

	ddl, err := os.ReadFile(ddlFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	db, err := database.NewSQLiteDatabase(dbFile)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExecScript(ctx, string(ddl)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote DB %s\n", dbFile)
	return nil
}
