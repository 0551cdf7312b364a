// uamirror - inspect a server's address space through the directory mirror.
//
// Sub-commands:
//
//	uamirror tree                         Dump the cached directory as a tree
//	uamirror objects [-type N]            List cached objects, optionally by type
//	uamirror read -object ID -var NAME    Read a variable's current value
//	uamirror write -object ID -var NAME -value V [-as TYPE]
//	uamirror call -object ID -method NAME [-args A,B,C]
//	uamirror watch [-interval D]          Refresh periodically, serve metrics
//
// The endpoint and security settings come from UAMIRROR_* environment
// variables (see internal/config); -endpoint overrides the environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ChrizziDerKek/opcua-client/internal/config"
	"github.com/ChrizziDerKek/opcua-client/internal/logging"
	"github.com/ChrizziDerKek/opcua-client/internal/metrics"
	"github.com/ChrizziDerKek/opcua-client/pkg/mirror"
	"github.com/ChrizziDerKek/opcua-client/pkg/retry"
	opcuatransport "github.com/ChrizziDerKek/opcua-client/pkg/transport/opcua"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "tree":
		cmdTree(os.Args[2:])
	case "objects":
		cmdObjects(os.Args[2:])
	case "read":
		cmdRead(os.Args[2:])
	case "write":
		cmdWrite(os.Args[2:])
	case "call":
		cmdCall(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: uamirror <tree|objects|read|write|call|watch> [flags]")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// connect loads the configuration, initializes logging, and returns a
// populated mirror client.
func connect(ctx context.Context, endpointFlag string) *mirror.Client {
	cfg, err := config.Load()
	if err != nil && endpointFlag == "" {
		fatal("%v", err)
	}
	if cfg == nil {
		cfg = &config.Config{
			SecurityPolicy:  "None",
			SecurityMode:    "None",
			ConnectAttempts: 3,
			ConnectBackoff:  500 * time.Millisecond,
			LogLevel:        "info",
			LogFormat:       "console",
		}
	}
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fatal("logging init: %v", err)
	}

	connector := opcuatransport.NewConnector(opcuatransport.Config{
		SecurityPolicy: cfg.SecurityPolicy,
		SecurityMode:   cfg.SecurityMode,
		CertFile:       cfg.CertFile,
		KeyFile:        cfg.KeyFile,
		Username:       cfg.Username,
		Password:       cfg.Password,
		Retry: retry.Config{
			MaxAttempts: cfg.ConnectAttempts,
			InitialWait: cfg.ConnectBackoff,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Logger: logging.L(),
	})

	client := mirror.New(mirror.Config{
		Connector: connector,
		Endpoint:  cfg.Endpoint,
		Logger:    logging.L(),
	})

	if err := client.Refresh(ctx); err != nil {
		fatal("refresh: %v", err)
	}
	return client
}

func cmdTree(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	fs.Parse(args)

	ctx := context.Background()
	client := connect(ctx, *endpoint)
	defer client.Close(ctx)

	roots := make([]*mirror.ServerObject, 0)
	for _, obj := range client.GetObjects() {
		if obj.Parent() == nil {
			roots = append(roots, obj)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].NodeID() < roots[j].NodeID() })

	for _, root := range roots {
		printTree(client, root, 0)
	}
	fmt.Printf("%d objects cached\n", client.Size())
}

func printTree(client *mirror.Client, obj *mirror.ServerObject, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (type %d)\n", indent, obj.NodeID(), obj.TypeID())
	for _, name := range obj.VariableNames() {
		fmt.Printf("%s  var %s\n", indent, name)
	}
	for _, name := range obj.MethodNames() {
		fmt.Printf("%s  fn  %s\n", indent, name)
	}
	for _, name := range obj.ChildNames() {
		id, _ := obj.Child(name)
		child := client.GetObjectByNodeID(id.Text)
		if child == nil {
			fmt.Printf("%s  %s (not cached)\n", indent, id)
			continue
		}
		printTree(client, child, depth+1)
	}
}

func cmdObjects(args []string) {
	fs := flag.NewFlagSet("objects", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	typeID := fs.Int("type", -1, "Only list objects of this type id (-1 = all)")
	fs.Parse(args)

	ctx := context.Background()
	client := connect(ctx, *endpoint)
	defer client.Close(ctx)

	objs := client.GetObjectsByType(*typeID)
	sort.Slice(objs, func(i, j int) bool { return objs[i].NodeID() < objs[j].NodeID() })
	for _, obj := range objs {
		fmt.Printf("%-50s type=%-5d vars=%d methods=%d children=%d\n",
			obj.NodeID(), obj.TypeID(),
			len(obj.VariableNames()), len(obj.MethodNames()), len(obj.ChildNames()))
	}
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	objectID := fs.String("object", "", "String identifier of the owning object (required)")
	varName := fs.String("var", "", "Variable display name (required)")
	fs.Parse(args)
	if *objectID == "" || *varName == "" {
		fatal("-object and -var are required")
	}

	ctx := context.Background()
	client := connect(ctx, *endpoint)
	defer client.Close(ctx)

	obj := client.GetObjectByNodeID(*objectID)
	if obj == nil {
		fatal("object %q is not cached", *objectID)
	}
	v := obj.Variable(*varName)
	if v == nil {
		fatal("object %q has no variable %q", *objectID, *varName)
	}
	val, err := v.Get(ctx)
	if err != nil {
		fatal("read: %v", err)
	}
	fmt.Printf("%v\n", val)
}

func cmdWrite(args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	objectID := fs.String("object", "", "String identifier of the owning object (required)")
	varName := fs.String("var", "", "Variable display name (required)")
	value := fs.String("value", "", "Value to write (required)")
	asType := fs.String("as", "string", "Value type: string, int, float, bool")
	fs.Parse(args)
	if *objectID == "" || *varName == "" {
		fatal("-object and -var are required")
	}

	ctx := context.Background()
	client := connect(ctx, *endpoint)
	defer client.Close(ctx)

	obj := client.GetObjectByNodeID(*objectID)
	if obj == nil {
		fatal("object %q is not cached", *objectID)
	}
	v := obj.Variable(*varName)
	if v == nil {
		fatal("object %q has no variable %q", *objectID, *varName)
	}
	val, err := parseValue(*value, *asType)
	if err != nil {
		fatal("%v", err)
	}
	if err := v.Set(ctx, val); err != nil {
		fatal("write: %v", err)
	}
	// The write status is not reported by the server round trip; read back.
	if got, err := v.Get(ctx); err == nil {
		fmt.Printf("%v\n", got)
	}
}

func cmdCall(args []string) {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	objectID := fs.String("object", "", "String identifier of the owning object (required)")
	methodName := fs.String("method", "", "Method display name (required)")
	argList := fs.String("args", "", "Comma-separated string arguments")
	fs.Parse(args)
	if *objectID == "" || *methodName == "" {
		fatal("-object and -method are required")
	}

	ctx := context.Background()
	client := connect(ctx, *endpoint)
	defer client.Close(ctx)

	obj := client.GetObjectByNodeID(*objectID)
	if obj == nil {
		fatal("object %q is not cached", *objectID)
	}
	m := obj.Method(*methodName)
	if m == nil {
		fatal("object %q has no method %q", *objectID, *methodName)
	}

	var callArgs []any
	if *argList != "" {
		for _, a := range strings.Split(*argList, ",") {
			callArgs = append(callArgs, a)
		}
	}

	out, err := m.Call(ctx, callArgs...)
	if err != nil {
		fatal("call: %v", err)
	}
	for i, v := range out {
		fmt.Printf("out[%d] = %v\n", i, v)
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Server endpoint URL")
	interval := fs.Duration("interval", 30*time.Second, "Directory refresh interval")
	metricsAddr := fs.String("metrics", "", "Metrics listen address (default from env)")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := connect(ctx, *endpoint)
	defer client.Close(context.Background())

	addr := *metricsAddr
	if addr == "" {
		if cfg, err := config.Load(); err == nil {
			addr = cfg.MetricsAddr
		} else {
			addr = ":9090"
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics server", zap.Error(err))
		}
	}()
	logging.L().Info("serving metrics", zap.String("addr", addr))

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.L().Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
			return
		case <-ticker.C:
			if err := client.RefreshObjects(ctx); err != nil {
				logging.L().Warn("refresh failed, reconnecting", zap.Error(err))
				if err := client.Refresh(ctx); err != nil {
					logging.L().Error("reconnect failed", zap.Error(err))
					continue
				}
			}
			logging.L().Info("directory refreshed", zap.Int("objects", client.Size()))
		}
	}
}

func parseValue(s, typ string) (any, error) {
	switch typ {
	case "string":
		return s, nil
	case "int":
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as int: %w", s, err)
		}
		return v, nil
	case "float":
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as float: %w", s, err)
		}
		return v, nil
	case "bool":
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("parse %q as bool: %w", s, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", typ)
	}
}
