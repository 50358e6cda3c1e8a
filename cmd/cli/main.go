package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/accounts/pkg/config"
	"github.com/fatih/color"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  create <name> <number> [balance]
  get <account_id>
  get-number <number>
  list
  update <account_id> <name|number|balance>=<value>...
  delete <account_id>
  total [batch_size]

Environment:
  ACCOUNTS_API_URL      API base URL (default http://localhost:3000)
  ACCOUNTS_API_TIMEOUT  request timeout (default 30s)
  ACCOUNTS_BATCH_SIZE   batch size for total when none is given`

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.FgCyan)
)

type client struct {
	baseURL   string
	http      *http.Client
	batchSize int
}

// newClient configures a client from the environment.
func newClient() *client {
	return &client{
		baseURL:   strings.TrimRight(config.GetEnv("ACCOUNTS_API_URL", "http://localhost:3000"), "/"),
		http:      &http.Client{Timeout: config.GetEnvAsDuration("ACCOUNTS_API_TIMEOUT", 30*time.Second)},
		batchSize: config.GetEnvAsInt("ACCOUNTS_BATCH_SIZE", 0),
	}
}

func main() {
	config.LoadEnv(slog.Default())
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	c := newClient()
	if err := c.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		errColor.Fprintln(os.Stderr, "Error:", err) //nolint: errcheck
		os.Exit(1)
	}
}

func (c *client) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: create <name> <number> [balance]")
		}
		body := map[string]any{"name": args[0], "number": args[1], "balance": 0.0}
		if len(args) > 2 {
			bal, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", args[2], err)
			}
			body["balance"] = bal
		}
		return c.do(ctx, http.MethodPost, "/accounts", body)
	case "get":
		if len(args) < 1 {
			return fmt.Errorf("usage: get <account_id>")
		}
		return c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(args[0]), nil)
	case "get-number":
		if len(args) < 1 {
			return fmt.Errorf("usage: get-number <number>")
		}
		return c.do(ctx, http.MethodGet, "/accounts/number/"+url.PathEscape(args[0]), nil)
	case "list":
		return c.do(ctx, http.MethodGet, "/accounts", nil)
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("usage: update <account_id> <field>=<value>...")
		}
		patch, err := parsePatch(args[1:])
		if err != nil {
			return err
		}
		return c.do(ctx, http.MethodPut, "/accounts/"+url.PathEscape(args[0]), patch)
	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: delete <account_id>")
		}
		return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(args[0]), nil)
	case "total":
		path := "/balances/total"
		switch {
		case len(args) > 0:
			path += "?batch_size=" + url.QueryEscape(args[0])
		case c.batchSize > 0:
			path += "?batch_size=" + strconv.Itoa(c.batchSize)
		}
		return c.do(ctx, http.MethodGet, path, nil)
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parsePatch turns field=value pairs into an update body.
func parsePatch(pairs []string) (map[string]any, error) {
	patch := make(map[string]any, len(pairs))
	for _, p := range pairs {
		field, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", p)
		}
		switch field {
		case "name", "number":
			patch[field] = value
		case "balance":
			bal, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid balance %q: %w", value, err)
			}
			patch[field] = bal
		default:
			return nil, fmt.Errorf("unknown field %q", field)
		}
	}
	return patch, nil
}

func (c *client) do(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint: errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") != nil {
		pretty.Reset()
		pretty.Write(raw)
	}

	infoColor.Printf("%s %s -> %d\n", method, path, resp.StatusCode) //nolint: errcheck
	if resp.StatusCode >= http.StatusBadRequest {
		errColor.Println(pretty.String()) //nolint: errcheck
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	okColor.Println(pretty.String()) //nolint: errcheck
	return nil
}
