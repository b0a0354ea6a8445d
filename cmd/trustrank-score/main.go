// Command trustrank-score runs the engines offline against text from args or stdin
//
//	echo "what a lovely day" | trustrank-score
//	trustrank-score -mode fraud -action comment "click here https://bit.ly/x"
//	trustrank-score -mode moderate -user u1 "idiot"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"trustrank/internal/core/fraud"
	"trustrank/internal/platform/config"
	"trustrank/internal/services/engine"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "trustrank-score:", err)
		os.Exit(2)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("trustrank-score", flag.ContinueOnError)
	var (
		mode   = fs.String("mode", "analyze", "analyze | fraud | moderate")
		user   = fs.String("user", "cli", "user id for fraud and moderate")
		action = fs.String("action", string(fraud.ActionCreatePost), "fraud action: create_post | comment | react | follow")
		links  = fs.String("links", "", "comma separated explicit links")
		pretty = fs.Bool("pretty", false, "indent JSON output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(b))
	}

	eng, err := engine.New(engine.FromConfig(config.New()))
	if err != nil {
		return err
	}

	var out any
	switch *mode {
	case "analyze":
		out = eng.Sentiment.Analyze(text)
	case "fraud":
		a := fraud.Action(*action)
		if !a.Valid() {
			return fmt.Errorf("unknown action %q", *action)
		}
		out = eng.Fraud.Detect(*user, a, payload(a, text, splitCSV(*links)), fraud.History{})
	case "moderate":
		out = eng.Moderator.Moderate(context.Background(), text, *user, fraud.History{})
	default:
		return errors.New("mode must be analyze, fraud or moderate")
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func payload(a fraud.Action, text string, links []string) fraud.Payload {
	switch a {
	case fraud.ActionComment:
		return fraud.CommentPayload{Content: text, Links: links}
	case fraud.ActionReact:
		return fraud.ReactionPayload{}
	case fraud.ActionFollow:
		return fraud.FollowPayload{}
	default:
		return fraud.PostPayload{Content: text, Links: links}
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
