package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/munishbansal2000/layla-sub008/backend/assistant"
	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/event"
	"github.com/munishbansal2000/layla-sub008/backend/executor"
	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/model"
	"github.com/munishbansal2000/layla-sub008/backend/session"
	"github.com/munishbansal2000/layla-sub008/frontend/cli/pkg/terminal"
)

func NewChatCmd(options *globalOptions) *cobra.Command {
	var sessionID string
	var save bool

	cmd := &cobra.Command{
		Use:   "chat <itinerary.json>",
		Short: "Rework an itinerary interactively",
		Long: `Starts a conversation over the itinerary. Plain requests like
"move the museum to the morning" or "optimize day 2" mutate the plan;
questions get answered from it. Type "exit" to leave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := loadItinerary(options.fs, args[0])
			if err != nil {
				return err
			}
			profile, err := options.loadProfile()
			if err != nil {
				return err
			}

			engine := constraint.NewEngine(profile)
			exec := executor.New(engine, executor.WithFlights(options.flights()))

			parserOpts := []intent.ParserOption{}
			var answerer assistant.Answerer
			if provider := providerFromEnv(); provider != nil {
				parserOpts = append(parserOpts, intent.WithFallback(model.NewIntentClient(provider)))
				answerer = model.NewAnswerClient(provider)
			} else {
				slog.Info("no model API key found, running rules-only")
			}

			assistantOpts := []assistant.Option{assistant.WithBus(event.NewBus())}
			if answerer != nil {
				assistantOpts = append(assistantOpts, assistant.WithAnswerer(answerer))
			}
			a := assistant.New(intent.NewParser(parserOpts...), exec, session.NewStore(), assistantOpts...)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chatting over %s (%d days). Type \"exit\" to leave.\n", current.Destination, len(current.Days))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				reply, err := a.HandleMessage(cmd.Context(), sessionID, line, current)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				// Keep talking to the session minted on the first turn, or
				// undo and history die with it.
				sessionID = reply.SessionID
				if reply.Itinerary != nil {
					current = reply.Itinerary
				}
				fmt.Fprint(out, terminal.RenderReply(reply))
			}

			if save {
				if err := saveItinerary(options.fs, args[0], current); err != nil {
					return err
				}
				fmt.Fprintf(out, "saved %s\n", args[0])
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to resume (new one when omitted)")
	cmd.Flags().BoolVar(&save, "save", false, "write the reworked itinerary back on exit")
	return cmd
}

// providerFromEnv picks the first configured model provider. Returns nil when
// no key is set; the engine still works on rules alone.
func providerFromEnv() model.Provider {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if p, err := model.NewAnthropicProvider(key); err == nil {
			return p
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, err := model.NewOpenAIProvider(key); err == nil {
			return p
		}
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		if p, err := model.NewDeepSeekProvider(key); err == nil {
			return p
		}
	}
	return nil
}
