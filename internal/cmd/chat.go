// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/pkg/config"
	"github.com/tunestudio/tune/pkg/studio"
)

func newChatCommand(opts *rootOptions) *cobra.Command {
	var modelName string
	var maxTokens int
	var temperature float64

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively with a fine-tuned model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			if modelName == "" {
				if cfg, _, err := userConfig(); err == nil {
					modelName, _ = cfg.GetString(config.KeyEvaluationModel)
				}
			}
			if modelName == "" {
				return fmt.Errorf("no model selected: pass --model or run a fine-tune first")
			}

			fmt.Printf("Chatting with %s. Type 'exit' to quit.\n\n", modelName)

			var history []studio.ChatMessage
			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "exit" || input == "quit" {
					break
				}

				history = append(history, studio.ChatMessage{Role: "user", Content: input})

				answer, err := client.Chat(ctx, &studio.ChatRequest{
					ModelName:   modelName,
					Messages:    history,
					MaxTokens:   maxTokens,
					Temperature: temperature,
					Stream:      true,
				}, func(delta string) {
					fmt.Print(delta)
				})
				fmt.Println()

				if err != nil {
					color.Red("ERROR: %v", err)
					// Drop the failed turn so a transient error does not
					// poison the history.
					history = history[:len(history)-1]
					continue
				}

				history = append(history, studio.ChatMessage{Role: "assistant", Content: answer})
			}

			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Model to chat with")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 512, "Maximum tokens per response")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.7, "Sampling temperature")

	return cmd
}
