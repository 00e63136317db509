package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgrelay/internal/telegram"
)

type webhookClient interface {
	SetWebhook(ctx context.Context, url, secret string) error
	DeleteWebhook(ctx context.Context) error
	GetWebhookInfo(ctx context.Context) (*telegram.WebhookInfo, error)
}

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the bot's Telegram webhook",
	}

	set := &cobra.Command{
		Use:   "set [url]",
		Short: "Register the webhook (defaults to bot.webhook_url)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			url := cfg.Bot.WebhookURL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return errors.New("no webhook url: pass one or set bot.webhook_url")
			}
			if err := client.SetWebhook(commandContext(cmd), url, cfg.Bot.WebhookSecret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Webhook set: %s\n", url)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, client, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := client.DeleteWebhook(commandContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Webhook deleted")
			return nil
		},
	}

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the current webhook registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, client, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			wi, err := client.GetWebhookInfo(commandContext(cmd))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(wi)
		},
	}

	cmd.AddCommand(set, del, info)
	return cmd
}
