/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/talentbridge/apiserver/config"
	"github.com/talentbridge/apiserver/internal/notify"
)

// notifierCmd represents the notifier command. It consumes registration
// and application events and dispatches the matching emails. Actual
// delivery is logged; an SMTP relay can be swapped in behind the same
// handlers.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Runs the notification worker",
	Long: `Consumes user.registered and application.submitted events from
the configured broker and sends the matching notification emails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := newNotifierBroker(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = broker.Close()
		}()

		// Subscribe blocks until ctx is done, so each topic gets its
		// own goroutine.
		errCh := make(chan error, 2)
		go func() {
			errCh <- broker.Subscribe(ctx, notify.TopicUserRegistered, sendConfirmationEmail(cfg))
		}()
		go func() {
			errCh <- broker.Subscribe(ctx, notify.TopicApplicationSubmitted, sendApplicationReceipt())
		}()

		log.Printf("notifier running, backend=%s", cfg.MQ.Backend)

		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("subscription ended: %w", err)
			}
			return nil
		}
	},
}

func newNotifierBroker(ctx context.Context, cfg config.Config) (notify.Broker, error) {
	switch cfg.MQ.Backend {
	case "rabbitmq":
		return notify.NewRabbitMQBroker(cfg.MQ.RabbitMQ)
	case "pubsub":
		return notify.NewPubSubBroker(ctx, cfg.MQ.PubSub)
	case "":
		return nil, fmt.Errorf("MQ_BACKEND is required for the notifier")
	default:
		return nil, fmt.Errorf("unknown MQ backend %q", cfg.MQ.Backend)
	}
}

func sendConfirmationEmail(cfg config.Config) notify.Handler {
	return func(ctx context.Context, event notify.Event) error {
		token := event.Attributes["confirmation_token"]
		link := fmt.Sprintf("%s/api/auth/confirm?token=%s", cfg.SiteURL, token)
		log.Printf("confirmation email: to=%s role=%s link=%s", event.Email, event.Attributes["role"], link)
		return nil
	}
}

func sendApplicationReceipt() notify.Handler {
	return func(ctx context.Context, event notify.Event) error {
		log.Printf("application receipt: to=%s job=%q application=%s",
			event.Email, event.Attributes["job_title"], event.Attributes["application_id"])
		return nil
	}
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
