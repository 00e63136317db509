package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/flemzord/tgrelay/pkg/app"
)

// program adapts app.Run to the service manager's Start/Stop contract.
type program struct {
	params app.RunParams
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(_ service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() {
		p.done <- app.Run(ctx, p.params)
	}()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	return <-p.done
}

func serviceConfig(cfgPath string) *service.Config {
	args := []string{"service", "run"}
	if cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}
	return &service.Config{
		Name:        "tgrelay",
		DisplayName: "tgrelay",
		Description: "Relays HTTP notifications to Telegram chats.",
		Arguments:   args,
	}
}

func newService(cmd *cobra.Command) (service.Service, *program, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath != "" {
		abs, err := filepath.Abs(cfgPath)
		if err != nil {
			return nil, nil, err
		}
		cfgPath = abs
	}
	prg := &program{params: app.RunParams{
		ConfigPath: cfgPath,
		Version:    version,
		Commit:     commit,
		Date:       date,
	}}
	svc, err := service.New(prg, serviceConfig(cfgPath))
	if err != nil {
		return nil, nil, fmt.Errorf("service: %w", err)
	}
	return svc, prg, nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Run tgrelay under the system service manager",
	}

	control := func(action, done string) *cobra.Command {
		return &cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the system service", action),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, _, err := newService(cmd)
				if err != nil {
					return err
				}
				if err := service.Control(svc, action); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Service %s\n", done)
				return nil
			},
		}
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run as a managed service (used by the service manager)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newService(cmd)
			if err != nil {
				return err
			}
			return svc.Run()
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the system service status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newService(cmd)
			if err != nil {
				return err
			}
			st, err := svc.Status()
			if err != nil && !errors.Is(err, service.ErrNotInstalled) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), statusText(st, err))
			return nil
		},
	}

	cmd.AddCommand(
		control("install", "installed"),
		control("uninstall", "uninstalled"),
		control("start", "started"),
		control("stop", "stopped"),
		run,
		status,
	)
	return cmd
}

func statusText(st service.Status, err error) string {
	if errors.Is(err, service.ErrNotInstalled) {
		return "not installed"
	}
	switch st {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
