// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

// Command cp-bootstrap prepares a Candlepin deployment the way the test
// fixture does: it makes sure a certificate is imported, registers a
// consumer and prints its uuid.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/candlepin/apiclient/auth"
	"github.com/candlepin/apiclient/bootstrap"
	"github.com/candlepin/apiclient/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("cp-bootstrap", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	method := auth.MethodPassthrough

	configPath := flags.StringP("config", "c", "", "configuration file")
	host := flags.String("host", config.DefaultHost, "Candlepin host")
	port := flags.Int("port", config.DefaultPort, "Candlepin port")
	prefix := flags.String("prefix", config.DefaultPrefix, "API path prefix")
	cert := flags.String("cert", config.DefaultCertificatePath, "certificate file uploaded when none is present")
	payload := flags.String("payload", string(config.PayloadBare), "certificate payload shape (bare|wrapped)")
	flags.Var(&method, "auth", "authentication method for service requests (none|basic|oauth2)")
	username := flags.String("username", "", "basic authentication username, needs --auth basic")
	password := flags.String("password", "", "basic authentication password, needs --auth basic")
	cleanup := flags.Bool("cleanup", false, "delete the consumer again before exiting")
	verbose := flags.BoolP("verbose", "v", false, "log requests")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Error("loading configuration")
		return 1
	}

	// explicit flags win over file and environment
	if flags.Changed("host") {
		cfg.Host = *host
	}
	if flags.Changed("port") {
		cfg.Port = *port
	}
	if flags.Changed("prefix") {
		cfg.Prefix = *prefix
	}
	if flags.Changed("cert") {
		cfg.Certificate.Path = *cert
	}
	if flags.Changed("payload") {
		cfg.Certificate.Payload = config.PayloadShape(*payload)
	}
	if flags.Changed("auth") {
		cfg.Auth.Method = method.String()
	}
	if *username != "" || *password != "" {
		var effective auth.Method
		if err := effective.Set(cfg.Auth.Method); err != nil || effective != auth.MethodBasic {
			fmt.Fprintln(stderr, "--username and --password require --auth basic")
			return 2
		}
		cfg.Auth.Config = map[string]interface{}{
			"username": *username,
			"password": *password,
		}
	}
	if *cleanup {
		cfg.Consumer.Cleanup = true
	}

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return 1
	}

	b, err := bootstrap.New(cfg, bootstrap.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Error("building client")
		return 1
	}

	id, err := b.Run()
	if err != nil {
		logger.WithError(err).Error("bootstrap failed")
		return 1
	}

	fmt.Fprintln(stdout, id)

	if cfg.Consumer.Cleanup {
		if err := b.DeleteConsumer(id); err != nil {
			logger.WithError(err).Error("cleanup failed")
			return 1
		}
	}

	return 0
}
