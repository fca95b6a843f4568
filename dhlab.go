package main

import (
	"os"

	ex "github.com/Lafeng/dhlab/exception"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	// -v is the log level
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	app := &cli.App{
		Name:    app_name,
		Usage:   "Diffie-Hellman exchange on fixed-width integers",
		Version: versionString(),
		Description: "The key holder generates a probable prime and a primitive root, the sender\n" +
			"encrypts one alphabetic message under the shared key, the key holder decrypts it.\n" +
			buildString() + "\n" + project_url,
		Before: context.initialize,
		Action: context.runCommandHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "indicate Config path if it in nontypical path",
				Destination: &context.configFile,
			},
			&cli.IntFlag{
				Name:        "digits",
				Usage:       "decimal digits of the prime",
				Destination: &context.digits,
			},
			&cli.IntFlag{
				Name:        "iterations",
				Usage:       "witness rounds of the primality test",
				Destination: &context.iterations,
			},
			&cli.StringFlag{
				Name:        "method",
				Usage:       "TEXTBOOK, DHE, ECDHE-P256/P384/P521/X25519 or ECDHE-SECP256K1",
				Destination: &context.method,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "seed of the random source, for reproducible runs",
				Destination: &context.seed,
			},
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Usage:       "message to exchange instead of reading stdin",
				Destination: &context.message,
			},
			&cli.IntFlag{
				Name:        "v",
				Value:       1,
				Usage:       "verbose log level",
				Destination: &context.vFlag,
			},
			&cli.StringFlag{
				Name:        "logdir",
				Usage:       "write log into the directory instead of stderr",
				Destination: &context.logdir,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "print stack traces of failures",
				Destination: &context.debug,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "exchange one message (default)",
				Action: context.runCommandHandler,
			},
			{
				Name:   "params",
				Usage:  "generate and print domain parameters",
				Action: context.paramsCommandHandler,
			},
			{
				Name:      "check",
				Usage:     "run the primality test on numbers",
				ArgsUsage: "N...",
				Action:    context.checkCommandHandler,
			},
			{
				Name:  "init",
				Usage: "create a config template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file, stdout if absent",
					},
				},
				Action: context.initCommandHandler,
			},
		},
	}
	return app
}

func main() {
	var err error
	defer func() {
		if ex.Catch(recover(), &err) {
			fatalError(err)
		}
	}()
	err = newApp().Run(os.Args)
}
