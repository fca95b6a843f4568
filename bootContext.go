package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Lafeng/dhlab/codec"
	ex "github.com/Lafeng/dhlab/exception"
	"github.com/Lafeng/dhlab/exchange"
	log "github.com/Lafeng/dhlab/glog"
	"github.com/Lafeng/dhlab/prime"
	"github.com/urfave/cli/v2"
)

var context = &bootContext{}

var NotANumber = ex.InvalidInput.Derive("Not an integer:")

type bootContext struct {
	configFile string
	logdir     string
	debug      bool
	vFlag      int
	digits     int
	iterations int
	method     string
	seed       int64
	message    string
	conf       *exchange.Config
	stdin      io.Reader
	stdout     io.Writer
}

// global before handler
func (ctx *bootContext) initialize(c *cli.Context) (err error) {
	// inject parameters into package.exception
	ex.DEBUG = ctx.debug
	if ctx.stdin == nil {
		ctx.stdin = os.Stdin
	}
	if ctx.stdout == nil {
		ctx.stdout = os.Stdout
	}
	log.SetLogOutput(ctx.logdir)
	if c.IsSet("v") {
		log.SetLogVerbose(ctx.vFlag)
	}
	return nil
}

// loads the config file and applies the command line overrides
func (ctx *bootContext) initConfig(c *cli.Context) *exchange.Config {
	conf, err := exchange.DetectConfig(ctx.configFile)
	fatalError(err)
	if !c.IsSet("v") { // no -v
		// set logV with config.v
		log.SetLogVerbose(conf.Verbose)
	}
	if c.IsSet("digits") {
		conf.DigitCount = ctx.digits
	}
	if c.IsSet("iterations") {
		conf.Iterations = ctx.iterations
	}
	if c.IsSet("method") {
		conf.Method = ctx.method
	}
	fatalError(conf.Validate())
	if log.V(log.LV_CONFIG) {
		log.Infof("config %+v", *conf)
	}
	ctx.conf = conf
	return conf
}

func (ctx *bootContext) source(c *cli.Context) prime.Source {
	if c.IsSet("seed") {
		return prime.NewSource(ctx.seed)
	}
	return prime.TimeSource()
}

// ./dhlab [run] [-m MESSAGE]
func (ctx *bootContext) runCommandHandler(c *cli.Context) error {
	if c.Args().Len() > 0 {
		fatalAndCommandHelp(c)
	}
	conf := ctx.initConfig(c)
	session, err := exchange.NewSession(conf, ctx.source(c))
	fatalError(err)

	message := ctx.message
	if message == "" {
		message, err = ctx.readMessage()
		fatalError(err)
	}

	log.Infoln(versionString())
	log.Infoln("session", session.ID, "method", conf.Method)
	res, err := session.Run(message)
	fatalError(err)
	if log.V(log.LV_PARAMS) {
		log.Infof("session %s %s encrypted=%d", res.SessionID, res.Params, res.Encrypted)
	}
	fmt.Fprintln(ctx.stdout, res.Decrypted)
	return nil
}

func (ctx *bootContext) readMessage() (string, error) {
	fmt.Fprint(os.Stderr, "Enter a message (letters a-z): ")
	line, err := bufio.NewReader(ctx.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ./dhlab params
func (ctx *bootContext) paramsCommandHandler(c *cli.Context) error {
	conf := ctx.initConfig(c)
	session, err := exchange.NewSession(conf, ctx.source(c))
	fatalError(err)
	gen := session.Generator()
	dp, err := gen.Generate(conf.DigitCount)
	fatalError(err)
	fullOrder, err := gen.IsPrimitiveRoot(dp.Generator, dp.Prime)
	fatalError(err)
	fmt.Fprintln(ctx.stdout, "      prime:", dp.Prime)
	fmt.Fprintln(ctx.stdout, "  generator:", dp.Generator)
	fmt.Fprintln(ctx.stdout, " full order:", fullOrder)
	fmt.Fprintln(ctx.stdout, "max letters:", codec.MaxLetters(dp.Prime))
	return nil
}

// ./dhlab check N...
func (ctx *bootContext) checkCommandHandler(c *cli.Context) error {
	if c.Args().Len() < 1 {
		fatalAndCommandHelp(c)
	}
	conf := ctx.initConfig(c)
	oracle := prime.NewOracle(conf.Iterations, ctx.source(c)).WithCache(uint(c.Args().Len()))
	for _, arg := range c.Args().Slice() {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fatalError(NotANumber.Apply(arg))
		}
		ok, err := oracle.IsProbablePrime(n)
		fatalError(err)
		verdict := "composite"
		if ok {
			verdict = "probable prime"
		}
		fmt.Fprintf(ctx.stdout, "%d %s\n", n, verdict)
	}
	return nil
}

// ./dhlab init [-o file]
func (ctx *bootContext) initCommandHandler(c *cli.Context) error {
	output := getOutputArg(c)
	err := exchange.CreateConfigTemplate(output)
	fatalError(err)
	if output != "" {
		fmt.Fprintln(os.Stderr, "Config written to", output)
	}
	return nil
}

func getOutputArg(c *cli.Context) string {
	output := c.String("output")
	if output != "" && !strings.Contains(output, ".") {
		output += ".ini"
	}
	return output
}

func fatalError(err error, args ...interface{}) {
	if err != nil {
		msg := err.Error()
		if len(args) > 0 {
			msg += fmt.Sprint(args...)
		}
		if detail := ex.Detail(err); detail != "" {
			log.Errorln(detail)
		}
		fmt.Fprintln(os.Stderr, msg)
		log.Flush()
		os.Exit(ex.ExitCode(err))
	}
}

func fatalAndCommandHelp(c *cli.Context) {
	if c.Command == nil || c.Command.Name == "" {
		cli.ShowAppHelp(c)
	} else {
		cli.ShowCommandHelp(c, c.Command.Name)
	}
	log.Flush()
	os.Exit(ex.EX_INPUT)
}
